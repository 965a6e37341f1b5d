// Package scene provides an offline environment: scenes are pre-recorded graphs of agent
// states, each with the outcome of every action and what the agent observes there.
package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/zeu5/objnav-rl/types"
)

// Observation of one object from one state
type Observation struct {
	Visible  bool    `json:"visible"`
	BBoxSize float64 `json:"bbox"`
	Distance float64 `json:"distance"`
}

// State is one agent pose of the scene graph
type State struct {
	// Transitions maps an action to the resulting state, a missing action fails
	Transitions map[types.Action]string `json:"transitions"`
	// Objects observed from this state, objects not listed are out of view and infinitely far
	Objects map[types.ObjectID]Observation `json:"objects"`
}

// Scene is a recorded floor plan
type Scene struct {
	Name    string            `json:"name"`
	Room    string            `json:"room"`
	Objects []types.ObjectID  `json:"objects"`
	States  map[string]*State `json:"states"`
}

// StateKeys returns the state fingerprints in sorted order
func (s *Scene) StateKeys() []string {
	keys := make([]string, 0, len(s.States))
	for k := range s.States {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// HasObject reports whether id is an object of the scene
func (s *Scene) HasObject(id types.ObjectID) bool {
	for _, o := range s.Objects {
		if o == id {
			return true
		}
	}
	return false
}

// Validate checks that every transition leads to a known state and every observation is of a scene object
func (s *Scene) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scene without name")
	}
	if len(s.States) == 0 {
		return fmt.Errorf("scene %s: no states", s.Name)
	}
	for key, st := range s.States {
		for a, next := range st.Transitions {
			if _, ok := s.States[next]; !ok {
				return fmt.Errorf("scene %s: %s from %s leads to unknown state %s", s.Name, a, key, next)
			}
		}
		for id := range st.Objects {
			if !s.HasObject(id) {
				return fmt.Errorf("scene %s: state %s observes unknown object %s", s.Name, key, id)
			}
		}
	}
	return nil
}

func Parse(r io.Reader) (*Scene, error) {
	s := &Scene{}
	if err := json.NewDecoder(r).Decode(s); err != nil {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Save writes the scene as JSON
func (s *Scene) Save(path string) error {
	bs, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, bs, 0644)
}

// Library holds scenes by name
type Library map[string]*Scene

func NewLibrary(scenes ...*Scene) Library {
	l := make(Library)
	for _, s := range scenes {
		l[s.Name] = s
	}
	return l
}

// LoadDir loads every .json file of dir as a scene
func LoadDir(dir string) (Library, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	l := make(Library)
	for _, p := range paths {
		s, err := Load(p)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", p, err)
		}
		l[s.Name] = s
	}
	return l, nil
}

// Names returns scene names in sorted order
func (l Library) Names() []string {
	names := make([]string, 0, len(l))
	for n := range l {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// InRoom returns the sorted names of scenes of the given room
func (l Library) InRoom(room string) []string {
	names := make([]string, 0)
	for _, n := range l.Names() {
		if l[n].Room == room {
			names = append(names, n)
		}
	}
	return names
}
