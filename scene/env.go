package scene

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/zeu5/objnav-rl/types"
	"golang.org/x/exp/rand"
)

var (
	ErrUnknownScene = errors.New("unknown scene")
	ErrUnknownState = errors.New("unknown state")
	ErrNoScene      = errors.New("no scene loaded")
)

// Environment replays a Library of recorded scenes
type Environment struct {
	library Library
	scene   *Scene
	state   string
	start   string
	success bool
	rand    *rand.Rand
}

var _ types.Environment = &Environment{}
var _ types.Teleporter = &Environment{}

// NewEnvironment returns an environment over library, seed 0 picks a time based seed
func NewEnvironment(library Library, seed uint64) *Environment {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Environment{
		library: library,
		rand:    rand.New(rand.NewSource(seed)),
	}
}

func (e *Environment) Reset(name string) error {
	s, ok := e.library[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownScene, name)
	}
	keys := s.StateKeys()
	if len(keys) == 0 {
		return fmt.Errorf("%w: %s has no states", ErrUnknownScene, name)
	}
	e.scene = s
	e.state = keys[0]
	e.start = e.state
	e.success = true
	return nil
}

func (e *Environment) Step(a types.Action) error {
	if e.scene == nil {
		return ErrNoScene
	}
	next, ok := e.scene.States[e.state].Transitions[a]
	if !ok {
		e.success = false
		return nil
	}
	e.state = next
	e.success = true
	return nil
}

func (e *Environment) LastActionSuccess() bool {
	return e.success
}

func (e *Environment) State() string {
	return e.state
}

func (e *Environment) observation(id types.ObjectID) (Observation, bool) {
	if e.scene == nil {
		return Observation{}, false
	}
	o, ok := e.scene.States[e.state].Objects[id]
	return o, ok
}

func (e *Environment) ObjectIsVisible(id types.ObjectID) bool {
	o, ok := e.observation(id)
	return ok && o.Visible
}

func (e *Environment) FindID(objectType string) []types.ObjectID {
	ids := make([]types.ObjectID, 0)
	if e.scene == nil {
		return ids
	}
	for _, o := range e.scene.Objects {
		if o.Type() == objectType {
			ids = append(ids, o)
		}
	}
	return ids
}

func (e *Environment) ObjectBBSize(id types.ObjectID) (float64, error) {
	if e.scene == nil || !e.scene.HasObject(id) {
		return 0, fmt.Errorf("%w: %s", types.ErrNotFound, id)
	}
	o, ok := e.observation(id)
	if !ok {
		return 0, nil
	}
	return o.BBoxSize, nil
}

func (e *Environment) ObjectDist(id types.ObjectID) (float64, error) {
	if e.scene == nil || !e.scene.HasObject(id) {
		return 0, fmt.Errorf("%w: %s", types.ErrNotFound, id)
	}
	o, ok := e.observation(id)
	if !ok {
		return math.Inf(1), nil
	}
	return o.Distance, nil
}

func (e *Environment) AllObjects() []types.ObjectID {
	if e.scene == nil {
		return nil
	}
	objects := make([]types.ObjectID, len(e.scene.Objects))
	copy(objects, e.scene.Objects)
	return objects
}

func (e *Environment) RandomizeAgentLocation() string {
	if e.scene == nil {
		return ""
	}
	keys := e.scene.StateKeys()
	e.state = keys[e.rand.Intn(len(keys))]
	e.start = e.state
	e.success = true
	return e.state
}

func (e *Environment) BackToStart() {
	e.state = e.start
	e.success = true
}

// Teleport places the agent at state and makes it the start state
func (e *Environment) Teleport(state string) error {
	if e.scene == nil {
		return ErrNoScene
	}
	if _, ok := e.scene.States[state]; !ok {
		return fmt.Errorf("%w: %s in %s", ErrUnknownState, state, e.scene.Name)
	}
	e.state = state
	e.start = state
	e.success = true
	return nil
}

// Scene returns the loaded scene, nil before Reset
func (e *Environment) Scene() *Scene {
	return e.scene
}
