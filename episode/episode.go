// Package episode implements the object navigation episode: target selection,
// per step judgement of the agent's actions and the partial reward strategies.
package episode

import (
	"fmt"
	"log"
	"time"

	"github.com/zeu5/objnav-rl/types"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/mat"
)

// Result of a single step
type Result struct {
	Reward   float64
	Terminal bool
	Success  bool
	// Err is a non fatal environment query failure during judgement,
	// the step is then reported as unsuccessful
	Err error
}

// Episode owns the mutable state of one navigation attempt.
// It is not safe for concurrent use, parallel workers need one Episode and one Environment each.
type Episode struct {
	config Config
	env    types.Environment
	logger *log.Logger
	rand   *rand.Rand

	started bool
	scene   string
	room    string
	start   string

	target    string
	taskData  []types.ObjectID
	parents   Parents
	embedding *mat.VecDense

	doneCount         int
	duplicateCount    int
	failedActionCount int

	visited map[string]bool
	records shapingRecords
}

// New validates config and returns an Episode bound to env. No episode is started yet.
func New(config Config, env types.Environment) (*Episode, error) {
	if env == nil {
		return nil, fmt.Errorf("%w: nil environment", ErrBadConfig)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Episode{
		config:  config,
		env:     env,
		logger:  config.logger(),
		rand:    rand.New(rand.NewSource(uint64(seed))),
		visited: make(map[string]bool),
		records: make(shapingRecords),
	}, nil
}

// NewEpisode samples a scene from scenes and a goal object type present in both
// the scene and targets, then starts a fresh episode from a random agent location.
// The goal's instance ids keep the environment's AllObjects order.
func (e *Episode) NewEpisode(scenes []string, targets []string, room string) error {
	if len(scenes) == 0 {
		return ErrNoScenes
	}
	scene := scenes[e.rand.Intn(len(scenes))]
	if err := e.env.Reset(scene); err != nil {
		return fmt.Errorf("resetting scene %s: %w", scene, err)
	}
	start := e.env.RandomizeAgentLocation()
	objects := e.env.AllObjects()

	intersection := make([]string, 0)
	for _, obj := range objects {
		if slices.Contains(targets, obj.Type()) {
			intersection = append(intersection, obj.Type())
		}
	}
	if len(intersection) == 0 {
		return fmt.Errorf("%w: scene %s has none of %v", ErrNoTarget, scene, targets)
	}
	goal := intersection[e.rand.Intn(len(intersection))]

	taskData := make([]types.ObjectID, 0)
	for _, obj := range objects {
		if obj.Type() == goal {
			taskData = append(taskData, obj)
		}
	}
	e.begin(scene, room, start, goal, taskData)
	return nil
}

// Spec is a fixed episode, as stored in test and validation datasets
type Spec struct {
	Room           string           `json:"room"`
	Scene          string           `json:"scene"`
	GoalObjectType string           `json:"goal_object_type"`
	TaskData       []types.ObjectID `json:"task_data"`
	// State is the start state fingerprint, empty for a random start
	State string `json:"state,omitempty"`
}

// Load starts the fixed episode described by spec without sampling
func (e *Episode) Load(spec Spec) error {
	if err := e.env.Reset(spec.Scene); err != nil {
		return fmt.Errorf("resetting scene %s: %w", spec.Scene, err)
	}
	start := spec.State
	if t, ok := e.env.(types.Teleporter); ok && start != "" {
		if err := t.Teleport(start); err != nil {
			return fmt.Errorf("teleporting to %s: %w", start, err)
		}
		e.logger.Printf("scene %s: teleported to %s", spec.Scene, start)
	} else {
		start = e.env.RandomizeAgentLocation()
	}
	taskData := make([]types.ObjectID, len(spec.TaskData))
	copy(taskData, spec.TaskData)
	e.begin(spec.Scene, spec.Room, start, spec.GoalObjectType, taskData)
	return nil
}

func (e *Episode) begin(scene, room, start, goal string, taskData []types.ObjectID) {
	e.scene = scene
	e.room = room
	e.start = start
	e.target = goal
	e.taskData = taskData

	e.doneCount = 0
	e.duplicateCount = 0
	e.failedActionCount = 0
	e.visited = make(map[string]bool)
	e.clearSeen()

	e.parents = nil
	if e.config.Parents != nil {
		child := goal
		if len(taskData) > 0 {
			child = taskData[0].Type()
		}
		parents, ok := e.config.Parents.Lookup(room, child)
		if ok {
			e.parents = parents
		} else {
			e.logger.Printf("no parent rewards for %s in room %q, parent shaping disabled", child, room)
		}
	}

	e.embedding = nil
	if e.config.Embeddings != nil {
		if v, ok := e.config.Embeddings.Embedding(goal); ok && len(v) > 0 {
			e.embedding = mat.NewVecDense(len(v), slices.Clone(v))
		} else {
			e.logger.Printf("no embedding for %s", goal)
		}
	}

	e.started = true
	if e.config.Verbose {
		e.logger.Printf("Scene %s Navigating towards: %s", scene, goal)
	}
}

// Reset returns the agent to the episode's start state and clears the done and duplicate counters.
// The target is kept.
func (e *Episode) Reset() {
	e.doneCount = 0
	e.duplicateCount = 0
	e.env.BackToStart()
}

// Step executes the action at index in the vocabulary and judges the outcome.
// Done is not forwarded to the environment.
func (e *Episode) Step(index int) (Result, error) {
	if !e.started {
		return Result{}, ErrNoEpisode
	}
	if index < 0 || index >= len(e.config.Actions) {
		return Result{}, fmt.Errorf("%w: %d", ErrBadAction, index)
	}
	action := e.config.Actions[index]
	if e.config.Verbose {
		e.logger.Printf("action %s", action)
	}

	if action != e.config.DoneAction {
		if err := e.env.Step(action); err != nil {
			return Result{}, fmt.Errorf("executing %s: %w", action, err)
		}
	} else {
		e.doneCount++
	}
	return e.judge(action), nil
}

// Actions returns the action vocabulary
func (e *Episode) Actions() []types.Action {
	return e.config.Actions
}

// State returns the current environment state fingerprint
func (e *Episode) State() string {
	return e.env.State()
}

func (e *Episode) Config() Config {
	return e.config
}

func (e *Episode) Scene() string {
	return e.scene
}

func (e *Episode) Room() string {
	return e.room
}

func (e *Episode) Target() string {
	return e.target
}

// TaskData returns the target instance ids in the order the terminal check visits them
func (e *Episode) TaskData() []types.ObjectID {
	return slices.Clone(e.taskData)
}

// Parents returns the parent rewards of the current target, nil if none apply
func (e *Episode) Parents() Parents {
	return e.parents
}

// GoalEmbedding returns the target's embedding, nil when no Embeddings are configured
func (e *Episode) GoalEmbedding() *mat.VecDense {
	return e.embedding
}

func (e *Episode) DoneCount() int {
	return e.doneCount
}

func (e *Episode) DuplicateCount() int {
	return e.duplicateCount
}

func (e *Episode) FailedActionCount() int {
	return e.failedActionCount
}

// Visited returns the number of distinct states recorded since the last clear
func (e *Episode) Visited() int {
	return len(e.visited)
}

// StartState returns the fingerprint the agent started the episode from
func (e *Episode) StartState() string {
	return e.start
}
