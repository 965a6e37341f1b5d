package episode

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/zeu5/objnav-rl/types"
)

var (
	ErrUnknownShaping = errors.New("unknown partial reward strategy")
	ErrBadAction      = errors.New("action index out of range")
	ErrNoEpisode      = errors.New("no episode started")
	ErrNoScenes       = errors.New("no candidate scenes")
	ErrNoTarget       = errors.New("no target object in scene")
	ErrBadConfig      = errors.New("invalid episode configuration")
)

const (
	GoalSuccessReward = 5.0
	StepPenalty       = -0.01
)

// Shaping selects the partial reward strategy applied on revisited states
type Shaping int

const (
	NoShaping Shaping = iota
	Sparse
	DenseBBox
	DenseDepth
)

func (s Shaping) String() string {
	switch s {
	case NoShaping:
		return "none"
	case Sparse:
		return "sparse"
	case DenseBBox:
		return "dense_bbox"
	case DenseDepth:
		return "dense_depth"
	default:
		return fmt.Sprintf("Shaping(%d)", int(s))
	}
}

func (s Shaping) valid() bool {
	return s >= NoShaping && s <= DenseDepth
}

// ParseShaping maps a strategy name to a Shaping. The empty string means none.
func ParseShaping(name string) (Shaping, error) {
	switch name {
	case "", "none":
		return NoShaping, nil
	case "sparse":
		return Sparse, nil
	case "dense_bbox":
		return DenseBBox, nil
	case "dense_depth":
		return DenseDepth, nil
	}
	return NoShaping, fmt.Errorf("%w: %q", ErrUnknownShaping, name)
}

// Config is read-only once an Episode is built from it
type Config struct {
	PartialReward Shaping
	Verbose       bool
	// StrictDone ends the episode on every Done, successful or not
	StrictDone bool

	GoalSuccessReward float64
	StepPenalty       float64

	Actions    []types.Action
	DoneAction types.Action

	// Seed for scene and target sampling, 0 picks a time based seed
	Seed int64

	// Parents is the room scoped parent reward table, nil disables parent shaping
	Parents *ParentTable
	// Embeddings is optional, when set the goal embedding is looked up at episode start
	Embeddings types.Embeddings

	// Logger receives diagnostics, verbose output goes here too
	Logger *log.Logger
}

func DefaultConfig() Config {
	return Config{
		PartialReward:     NoShaping,
		GoalSuccessReward: GoalSuccessReward,
		StepPenalty:       StepPenalty,
		Actions:           types.DefaultActions,
		DoneAction:        types.Done,
	}
}

func (c *Config) validate() error {
	if !c.PartialReward.valid() {
		return fmt.Errorf("%w: %s", ErrUnknownShaping, c.PartialReward)
	}
	if len(c.Actions) == 0 {
		return fmt.Errorf("%w: empty action vocabulary", ErrBadConfig)
	}
	for _, a := range c.Actions {
		if a == c.DoneAction {
			return nil
		}
	}
	return fmt.Errorf("%w: done action %q not in vocabulary", ErrBadConfig, c.DoneAction)
}

func (c *Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	if c.Verbose {
		return log.New(os.Stderr, "[episode] ", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}
