package rl

import (
	"github.com/google/uuid"
	"github.com/zeu5/objnav-rl/types"
)

// Step is one judged transition of an episode
type Step struct {
	State     string       `json:"state"`
	Action    types.Action `json:"action"`
	NextState string       `json:"next_state"`
	Reward    float64      `json:"reward"`
	Terminal  bool         `json:"terminal"`
	Success   bool         `json:"success"`
	Err       string       `json:"error,omitempty"`
}

// Trace of an episode
type Trace struct {
	RunID      string  `json:"run_id"`
	Experiment string  `json:"experiment"`
	Episode    int     `json:"episode"`
	Scene      string  `json:"scene"`
	Target     string  `json:"target"`
	Steps      []*Step `json:"steps"`
}

func NewTrace(runID string) *Trace {
	return &Trace{
		RunID: runID,
		Steps: make([]*Step, 0),
	}
}

// NewRunID returns a fresh identifier for a run of an experiment
func NewRunID() string {
	return uuid.New().String()
}

func (t *Trace) Append(s *Step) {
	t.Steps = append(t.Steps, s)
}

func (t *Trace) Len() int {
	return len(t.Steps)
}

func (t *Trace) Get(i int) (*Step, bool) {
	if i < 0 || i >= len(t.Steps) {
		return nil, false
	}
	return t.Steps[i], true
}

func (t *Trace) Last() (*Step, bool) {
	return t.Get(len(t.Steps) - 1)
}

func (t *Trace) GetPrefix(i int) (*Trace, bool) {
	if i > len(t.Steps) {
		return nil, false
	}
	prefix := *t
	prefix.Steps = t.Steps[0:i]
	return &prefix, true
}

// Return is the undiscounted sum of rewards
func (t *Trace) Return() float64 {
	sum := 0.0
	for _, s := range t.Steps {
		sum += s.Reward
	}
	return sum
}

// Succeeded reports whether the episode ended on a successful done
func (t *Trace) Succeeded() bool {
	last, ok := t.Last()
	return ok && last.Terminal && last.Success
}
