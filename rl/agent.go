package rl

import (
	"fmt"

	"github.com/zeu5/objnav-rl/episode"
)

type AgentConfig struct {
	Episodes int
	Horizon  int
	Policy   Policy
	Episode  *episode.Episode
	Source   EpisodeSource
	RunID    string
}

// Agent drives an Episode with a Policy
type Agent struct {
	config  *AgentConfig
	policy  Policy
	episode *episode.Episode
	source  EpisodeSource
}

func NewAgent(config *AgentConfig) *Agent {
	return &Agent{
		config:  config,
		policy:  config.Policy,
		episode: config.Episode,
		source:  config.Source,
	}
}

// Run the agent for the configured number of episodes
func (a *Agent) Run() ([]*Trace, error) {
	traces := make([]*Trace, 0, a.config.Episodes)
	for i := 0; i < a.config.Episodes; i++ {
		trace, err := a.RunEpisode(i)
		if err != nil {
			return traces, err
		}
		traces = append(traces, trace)
	}
	return traces, nil
}

// RunEpisode starts episode i and steps it until a terminal step or the horizon.
// The returned trace holds the steps taken before any error.
func (a *Agent) RunEpisode(i int) (*Trace, error) {
	trace := NewTrace(a.config.RunID)
	trace.Episode = i
	if err := a.source.Start(a.episode, i); err != nil {
		return trace, fmt.Errorf("starting episode %d: %w", i, err)
	}
	trace.Scene = a.episode.Scene()
	trace.Target = a.episode.Target()
	actions := a.episode.Actions()

	for step := 0; step < a.config.Horizon; step++ {
		state := a.episode.State()
		next, ok := a.policy.NextAction(step, state, actions)
		if !ok {
			break
		}
		result, err := a.episode.Step(next)
		if err != nil {
			return trace, fmt.Errorf("episode %d step %d: %w", i, step, err)
		}
		s := &Step{
			State:     state,
			Action:    actions[next],
			NextState: a.episode.State(),
			Reward:    result.Reward,
			Terminal:  result.Terminal,
			Success:   result.Success,
		}
		if result.Err != nil {
			s.Err = result.Err.Error()
		}
		a.policy.Update(step, s)
		trace.Append(s)
		if result.Terminal {
			break
		}
	}
	a.policy.UpdateIteration(i, trace)
	return trace, nil
}
