package rl

import (
	"errors"

	"github.com/zeu5/objnav-rl/episode"
)

var ErrNoSpecs = errors.New("no fixed episodes")

// EpisodeSource starts the i-th episode of an experiment
type EpisodeSource interface {
	Start(*episode.Episode, int) error
}

// SampledEpisodes draws a random scene and target for every episode
type SampledEpisodes struct {
	Scenes  []string
	Targets []string
	Room    string
}

var _ EpisodeSource = &SampledEpisodes{}

func (s *SampledEpisodes) Start(e *episode.Episode, _ int) error {
	return e.NewEpisode(s.Scenes, s.Targets, s.Room)
}

// FixedEpisodes cycles through a list of recorded episodes
type FixedEpisodes struct {
	Specs []episode.Spec
}

var _ EpisodeSource = &FixedEpisodes{}

func (f *FixedEpisodes) Start(e *episode.Episode, i int) error {
	if len(f.Specs) == 0 {
		return ErrNoSpecs
	}
	return e.Load(f.Specs[i%len(f.Specs)])
}
