package rl

import (
	"time"

	"github.com/zeu5/objnav-rl/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// Policy picks the index of the next action in the episode's vocabulary
type Policy interface {
	UpdateIteration(int, *Trace)
	NextAction(int, string, []types.Action) (int, bool)
	Update(int, *Step)
	Reset()
}

type RandomPolicy struct {
	rand *rand.Rand
}

var _ Policy = &RandomPolicy{}

// NewRandomPolicy returns a uniform policy, seed 0 picks a time based seed
func NewRandomPolicy(seed uint64) *RandomPolicy {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RandomPolicy{
		rand: rand.New(rand.NewSource(seed)),
	}
}

func (r *RandomPolicy) Reset() {}

func (r *RandomPolicy) UpdateIteration(_ int, _ *Trace) {}

func (r *RandomPolicy) NextAction(_ int, _ string, actions []types.Action) (int, bool) {
	if len(actions) == 0 {
		return 0, false
	}
	return r.rand.Intn(len(actions)), true
}

func (r *RandomPolicy) Update(_ int, _ *Step) {}

// WeightedRandomPolicy samples actions with fixed weights, actions without a weight get 1
type WeightedRandomPolicy struct {
	weights map[types.Action]float64
	src     rand.Source
}

var _ Policy = &WeightedRandomPolicy{}

func NewWeightedRandomPolicy(weights map[types.Action]float64, seed uint64) *WeightedRandomPolicy {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &WeightedRandomPolicy{
		weights: weights,
		src:     rand.NewSource(seed),
	}
}

func (w *WeightedRandomPolicy) Reset() {}

func (w *WeightedRandomPolicy) UpdateIteration(_ int, _ *Trace) {}

func (w *WeightedRandomPolicy) NextAction(_ int, _ string, actions []types.Action) (int, bool) {
	weights := make([]float64, len(actions))
	for i, a := range actions {
		weight, ok := w.weights[a]
		if !ok {
			weight = 1
		}
		weights[i] = weight
	}
	return sampleuv.NewWeighted(weights, w.src).Take()
}

func (w *WeightedRandomPolicy) Update(_ int, _ *Step) {}
