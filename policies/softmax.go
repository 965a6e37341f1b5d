package policies

import (
	"math"
	"time"

	"github.com/zeu5/objnav-rl/rl"
	"github.com/zeu5/objnav-rl/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

type SoftMaxPolicy struct {
	*QLearning
	temperature float64
	rand        rand.Source
}

var _ rl.Policy = &SoftMaxPolicy{}

// NewSoftMaxPolicy samples actions with probability proportional to exp(Q/temperature)
func NewSoftMaxPolicy(alpha, discount, temperature float64, seed uint64) *SoftMaxPolicy {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &SoftMaxPolicy{
		QLearning:   newQLearning(alpha, discount),
		temperature: temperature,
		rand:        rand.NewSource(seed),
	}
}

// Weights returns the action distribution at state
func (s *SoftMaxPolicy) Weights(state string, actions []types.Action) []float64 {
	vals := make([]float64, len(actions))
	maxVal := math.Inf(-1)
	for i, action := range actions {
		vals[i] = s.qTable.Get(state, action.Hash(), s.init) / s.temperature
		if vals[i] > maxVal {
			maxVal = vals[i]
		}
	}
	// shifted by the max to keep exp finite
	sum := 0.0
	for i, val := range vals {
		vals[i] = math.Exp(val - maxVal)
		sum += vals[i]
	}
	for i := range vals {
		vals[i] /= sum
	}
	return vals
}

func (s *SoftMaxPolicy) NextAction(_ int, state string, actions []types.Action) (int, bool) {
	if len(actions) == 0 {
		return 0, false
	}
	return sampleuv.NewWeighted(s.Weights(state, actions), s.rand).Take()
}
