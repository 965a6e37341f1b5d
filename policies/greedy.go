package policies

import (
	"time"

	"github.com/zeu5/objnav-rl/rl"
	"github.com/zeu5/objnav-rl/types"
	"golang.org/x/exp/rand"
)

// QLearning holds the tabular update shared by the Q policies.
// Updates run backwards over the trace at the end of each episode.
type QLearning struct {
	qTable   *QTable
	alpha    float64
	discount float64
	// value of unknown entries
	init float64
}

func newQLearning(alpha, discount float64) *QLearning {
	return &QLearning{
		qTable:   NewQTable(),
		alpha:    alpha,
		discount: discount,
	}
}

func (q *QLearning) QTable() *QTable {
	return q.qTable
}

func (q *QLearning) Reset() {
	q.qTable = NewQTable()
}

func (q *QLearning) Record(path string) error {
	return q.qTable.Record(path)
}

func (q *QLearning) Update(_ int, _ *rl.Step) {}

func (q *QLearning) UpdateIteration(_ int, trace *rl.Trace) {
	for i := trace.Len() - 1; i > -1; i-- {
		step, ok := trace.Get(i)
		if !ok {
			continue
		}
		nextVal := 0.0
		if !step.Terminal {
			_, nextVal = q.qTable.Max(step.NextState, q.init)
		}
		curVal := q.qTable.Get(step.State, step.Action.Hash(), q.init)
		newVal := (1-q.alpha)*curVal + q.alpha*(step.Reward+q.discount*nextVal)
		q.qTable.Set(step.State, step.Action.Hash(), newVal)
	}
}

func hashes(actions []types.Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.Hash()
	}
	return out
}

type EpsilonGreedyPolicy struct {
	*QLearning
	epsilon float64
	rand    *rand.Rand
}

var _ rl.Policy = &EpsilonGreedyPolicy{}

// NewEpsilonGreedyPolicy explores uniformly with probability epsilon and is greedy otherwise
func NewEpsilonGreedyPolicy(alpha, discount, epsilon float64, seed uint64) *EpsilonGreedyPolicy {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &EpsilonGreedyPolicy{
		QLearning: newQLearning(alpha, discount),
		epsilon:   epsilon,
		rand:      rand.New(rand.NewSource(seed)),
	}
}

func (e *EpsilonGreedyPolicy) NextAction(_ int, state string, actions []types.Action) (int, bool) {
	if len(actions) == 0 {
		return 0, false
	}
	if e.rand.Float64() < e.epsilon {
		return e.rand.Intn(len(actions)), true
	}
	i, _ := e.qTable.MaxAmong(state, hashes(actions), e.init)
	return i, i >= 0
}
