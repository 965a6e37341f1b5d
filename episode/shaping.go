package episode

import (
	"math"

	"github.com/zeu5/objnav-rl/types"
)

const (
	// parent base rewards are divided by this in the dense strategies
	parentRewardScale = 0.1
	// slope of the linear distance decay
	depthDecayRate = 0.15
	// distance at which a parent counts as reached
	reachDistance = 1.0
)

// shapingRecord is the per object bookkeeping of the dense and sparse strategies
type shapingRecord struct {
	// largest bounding box size seen, 0 until observed
	bestSize float64
	// first recorded bounding box size
	anchorSize float64
	anchored   bool
	// smallest distance seen, +Inf until observed
	bestDist float64
	// already credited with a shaping bonus
	seen bool
}

func newShapingRecord() *shapingRecord {
	return &shapingRecord{bestDist: math.Inf(1)}
}

// growSize records a strictly larger bounding box and anchors the first one
func (r *shapingRecord) growSize(size float64) {
	if !r.anchored {
		r.anchorSize = size
		r.anchored = true
	}
	r.bestSize = size
}

// shapingRecords is owned by one Episode and replaced wholesale on every clear
type shapingRecords map[types.ObjectID]*shapingRecord

func (s shapingRecords) get(id types.ObjectID) *shapingRecord {
	r, ok := s[id]
	if !ok {
		r = newShapingRecord()
		s[id] = r
	}
	return r
}

func (s shapingRecords) seen(id types.ObjectID) bool {
	r, ok := s[id]
	return ok && r.seen
}

// candidate is one object competing for the shaping award of a step
type candidate struct {
	id     types.ObjectID
	reward float64
	// metric is the distance or size that qualified the candidate
	metric float64
	// factor scales the reward when the candidate is not fully credited
	factor float64
}

// argmax returns the candidate with the largest reward.
// Ties go to the first candidate in iteration order, which is the parent table order
// followed by the environment's FindID order.
func argmax(candidates []candidate) (candidate, bool) {
	if len(candidates) == 0 {
		return candidate{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.reward > best.reward {
			best = c
		}
	}
	return best, true
}

// growthFactor is 1 - sqrt(anchor/size), 0 at the anchor and approaching 1 as size grows
func growthFactor(anchor, size float64) float64 {
	return 1 - math.Sqrt(anchor/size)
}

// distanceDecay is 1 at distance 1, decreasing linearly and floored at 0.
// It is not capped above so distances below 1 give more than 1.
func distanceDecay(dist float64) float64 {
	return math.Max(-depthDecayRate*(dist-1)+1, 0)
}
