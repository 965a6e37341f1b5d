package episode

import (
	"math"

	"github.com/zeu5/objnav-rl/types"
)

// targetInstance is the instance the dense strategies track for the goal itself
func (e *Episode) targetInstance() (types.ObjectID, bool) {
	if e.target == "" {
		return "", false
	}
	ids := e.env.FindID(e.target)
	if len(ids) == 0 {
		return "", false
	}
	return ids[0], true
}

// denseBBoxReward rewards the growth of bounding boxes.
//
// A strictly larger target box returns the goal reward scaled by its growth since
// the anchor and skips the parents. Otherwise every unseen parent instance whose box grew
// competes on base reward; the winner is marked seen when visible and gets the full award,
// else the award is scaled by the winner's growth.
func (e *Episode) denseBBoxReward() (float64, error) {
	if id, ok := e.targetInstance(); ok {
		size, err := e.env.ObjectBBSize(id)
		if err != nil {
			return e.config.StepPenalty, err
		}
		record := e.records.get(id)
		if size > record.bestSize {
			record.growSize(size)
			reward := e.config.GoalSuccessReward * growthFactor(record.anchorSize, size)
			if e.config.Verbose {
				e.logger.Printf("target %s %s bbox %.4f, reward %.4f", e.target, id, size, reward)
			}
			return reward, nil
		}
	}

	candidates := make([]candidate, 0)
	for _, parent := range e.parents {
		for _, id := range e.env.FindID(parent.Type) {
			size, err := e.env.ObjectBBSize(id)
			if err != nil {
				return e.config.StepPenalty, err
			}
			record := e.records.get(id)
			if record.seen || size <= record.bestSize {
				continue
			}
			record.growSize(size)
			candidates = append(candidates, candidate{
				id:     id,
				reward: parent.Reward / parentRewardScale,
				metric: size,
				factor: growthFactor(record.anchorSize, size),
			})
		}
	}
	best, ok := argmax(candidates)
	if !ok {
		return e.config.StepPenalty, nil
	}
	if e.env.ObjectIsVisible(best.id) {
		e.records.get(best.id).seen = true
		return best.reward, nil
	}
	reward := best.reward * best.factor
	if e.config.Verbose {
		e.logger.Printf("parent %s bbox %.4f, reward %.4f", best.id, best.metric, reward)
	}
	return reward, nil
}

// denseDepthReward rewards approaching objects.
//
// A strictly closer target returns the goal reward scaled by the distance decay and skips
// the parents. Otherwise unseen parent instances that got closer compete on base reward;
// a winner within reach is marked seen and gets the full award, else the award is scaled
// by the decay and the winner's best distance is recorded.
func (e *Episode) denseDepthReward() (float64, error) {
	if id, ok := e.targetInstance(); ok {
		dist, err := e.env.ObjectDist(id)
		if err != nil {
			return e.config.StepPenalty, err
		}
		record := e.records.get(id)
		if dist < record.bestDist {
			reward := e.config.GoalSuccessReward * distanceDecay(dist)
			record.bestDist = dist
			if e.config.Verbose {
				e.logger.Printf("target %s %s distance %.4f, reward %.4f", e.target, id, dist, reward)
			}
			return reward, nil
		}
	}

	candidates := make([]candidate, 0)
	for _, parent := range e.parents {
		for _, id := range e.env.FindID(parent.Type) {
			dist, err := e.env.ObjectDist(id)
			if err != nil {
				return e.config.StepPenalty, err
			}
			if e.records.seen(id) || dist >= e.bestDist(id) {
				continue
			}
			candidates = append(candidates, candidate{
				id:     id,
				reward: parent.Reward / parentRewardScale,
				metric: dist,
				factor: distanceDecay(dist),
			})
		}
	}
	best, ok := argmax(candidates)
	if !ok {
		return e.config.StepPenalty, nil
	}
	record := e.records.get(best.id)
	if best.metric <= reachDistance {
		record.seen = true
		return best.reward, nil
	}
	reward := best.reward * best.factor
	record.bestDist = best.metric
	if e.config.Verbose {
		e.logger.Printf("parent %s distance %.4f, reward %.4f", best.id, best.metric, reward)
	}
	return reward, nil
}

func (e *Episode) bestDist(id types.ObjectID) float64 {
	if r, ok := e.records[id]; ok {
		return r.bestDist
	}
	return math.Inf(1)
}
