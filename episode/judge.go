package episode

import "github.com/zeu5/objnav-rl/types"

// judge computes the reward of the last action.
//
// A movement into an already visited state is scored by the configured partial reward
// strategy, any other step gets the step penalty. Done succeeds on the first visible
// task instance, in task data order, and always clears the visit and shaping bookkeeping.
func (e *Episode) judge(action types.Action) Result {
	result := Result{Reward: e.config.StepPenalty}
	done := action == e.config.DoneAction

	state := e.env.State()
	if e.visited[state] {
		if !done {
			if e.env.LastActionSuccess() {
				e.duplicateCount++
			} else {
				e.failedActionCount++
			}
			result.Reward, result.Err = e.partialReward()
		}
	} else {
		e.visited[state] = true
	}

	if !done {
		result.Success = e.env.LastActionSuccess() && result.Err == nil
		return result
	}

	for _, id := range e.taskData {
		if !e.env.ObjectIsVisible(id) {
			continue
		}
		result.Reward = e.config.GoalSuccessReward
		result.Terminal = true
		result.Success = true
		if e.config.PartialReward != NoShaping {
			e.records = make(shapingRecords)
			result.Reward += e.sparseReward()
		}
		break
	}
	e.clearSeen()
	e.visited = make(map[string]bool)

	if e.config.StrictDone {
		result.Terminal = true
	}
	if e.config.Verbose {
		e.logger.Printf("Success: %v", result.Success)
	}
	return result
}

func (e *Episode) partialReward() (float64, error) {
	switch e.config.PartialReward {
	case Sparse:
		return e.sparseReward(), nil
	case DenseBBox:
		return e.denseBBoxReward()
	case DenseDepth:
		return e.denseDepthReward()
	}
	return e.config.StepPenalty, nil
}

// clearSeen drops every shaping record: seen-list, best sizes, anchors and distances
func (e *Episode) clearSeen() {
	e.records = make(shapingRecords)
}
