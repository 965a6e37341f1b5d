package episode

import (
	"math"
	"testing"
)

// revisit puts the episode on a visited state so the next step is shaped
func revisit(t *testing.T, e *Episode) {
	t.Helper()
	mustStep(t, e, moveAhead)
}

func TestDenseDepthTargetApproach(t *testing.T) {
	env := newFakeEnv(mug)
	e, _ := newTestEpisode(t, DenseDepth, nil, env)
	revisit(t, e)

	env.obs[mug].dist = 5
	expectReward(t, mustStep(t, e, moveAhead), GoalSuccessReward*0.4)

	// below one unit the reward exceeds the goal reward, it is not clamped
	env.obs[mug].dist = 0.5
	expectReward(t, mustStep(t, e, moveAhead), GoalSuccessReward*1.075)

	// no improvement, no parents
	env.obs[mug].dist = 0.7
	expectReward(t, mustStep(t, e, moveAhead), StepPenalty)
}

func TestDenseDepthFarTargetFloorsAtZero(t *testing.T) {
	env := newFakeEnv(mug)
	e, _ := newTestEpisode(t, DenseDepth, nil, env)
	revisit(t, e)

	env.obs[mug].dist = 20
	expectReward(t, mustStep(t, e, moveAhead), 0)
}

func TestDenseDepthParents(t *testing.T) {
	env := newFakeEnv(mug, counter)
	e, _ := newTestEpisode(t, DenseDepth, Parents{{"CounterTop", 1.0}}, env)
	revisit(t, e)

	env.obs[counter].dist = 3
	expectReward(t, mustStep(t, e, moveAhead), 10*0.7)
	if got := e.records[counter].bestDist; got != 3 {
		t.Errorf("expected best distance 3, got %v", got)
	}
	if e.records[counter].seen {
		t.Errorf("a parent out of reach must not be marked seen")
	}

	expectReward(t, mustStep(t, e, moveAhead), StepPenalty)

	env.obs[counter].dist = 0.8
	expectReward(t, mustStep(t, e, moveAhead), 10)
	if !e.records[counter].seen {
		t.Errorf("a parent within reach must be marked seen")
	}

	env.obs[counter].dist = 0.2
	expectReward(t, mustStep(t, e, moveAhead), StepPenalty)
}

func TestDenseDepthTargetSkipsParents(t *testing.T) {
	env := newFakeEnv(mug, counter)
	env.obs[counter].dist = 0.5
	e, _ := newTestEpisode(t, DenseDepth, Parents{{"CounterTop", 1.0}}, env)
	revisit(t, e)

	env.obs[mug].dist = 1
	expectReward(t, mustStep(t, e, moveAhead), GoalSuccessReward)
	if e.records.seen(counter) {
		t.Errorf("parents are not considered when the target improves")
	}
	expectReward(t, mustStep(t, e, moveAhead), 10)
}

func TestDenseBBoxTargetGrowth(t *testing.T) {
	env := newFakeEnv(mug)
	e, _ := newTestEpisode(t, DenseBBox, nil, env)
	revisit(t, e)

	env.obs[mug].size = 0.01
	expectReward(t, mustStep(t, e, moveAhead), 0)
	env.obs[mug].size = 0.04
	expectReward(t, mustStep(t, e, moveAhead), GoalSuccessReward*0.5)

	record := e.records[mug]
	if record.anchorSize != 0.01 || record.bestSize != 0.04 {
		t.Errorf("unexpected record %+v", record)
	}
}

func TestDenseBBoxMonotonic(t *testing.T) {
	env := newFakeEnv(mug)
	e, _ := newTestEpisode(t, DenseBBox, nil, env)
	revisit(t, e)

	env.obs[mug].size = 0.04
	mustStep(t, e, moveAhead)
	for _, size := range []float64{0.04, 0.03, 0} {
		env.obs[mug].size = size
		expectReward(t, mustStep(t, e, moveAhead), StepPenalty)
		record := e.records[mug]
		if record.anchorSize != 0.04 || record.bestSize != 0.04 {
			t.Errorf("size %v changed the record: %+v", size, record)
		}
	}
}

func TestDenseBBoxParents(t *testing.T) {
	env := newFakeEnv(mug, counter)
	e, _ := newTestEpisode(t, DenseBBox, Parents{{"CounterTop", 1.0}}, env)
	revisit(t, e)

	// not visible: award scaled by the growth since the anchor
	env.obs[counter].size = 0.01
	expectReward(t, mustStep(t, e, moveAhead), 0)
	env.obs[counter].size = 0.04
	expectReward(t, mustStep(t, e, moveAhead), 10*0.5)

	// visible and larger: full award, then credited
	env.obs[counter].size = 0.09
	env.obs[counter].visible = true
	expectReward(t, mustStep(t, e, moveAhead), 10)
	if !e.records.seen(counter) {
		t.Errorf("expected the parent to be marked seen")
	}
	env.obs[counter].size = 0.5
	expectReward(t, mustStep(t, e, moveAhead), StepPenalty)
}

func TestDenseBBoxPicksLargestParent(t *testing.T) {
	env := newFakeEnv(mug, counter, sink)
	e, _ := newTestEpisode(t, DenseBBox, Parents{{"CounterTop", 0.2}, {"Sink", 0.6}}, env)
	revisit(t, e)

	env.obs[counter].size = 0.1
	env.obs[counter].visible = true
	env.obs[sink].size = 0.1
	env.obs[sink].visible = true
	expectReward(t, mustStep(t, e, moveAhead), 6)
	if !e.records.seen(sink) || e.records.seen(counter) {
		t.Errorf("only the winning parent is credited")
	}
	// the loser had its best size updated, it needs to grow again to qualify
	expectReward(t, mustStep(t, e, moveAhead), StepPenalty)
	env.obs[counter].size = 0.2
	expectReward(t, mustStep(t, e, moveAhead), 2)
}

func TestShapingHelpers(t *testing.T) {
	best, ok := argmax([]candidate{{id: counter, reward: 1}, {id: sink, reward: 3}, {id: mug, reward: 3}})
	if !ok || best.id != sink {
		t.Errorf("expected first maximum, got %v", best.id)
	}
	if _, ok := argmax(nil); ok {
		t.Errorf("expected no candidate")
	}
	if got := growthFactor(0.01, 0.04); !approx(got, 0.5) {
		t.Errorf("growth factor: expected 0.5, got %v", got)
	}
	if got := distanceDecay(1); got != 1 {
		t.Errorf("decay at 1: expected 1, got %v", got)
	}
	if got := distanceDecay(100); got != 0 {
		t.Errorf("decay floor: expected 0, got %v", got)
	}
	if !math.IsInf(newShapingRecord().bestDist, 1) {
		t.Errorf("expected infinite initial distance")
	}
}
