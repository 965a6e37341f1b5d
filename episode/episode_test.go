package episode

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/zeu5/objnav-rl/types"
)

func TestParseShaping(t *testing.T) {
	cases := map[string]Shaping{
		"":            NoShaping,
		"none":        NoShaping,
		"sparse":      Sparse,
		"dense_bbox":  DenseBBox,
		"dense_depth": DenseDepth,
	}
	for name, expected := range cases {
		s, err := ParseShaping(name)
		if err != nil || s != expected {
			t.Errorf("parsing %q: expected %v, got %v (%v)", name, expected, s, err)
		}
		if name != "" && s.String() != name {
			t.Errorf("expected %q, got %q", name, s.String())
		}
	}
	if _, err := ParseShaping("dense"); !errors.Is(err, ErrUnknownShaping) {
		t.Errorf("expected unknown shaping error, got %v", err)
	}
}

func TestNewValidatesConfig(t *testing.T) {
	env := newFakeEnv(mug)

	config := DefaultConfig()
	config.PartialReward = Shaping(42)
	if _, err := New(config, env); !errors.Is(err, ErrUnknownShaping) {
		t.Errorf("expected unknown shaping error, got %v", err)
	}

	config = DefaultConfig()
	config.Actions = []types.Action{types.MoveAhead}
	if _, err := New(config, env); !errors.Is(err, ErrBadConfig) {
		t.Errorf("expected bad config without done action, got %v", err)
	}

	config = DefaultConfig()
	config.Actions = nil
	if _, err := New(config, env); !errors.Is(err, ErrBadConfig) {
		t.Errorf("expected bad config with empty vocabulary, got %v", err)
	}

	if _, err := New(DefaultConfig(), nil); !errors.Is(err, ErrBadConfig) {
		t.Errorf("expected bad config with nil environment, got %v", err)
	}
}

func TestStepErrors(t *testing.T) {
	env := newFakeEnv(mug)
	e, err := New(DefaultConfig(), env)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Step(0); !errors.Is(err, ErrNoEpisode) {
		t.Errorf("expected no episode error, got %v", err)
	}
	if err := e.Load(Spec{Scene: "FloorPlan1", GoalObjectType: "Mug", TaskData: []types.ObjectID{mug}}); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Step(len(types.DefaultActions)); !errors.Is(err, ErrBadAction) {
		t.Errorf("expected bad action error, got %v", err)
	}
	if _, err := e.Step(-1); !errors.Is(err, ErrBadAction) {
		t.Errorf("expected bad action error, got %v", err)
	}

	stepErr := errors.New("controller gone")
	env.stepErr = stepErr
	if _, err := e.Step(moveAhead); !errors.Is(err, stepErr) {
		t.Errorf("expected environment error, got %v", err)
	}
}

func TestNewEpisodeSamplesTarget(t *testing.T) {
	env := newFakeEnv(counter, mug, sink, mug2)
	buf := &bytes.Buffer{}
	config := DefaultConfig()
	config.Seed = 7
	config.Logger = log.New(buf, "", 0)
	config.Parents = NewParentTable(map[string]map[string]Parents{
		"Kitchen": {"Mug": {{"CounterTop", 1.0}}},
	})
	config.Embeddings = types.EmbeddingTable{"Mug": {1, 2, 3}}
	e, err := New(config, env)
	if err != nil {
		t.Fatal(err)
	}

	if err := e.NewEpisode([]string{"FloorPlan1"}, []string{"Mug", "Apple"}, "Kitchen"); err != nil {
		t.Fatalf("new episode: %v", err)
	}
	if env.scene != "FloorPlan1" {
		t.Errorf("expected scene reset, got %q", env.scene)
	}
	if e.Target() != "Mug" {
		t.Errorf("expected Mug target, got %q", e.Target())
	}
	taskData := e.TaskData()
	if len(taskData) != 2 || taskData[0] != mug || taskData[1] != mug2 {
		t.Errorf("unexpected task data %v", taskData)
	}
	if len(e.Parents()) != 1 {
		t.Errorf("expected parent rewards for Mug in Kitchen")
	}
	if v := e.GoalEmbedding(); v == nil || v.Len() != 3 || v.AtVec(2) != 3 {
		t.Errorf("unexpected goal embedding %v", v)
	}

	if err := e.NewEpisode([]string{"FloorPlan1"}, []string{"Mug"}, "Bathroom"); err != nil {
		t.Fatal(err)
	}
	if e.Parents() != nil {
		t.Errorf("expected no parent rewards in Bathroom")
	}
	if !strings.Contains(buf.String(), "no parent rewards for Mug") {
		t.Errorf("expected the fallback to be logged, got %q", buf.String())
	}
}

func TestNewEpisodeErrors(t *testing.T) {
	env := newFakeEnv(counter)
	e, err := New(DefaultConfig(), env)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.NewEpisode(nil, []string{"Mug"}, "Kitchen"); !errors.Is(err, ErrNoScenes) {
		t.Errorf("expected no scenes error, got %v", err)
	}
	if err := e.NewEpisode([]string{"FloorPlan1"}, []string{"Mug"}, "Kitchen"); !errors.Is(err, ErrNoTarget) {
		t.Errorf("expected no target error, got %v", err)
	}
}

func TestNewEpisodeResetsState(t *testing.T) {
	env := newFakeEnv(mug, counter)
	env.obs[counter].visible = true
	e, _ := newTestEpisode(t, Sparse, Parents{{"CounterTop", 1.0}}, env)

	mustStep(t, e, moveAhead)
	mustStep(t, e, moveAhead)
	mustStep(t, e, done)
	mustStep(t, e, moveAhead)
	if e.DoneCount() == 0 || e.Visited() == 0 || e.DuplicateCount() == 0 {
		t.Fatalf("expected some bookkeeping before the new episode")
	}

	if err := e.NewEpisode([]string{"FloorPlan2"}, []string{"Mug"}, "Kitchen"); err != nil {
		t.Fatal(err)
	}
	if e.DoneCount() != 0 || e.DuplicateCount() != 0 || e.FailedActionCount() != 0 || e.Visited() != 0 || len(e.records) != 0 {
		t.Errorf("new episode must start from clean bookkeeping")
	}
}

func TestReset(t *testing.T) {
	env := newFakeEnv(mug)
	env.script = []string{"s1"}
	e, _ := newTestEpisode(t, NoShaping, nil, env)

	mustStep(t, e, moveAhead)
	mustStep(t, e, moveAhead)
	mustStep(t, e, done)
	e.Reset()
	if env.backToStart != 1 || env.state != "s0" {
		t.Errorf("expected the agent back at s0, at %q", env.state)
	}
	if e.DoneCount() != 0 || e.DuplicateCount() != 0 {
		t.Errorf("expected cleared counters")
	}
	if e.Target() != "Mug" || e.StartState() != "s0" {
		t.Errorf("reset must keep the episode target and start")
	}
}

type teleportEnv struct {
	*fakeEnv
}

func (t *teleportEnv) Teleport(state string) error {
	t.state = state
	t.start = state
	return nil
}

func TestLoadTeleports(t *testing.T) {
	env := &teleportEnv{newFakeEnv(mug)}
	e, err := New(DefaultConfig(), env)
	if err != nil {
		t.Fatal(err)
	}
	err = e.Load(Spec{Room: "Kitchen", Scene: "FloorPlan3", GoalObjectType: "Mug", TaskData: []types.ObjectID{mug}, State: "1.00|0.00|90|30"})
	if err != nil {
		t.Fatal(err)
	}
	if e.State() != "1.00|0.00|90|30" || e.StartState() != "1.00|0.00|90|30" {
		t.Errorf("expected teleported start, got %q", e.State())
	}
	if e.Scene() != "FloorPlan3" || e.Room() != "Kitchen" {
		t.Errorf("unexpected scene %q room %q", e.Scene(), e.Room())
	}
}
