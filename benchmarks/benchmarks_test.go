package benchmarks

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zeu5/objnav-rl/episode"
	"github.com/zeu5/objnav-rl/rl"
	"github.com/zeu5/objnav-rl/scene"
	"github.com/zeu5/objnav-rl/types"
)

func TestDemoLibraryIsValid(t *testing.T) {
	library := demoLibrary()
	for _, name := range library.Names() {
		if err := library[name].Validate(); err != nil {
			t.Errorf("%s: %s", name, err)
		}
	}
	if len(library.InRoom("Kitchen")) != 2 {
		t.Errorf("expected two kitchens")
	}
	if _, ok := demoParents().Lookup("Kitchen", "Mug"); !ok {
		t.Errorf("expected Mug parents in the demo table")
	}
}

func TestSpecFor(t *testing.T) {
	library := demoLibrary()
	spec, err := specFor(library, "FloorPlan2", "Mug", "")
	if err != nil {
		t.Fatal(err)
	}
	if spec.Room != "Kitchen" || len(spec.TaskData) != 2 {
		t.Errorf("unexpected spec %+v", spec)
	}
	if _, err := specFor(library, "FloorPlan2", "Laptop", ""); !errors.Is(err, episode.ErrNoTarget) {
		t.Errorf("expected no target error, got %v", err)
	}
	if _, err := specFor(library, "FloorPlan9", "Mug", ""); !errors.Is(err, scene.ErrUnknownScene) {
		t.Errorf("expected unknown scene error, got %v", err)
	}
}

func TestJudgeReplaysActions(t *testing.T) {
	library := demoLibrary()
	// facing the Mug on the counter from two cells away
	spec, err := specFor(library, "FloorPlan1", "Mug", scene.GridKey(3, 2, 0, 0, 0.25))
	if err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}
	if err := Judge(out, library, demoParents(), spec, episode.Sparse, []string{"MoveAhead", "Done", "LookUp"}); err != nil {
		t.Fatal(err)
	}
	text := out.String()
	if !strings.Contains(text, "Done         reward +5.5000 terminal true") {
		t.Errorf("expected a successful done with the counter bonus, got\n%s", text)
	}
	if strings.Contains(text, "LookUp") {
		t.Errorf("expected the replay to stop at the terminal step")
	}

	err = Judge(out, library, demoParents(), spec, episode.Sparse, []string{"Jump"})
	if !errors.Is(err, episode.ErrBadAction) {
		t.Errorf("expected bad action error, got %v", err)
	}
}

func TestEvalSummarizes(t *testing.T) {
	library := demoLibrary()
	spec, err := specFor(library, "FloorPlan1", "Mug", scene.GridKey(4, 2, 0, 0, 0.25))
	if err != nil {
		t.Fatal(err)
	}
	horizon = 5
	out := &bytes.Buffer{}
	lines, err := Eval(context.Background(), out, library, nil, []episode.Spec{spec, spec}, episode.NoShaping, &donePolicy{})
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 4 || !strings.HasPrefix(lines[1], "success n=2 mean=1.0000") {
		t.Errorf("unexpected summary %v", lines)
	}
}

type donePolicy struct{}

func (donePolicy) NextAction(_ int, _ string, actions []types.Action) (int, bool) {
	return len(actions) - 1, true
}
func (donePolicy) Update(_ int, _ *rl.Step) {}
func (donePolicy) UpdateIteration(_ int, _ *rl.Trace) {}
func (donePolicy) Reset() {}

func TestNewPolicy(t *testing.T) {
	for _, name := range []string{"random", "softmax", "egreedy"} {
		if _, err := newPolicy(name, 0); err != nil {
			t.Errorf("%s: %s", name, err)
		}
	}
	if _, err := newPolicy("oracle", 0); err == nil {
		t.Errorf("expected error for unknown policy")
	}
	if _, err := parseShapings([]string{"sparse", "dense"}); !errors.Is(err, episode.ErrUnknownShaping) {
		t.Errorf("expected unknown shaping error, got %v", err)
	}
}
