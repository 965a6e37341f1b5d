package episode

import (
	"strings"
	"testing"
)

const parentTableJSON = `{
	"Kitchen": {
		"Mug": {"Sink": 0.3, "CounterTop": 0.5, "Cabinet": 0.1},
		"Apple": {"Fridge": 0.9}
	},
	"Bedroom": {
		"Laptop": {"Desk": 0.7}
	}
}`

func TestParseParentTableKeepsOrder(t *testing.T) {
	table, err := ParseParentTable(strings.NewReader(parentTableJSON))
	if err != nil {
		t.Fatal(err)
	}
	parents, ok := table.Lookup("Kitchen", "Mug")
	if !ok {
		t.Fatalf("expected Mug parents in Kitchen")
	}
	expected := Parents{{"Sink", 0.3}, {"CounterTop", 0.5}, {"Cabinet", 0.1}}
	if len(parents) != len(expected) {
		t.Fatalf("expected %d parents, got %d", len(expected), len(parents))
	}
	for i := range expected {
		if parents[i] != expected[i] {
			t.Errorf("parent %d: expected %v, got %v", i, expected[i], parents[i])
		}
	}
}

func TestParentTableLookupMissing(t *testing.T) {
	table, err := ParseParentTable(strings.NewReader(parentTableJSON))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := table.Lookup("Bathroom", "Mug"); ok {
		t.Errorf("unexpected entry for unknown room")
	}
	if _, ok := table.Lookup("Kitchen", "Laptop"); ok {
		t.Errorf("unexpected entry for unknown child")
	}
	var nilTable *ParentTable
	if _, ok := nilTable.Lookup("Kitchen", "Mug"); ok {
		t.Errorf("nil table must have no entries")
	}
}

func TestParseParentTableErrors(t *testing.T) {
	for _, in := range []string{
		`{"Kitchen": {"Mug": ["Sink"]}}`,
		`{"Kitchen": {"Mug": {"Sink": "high"}}}`,
		`not json`,
	} {
		if _, err := ParseParentTable(strings.NewReader(in)); err == nil {
			t.Errorf("expected error for %s", in)
		}
	}
}

func TestParseSpecs(t *testing.T) {
	in := `[
		{"room": "Kitchen", "scene": "FloorPlan21", "goal_object_type": "Mug", "task_data": ["Mug|1|1|1"], "state": "0.25|1.00|90|0"},
		{"room": "Bedroom", "scene": "FloorPlan321", "goal_object_type": "Laptop", "task_data": ["Laptop|2|2|2"]}
	]`
	specs, err := ParseSpecs(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 2 || specs[0].TaskData[0] != mug || specs[1].State != "" {
		t.Errorf("unexpected specs %+v", specs)
	}
	if _, err := ParseSpecs(strings.NewReader(`[{"room": "Kitchen"}]`)); err == nil {
		t.Errorf("expected error for a spec without scene")
	}
}
