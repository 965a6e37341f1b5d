package types

import "testing"

func TestObjectIDType(t *testing.T) {
	cases := map[ObjectID]string{
		"Mug|-1.25|0.90|0.30": "Mug",
		"CounterTop|1|2|3":    "CounterTop",
		"Window":              "Window",
		"":                    "",
	}
	for id, expected := range cases {
		if got := id.Type(); got != expected {
			t.Errorf("type of %q: expected %q, got %q", id, expected, got)
		}
	}
}

func TestEmbeddingTable(t *testing.T) {
	table := EmbeddingTable{"Mug": []float64{0.1, 0.2}}
	if v, ok := table.Embedding("Mug"); !ok || len(v) != 2 {
		t.Errorf("expected embedding for Mug")
	}
	if _, ok := table.Embedding("Sofa"); ok {
		t.Errorf("unexpected embedding for Sofa")
	}
}
