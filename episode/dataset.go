package episode

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ParseSpecs decodes a JSON list of fixed episodes
func ParseSpecs(r io.Reader) ([]Spec, error) {
	specs := make([]Spec, 0)
	if err := json.NewDecoder(r).Decode(&specs); err != nil {
		return nil, fmt.Errorf("decoding episodes: %w", err)
	}
	for i, s := range specs {
		if s.Scene == "" || s.GoalObjectType == "" {
			return nil, fmt.Errorf("episode %d: scene and goal_object_type are required", i)
		}
	}
	return specs, nil
}

func LoadSpecs(path string) ([]Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseSpecs(f)
}
