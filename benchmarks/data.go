package benchmarks

import (
	"fmt"
	"log"
	"os"

	"github.com/zeu5/objnav-rl/episode"
	"github.com/zeu5/objnav-rl/scene"
	"github.com/zeu5/objnav-rl/types"
)

func objectID(objectType string, i, j int) types.ObjectID {
	return types.ObjectID(fmt.Sprintf("%s|%+.2f|+0.90|%+.2f", objectType, float64(j)*0.25, float64(i)*0.25))
}

func placement(objectType string, i, j int, size float64) scene.Placement {
	return scene.Placement{ID: objectID(objectType, i, j), I: i, J: j, Size: size}
}

// demoLibrary is a small set of generated floor plans for runs without recorded scenes
func demoLibrary() scene.Library {
	return scene.NewLibrary(
		scene.Generate(scene.DefaultGridConfig("FloorPlan1", "Kitchen", 6, 6,
			placement("CounterTop", 5, 1, 4.0),
			placement("Mug", 5, 2, 0.3),
			placement("Sink", 0, 5, 2.0),
			placement("Cabinet", 3, 0, 3.0),
		)),
		scene.Generate(scene.DefaultGridConfig("FloorPlan2", "Kitchen", 5, 7,
			placement("Fridge", 0, 6, 5.0),
			placement("Apple", 1, 6, 0.2),
			placement("CounterTop", 4, 3, 4.0),
			placement("Mug", 4, 4, 0.3),
			placement("Mug", 2, 0, 0.3),
		)),
		scene.Generate(scene.DefaultGridConfig("FloorPlan301", "Bedroom", 5, 5,
			placement("Desk", 4, 4, 4.0),
			placement("Laptop", 4, 3, 0.5),
		)),
	)
}

func demoParents() *episode.ParentTable {
	return episode.NewParentTable(map[string]map[string]episode.Parents{
		"Kitchen": {
			"Mug":   {{Type: "CounterTop", Reward: 0.5}, {Type: "Sink", Reward: 0.3}, {Type: "Cabinet", Reward: 0.1}},
			"Apple": {{Type: "Fridge", Reward: 0.9}, {Type: "CounterTop", Reward: 0.2}},
		},
		"Bedroom": {
			"Laptop": {{Type: "Desk", Reward: 0.7}},
		},
	})
}

func loadLibrary() (scene.Library, error) {
	if scenesDir == "" {
		return demoLibrary(), nil
	}
	library, err := scene.LoadDir(scenesDir)
	if err != nil {
		return nil, err
	}
	if len(library) == 0 {
		return nil, fmt.Errorf("no scenes in %s", scenesDir)
	}
	return library, nil
}

func loadParents() (*episode.ParentTable, error) {
	if parentsPath == "" {
		return demoParents(), nil
	}
	return episode.LoadParentTable(parentsPath)
}

// newEpisode builds an Episode over its own Environment
func newEpisode(library scene.Library, parents *episode.ParentTable, shaping episode.Shaping, offset int64) (*episode.Episode, error) {
	config := episode.DefaultConfig()
	config.PartialReward = shaping
	config.Verbose = verbose
	config.Parents = parents
	if seed != 0 {
		config.Seed = seed + offset
	}
	if verbose {
		config.Logger = log.New(os.Stderr, "["+shaping.String()+"] ", log.LstdFlags)
	}
	return episode.New(config, scene.NewEnvironment(library, uint64(config.Seed)))
}

func parseShapings(names []string) ([]episode.Shaping, error) {
	out := make([]episode.Shaping, 0, len(names))
	for _, name := range names {
		s, err := episode.ParseShaping(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
