package benchmarks

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/spf13/cobra"
	"github.com/zeu5/objnav-rl/episode"
	"github.com/zeu5/objnav-rl/policies"
	"github.com/zeu5/objnav-rl/rl"
)

var (
	room        string
	targets     []string
	policyName  string
	parallelism int
)

func newPolicy(name string, offset int64) (rl.Policy, error) {
	s := uint64(0)
	if seed != 0 {
		s = uint64(seed + offset)
	}
	switch name {
	case "random":
		return rl.NewRandomPolicy(s), nil
	case "softmax":
		return policies.NewSoftMaxPolicy(0.3, 0.95, 0.5, s), nil
	case "egreedy":
		return policies.NewEpsilonGreedyPolicy(0.3, 0.95, 0.1, s), nil
	}
	return nil, fmt.Errorf("unknown policy %q", name)
}

func addAnalyses(add func(string, rl.AnalyzerFactory, rl.Comparator)) {
	plots := path.Join(saveFile, "plots")
	add("return", func() rl.Analyzer { return rl.ReturnAnalyzer() }, summarizeAndPlot("return", plots))
	add("success", func() rl.Analyzer { return rl.SuccessAnalyzer() }, summarizeAndPlot("success", plots))
	add("length", func() rl.Analyzer { return rl.LengthAnalyzer() }, summarizeAndPlot("length", plots))
}

func summarizeAndPlot(label, plots string) rl.Comparator {
	summary := rl.SummaryComparator(os.Stdout, label)
	plot := rl.CurvePlotter(plots, label, 50)
	return func(run int, names []string, ds []rl.DataSet) {
		summary(run, names, ds)
		plot(run, names, ds)
	}
}

// Nav compares the shaping strategies on sampled episodes, one experiment per strategy
func Nav(ctx context.Context) error {
	library, err := loadLibrary()
	if err != nil {
		return err
	}
	parents, err := loadParents()
	if err != nil {
		return err
	}
	shapings, err := parseShapings(shapingNames)
	if err != nil {
		return err
	}
	scenes := library.InRoom(room)
	if len(scenes) == 0 {
		return fmt.Errorf("%w: no %s scenes", episode.ErrNoScenes, room)
	}

	source := &rl.SampledEpisodes{Scenes: scenes, Targets: targets, Room: room}
	config := &rl.ComparisonConfig{
		Runs:         runs,
		Episodes:     episodes,
		Horizon:      horizon,
		RecordPath:   saveFile,
		RecordTraces: true,
	}

	experiments := make([]*rl.Experiment, 0, len(shapings))
	for i, shaping := range shapings {
		ep, err := newEpisode(library, parents, shaping, int64(i))
		if err != nil {
			return err
		}
		policy, err := newPolicy(policyName, int64(i))
		if err != nil {
			return err
		}
		experiments = append(experiments, rl.NewExperiment(policyName+"-"+shaping.String(), policy, ep, source))
	}

	if parallelism > 1 {
		c := rl.NewParallelComparison(config, parallelism)
		addAnalyses(c.AddAnalysis)
		for _, e := range experiments {
			if err := c.AddExperiment(e); err != nil {
				return err
			}
		}
		// the comparison clears the save folder, profiles are created after it
		stop := startProfiling()
		defer stop()
		return c.Run(ctx)
	}
	c := rl.NewComparison(config)
	addAnalyses(func(name string, a rl.AnalyzerFactory, comp rl.Comparator) {
		c.AddAnalysis(name, a(), comp)
	})
	for _, e := range experiments {
		c.AddExperiment(e)
	}
	stop := startProfiling()
	defer stop()
	return c.Run(ctx)
}

func NavCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nav",
		Short: "Compare partial reward strategies on sampled episodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Nav(cmd.Context())
		},
	}
	cmd.PersistentFlags().StringVar(&room, "room", "Kitchen", "Room type of the sampled scenes")
	cmd.PersistentFlags().StringSliceVar(&targets, "targets", []string{"Mug", "Apple"}, "Goal object types")
	cmd.PersistentFlags().StringSliceVar(&shapingNames, "shaping", []string{"none", "sparse", "dense_bbox", "dense_depth"}, "Partial reward strategies to compare")
	cmd.PersistentFlags().StringVarP(&policyName, "policy", "p", "softmax", "Policy: random, softmax or egreedy")
	cmd.PersistentFlags().IntVar(&parallelism, "parallel", 1, "Number of experiments to run concurrently")
	return cmd
}
