package benchmarks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/spf13/cobra"
	"github.com/zeu5/objnav-rl/episode"
	"github.com/zeu5/objnav-rl/rl"
	"github.com/zeu5/objnav-rl/scene"
	"github.com/zeu5/objnav-rl/util"
)

var (
	evalShaping string
	evalPolicy  string
)

// Eval runs every fixed episode once and reports success rate, return and length
func Eval(ctx context.Context, w io.Writer, library scene.Library, parents *episode.ParentTable, specs []episode.Spec, shaping episode.Shaping, policy rl.Policy) ([]string, error) {
	ep, err := newEpisode(library, parents, shaping, 0)
	if err != nil {
		return nil, err
	}
	agent := rl.NewAgent(&rl.AgentConfig{
		Episodes: len(specs),
		Horizon:  horizon,
		Policy:   policy,
		Episode:  ep,
		Source:   &rl.FixedEpisodes{Specs: specs},
		RunID:    rl.NewRunID(),
	})

	returns := rl.ReturnAnalyzer()
	success := rl.SuccessAnalyzer()
	lengths := rl.LengthAnalyzer()
	for i := range specs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		trace, err := agent.RunEpisode(i)
		if err != nil {
			return nil, err
		}
		for _, a := range []rl.Analyzer{returns, success, lengths} {
			a.Analyze(0, i, "eval", trace)
		}
	}

	lines := []string{
		fmt.Sprintf("episodes %d shaping %s", len(specs), shaping),
		fmt.Sprintf("success %s", rl.Summarize(success.DataSet().([]float64))),
		fmt.Sprintf("return %s", rl.Summarize(returns.DataSet().([]float64))),
		fmt.Sprintf("length %s", rl.Summarize(lengths.DataSet().([]float64))),
	}
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	return lines, nil
}

func EvalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Run the fixed test episodes and summarize the outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			if datasetPath == "" {
				return fmt.Errorf("no fixed episodes, set --dataset or OBJNAV_EPISODES")
			}
			specs, err := episode.LoadSpecs(datasetPath)
			if err != nil {
				return err
			}
			library, err := loadLibrary()
			if err != nil {
				return err
			}
			parents, err := loadParents()
			if err != nil {
				return err
			}
			shaping, err := episode.ParseShaping(evalShaping)
			if err != nil {
				return err
			}
			policy, err := newPolicy(evalPolicy, 0)
			if err != nil {
				return err
			}
			stop := startProfiling()
			defer stop()
			lines, err := Eval(cmd.Context(), os.Stdout, library, parents, specs, shaping, policy)
			if err != nil {
				return err
			}
			return util.WriteToFile(path.Join(saveFile, "eval.txt"), lines...)
		},
	}
	cmd.PersistentFlags().StringVar(&evalShaping, "shaping", "none", "Partial reward strategy")
	cmd.PersistentFlags().StringVarP(&evalPolicy, "policy", "p", "random", "Policy: random, softmax or egreedy")
	return cmd
}
