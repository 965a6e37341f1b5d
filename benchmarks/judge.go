package benchmarks

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/zeu5/objnav-rl/episode"
	"github.com/zeu5/objnav-rl/scene"
	"github.com/zeu5/objnav-rl/types"
	"golang.org/x/exp/slices"
)

var (
	judgeScene   string
	judgeTarget  string
	judgeState   string
	judgeShaping string
)

// specFor builds the fixed episode of target in the named scene
func specFor(library scene.Library, sceneName, target, state string) (episode.Spec, error) {
	s, ok := library[sceneName]
	if !ok {
		return episode.Spec{}, fmt.Errorf("%w: %s", scene.ErrUnknownScene, sceneName)
	}
	taskData := make([]types.ObjectID, 0)
	for _, o := range s.Objects {
		if o.Type() == target {
			taskData = append(taskData, o)
		}
	}
	if len(taskData) == 0 {
		return episode.Spec{}, fmt.Errorf("%w: no %s in %s", episode.ErrNoTarget, target, sceneName)
	}
	return episode.Spec{
		Room:           s.Room,
		Scene:          sceneName,
		GoalObjectType: target,
		TaskData:       taskData,
		State:          state,
	}, nil
}

// Judge replays actions in one episode and prints the judgement of every step
func Judge(w io.Writer, library scene.Library, parents *episode.ParentTable, spec episode.Spec, shaping episode.Shaping, actions []string) error {
	ep, err := newEpisode(library, parents, shaping, 0)
	if err != nil {
		return err
	}
	if err := ep.Load(spec); err != nil {
		return err
	}
	fmt.Fprintf(w, "scene %s room %s target %s start %s\n", ep.Scene(), ep.Room(), ep.Target(), ep.StartState())

	total := 0.0
	for i, name := range actions {
		index := slices.Index(ep.Actions(), types.Action(name))
		if index < 0 {
			return fmt.Errorf("%w: %s", episode.ErrBadAction, name)
		}
		result, err := ep.Step(index)
		if err != nil {
			return err
		}
		total += result.Reward
		fmt.Fprintf(w, "%3d %-12s reward %+.4f terminal %-5v success %-5v state %s\n",
			i, name, result.Reward, result.Terminal, result.Success, ep.State())
		if result.Err != nil {
			fmt.Fprintf(w, "    error: %s\n", result.Err)
		}
		if result.Terminal {
			break
		}
	}
	fmt.Fprintf(w, "return %+.4f done %d duplicates %d failed %d visited %d\n",
		total, ep.DoneCount(), ep.DuplicateCount(), ep.FailedActionCount(), ep.Visited())
	return nil
}

func JudgeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "judge [actions...]",
		Short: "Replay a list of actions and print the reward of every step",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			library, err := loadLibrary()
			if err != nil {
				return err
			}
			parents, err := loadParents()
			if err != nil {
				return err
			}
			shaping, err := episode.ParseShaping(judgeShaping)
			if err != nil {
				return err
			}
			spec, err := specFor(library, judgeScene, judgeTarget, judgeState)
			if err != nil {
				return err
			}
			return Judge(os.Stdout, library, parents, spec, shaping, args)
		},
	}
	cmd.PersistentFlags().StringVar(&judgeScene, "scene", "FloorPlan1", "Scene to load")
	cmd.PersistentFlags().StringVar(&judgeTarget, "target", "Mug", "Goal object type")
	cmd.PersistentFlags().StringVar(&judgeState, "state", "", "Start state, random if empty")
	cmd.PersistentFlags().StringVar(&judgeShaping, "shaping", "sparse", "Partial reward strategy")
	return cmd
}
