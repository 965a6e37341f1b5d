package benchmarks

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	episodes int
	horizon  int
	saveFile string
	runs     int
	seed     int64
	verbose  bool

	scenesDir    string
	parentsPath  string
	datasetPath  string
	cpuprofile   string
	memprofile   string
	shapingNames []string
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   "objnav",
		Short: "Object navigation episodes with shaped rewards",
	}
	rootCommand.PersistentFlags().IntVarP(&episodes, "episodes", "e", 1000, "Number of episodes to run")
	rootCommand.PersistentFlags().IntVar(&horizon, "horizon", 200, "Horizon of each episode")
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", "results", "Save the result data in the specified folder")
	rootCommand.PersistentFlags().IntVar(&runs, "runs", 1, "Number of experiment runs")
	rootCommand.PersistentFlags().Int64Var(&seed, "seed", 0, "Random seed, 0 for a time based seed")
	rootCommand.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every judged step")
	rootCommand.PersistentFlags().StringVar(&scenesDir, "scenes", os.Getenv("OBJNAV_SCENES"), "Directory of scene files, the built-in demo scenes if empty")
	rootCommand.PersistentFlags().StringVar(&parentsPath, "parents", os.Getenv("OBJNAV_PARENTS"), "Parent reward table, the built-in demo table if empty")
	rootCommand.PersistentFlags().StringVar(&datasetPath, "dataset", os.Getenv("OBJNAV_EPISODES"), "Fixed episodes file")
	rootCommand.PersistentFlags().StringVar(&cpuprofile, "cpuprofile", "", "Write a CPU profile to this file in the save folder")
	rootCommand.PersistentFlags().StringVar(&memprofile, "memprofile", "", "Write a memory profile to this file in the save folder")
	// adding the subcommands here
	rootCommand.AddCommand(NavCommand())
	rootCommand.AddCommand(JudgeCommand())
	rootCommand.AddCommand(EvalCommand())
	return rootCommand
}
