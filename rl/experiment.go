package rl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/zeu5/objnav-rl/episode"
	"github.com/zeu5/objnav-rl/util"
)

type experimentRunConfig struct {
	CurrentRun int
	RunID      string
	Episodes   int
	Horizon    int
	Analyzers  []Analyzer
	Context    context.Context

	// threshold to abort the experiment
	ConsecutiveErrorsAbort int

	RecordTraces   bool
	ReportSavePath string

	LongestExpNameLen int
	// Status receives the progress line, nil prints it to stdout
	Status func(string)
}

// ExperimentStats counts the episode outcomes of one run
type ExperimentStats struct {
	Episodes  int
	Successes int
	Errors    int
	Timesteps int
	Duration  time.Duration
}

// Experiment pairs a policy with an Episode and the source of its episodes
type Experiment struct {
	Name    string
	policy  Policy
	episode *episode.Episode
	source  EpisodeSource
}

func NewExperiment(name string, policy Policy, ep *episode.Episode, source EpisodeSource) *Experiment {
	return &Experiment{
		Name:    name,
		policy:  policy,
		episode: ep,
		source:  source,
	}
}

func (e *Experiment) tracesFile(rConfig *experimentRunConfig) string {
	return path.Join(rConfig.ReportSavePath, "traces", e.Name+"_"+strconv.Itoa(rConfig.CurrentRun)+".jsonl")
}

func (e *Experiment) recordTrace(rConfig *experimentRunConfig, trace *Trace) error {
	bs, err := json.Marshal(trace)
	if err != nil {
		return err
	}
	return util.AppendToFile(e.tracesFile(rConfig), string(bs))
}

func (e *Experiment) status(rConfig *experimentRunConfig, stats ExperimentStats) {
	EPPadding := len(strconv.Itoa(rConfig.Episodes))
	rate := 0.0
	if stats.Episodes > 0 {
		rate = float64(stats.Successes) / float64(stats.Episodes) * 100
	}
	line := fmt.Sprintf("Exp:%*s, Eps:%*d/%d, Success:%*d [%5.1f%%], Err:%*d, TSteps:%d",
		rConfig.LongestExpNameLen, e.Name, EPPadding, stats.Episodes, rConfig.Episodes,
		EPPadding, stats.Successes, rate, EPPadding, stats.Errors, stats.Timesteps)
	if rConfig.Status != nil {
		rConfig.Status(line)
		return
	}
	fmt.Printf("\r%s", line)
}

// Run the experiment for the configured number of episodes, analyzing every trace
func (e *Experiment) Run(rConfig *experimentRunConfig) ExperimentStats {
	stats := ExperimentStats{}
	select {
	case <-rConfig.Context.Done():
		return stats
	default:
	}

	if rConfig.RecordTraces {
		tracesFolder := path.Join(rConfig.ReportSavePath, "traces")
		if _, err := os.Stat(tracesFolder); err != nil {
			os.MkdirAll(tracesFolder, os.ModePerm)
		}
	}

	agent := NewAgent(&AgentConfig{
		Episodes: rConfig.Episodes,
		Horizon:  rConfig.Horizon,
		Policy:   e.policy,
		Episode:  e.episode,
		Source:   e.source,
		RunID:    rConfig.RunID,
	})

	start := time.Now()
	consecutiveErrors := 0
	e.status(rConfig, stats)
	for i := 0; i < rConfig.Episodes; i++ {
		select {
		case <-rConfig.Context.Done():
			stats.Duration = time.Since(start)
			return stats
		default:
		}

		trace, err := agent.RunEpisode(i)
		trace.Experiment = e.Name
		stats.Episodes += 1
		stats.Timesteps += trace.Len()
		if err != nil {
			stats.Errors += 1
			consecutiveErrors += 1
		} else {
			consecutiveErrors = 0
		}
		if trace.Succeeded() {
			stats.Successes += 1
		}

		if rConfig.RecordTraces {
			if err := e.recordTrace(rConfig, trace); err != nil {
				fmt.Printf("\nrecording trace of %s: %s\n", e.Name, err)
			}
		}
		// analyze the trace, even if the episode ended with an error
		for _, a := range rConfig.Analyzers {
			a.Analyze(rConfig.CurrentRun, i, e.Name, trace)
		}

		e.status(rConfig, stats)
		if rConfig.ConsecutiveErrorsAbort > 0 && consecutiveErrors >= rConfig.ConsecutiveErrorsAbort {
			fmt.Printf("\n Aborting experiment %s : %d consecutive errors, last: %s\n", e.Name, consecutiveErrors, err)
			break
		}
	}
	stats.Duration = time.Since(start)
	if rConfig.Status == nil {
		fmt.Println("")
	}
	return stats
}

// Reset forgets what the policy learned
func (e *Experiment) Reset() {
	e.policy.Reset()
}
