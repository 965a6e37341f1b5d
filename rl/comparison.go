package rl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"
)

// Generic Dataset that contains information after processing the traces
type DataSet interface{}

// Analyzer compresses the information in the traces to a DataSet
type Analyzer interface {
	// run, episode, experiment, trace
	Analyze(int, int, string, *Trace)
	// Resulting dataset
	DataSet() DataSet
	// Reset the analyzer
	Reset()
}

// Comparator differentiates between different datasets with associated names
// run, experiment names, datasets
type Comparator func(int, []string, []DataSet)

func NoopComparator() Comparator {
	return func(_ int, _ []string, _ []DataSet) {}
}

// ComparisonConfig contains the configuration for the comparison
type ComparisonConfig struct {
	Runs     int
	Episodes int
	Horizon  int

	RecordPath   string
	RecordTraces bool

	ConsecutiveErrorsAbort int
}

// Comparison runs experiments one after the other.
// The traces obtained from the experiments are analyzed and the datasets compared.
type Comparison struct {
	Experiments []*Experiment
	analyzers   map[string]Analyzer
	comparators map[string]Comparator
	cConfig     *ComparisonConfig
	// RunIDs holds the identifier of every completed run
	RunIDs []string
}

// NewComparison creates a comparison instance, clearing the record path
func NewComparison(config *ComparisonConfig) *Comparison {
	prepareRecordPath(config)
	return &Comparison{
		Experiments: make([]*Experiment, 0),
		analyzers:   make(map[string]Analyzer),
		comparators: make(map[string]Comparator),
		cConfig:     config,
		RunIDs:      make([]string, 0),
	}
}

func prepareRecordPath(config *ComparisonConfig) {
	if _, err := os.Stat(config.RecordPath); err == nil {
		RemoveContents(config.RecordPath)
	}
	os.MkdirAll(config.RecordPath, 0777)
	if config.RecordTraces {
		os.MkdirAll(path.Join(config.RecordPath, "traces"), 0777)
	}
}

// AddAnalysis adds an analyzer and comparator to the comparison
func (c *Comparison) AddAnalysis(name string, analyzer Analyzer, comparator Comparator) {
	c.analyzers[name] = analyzer
	c.comparators[name] = comparator
}

// Add experiments to compare
func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

func longestName(experiments []*Experiment) int {
	longest := 0
	for _, e := range experiments {
		if len(e.Name) > longest {
			longest = len(e.Name)
		}
	}
	return longest
}

func sortedNames[T any](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run the comparison
func (c *Comparison) Run(ctx context.Context) error {
	if err := recordConfig(c.cConfig, c.Experiments, sortedNames(c.analyzers)); err != nil {
		return err
	}
	longest := longestName(c.Experiments)

	for run := 0; run < c.cConfig.Runs; run++ {
		runID := NewRunID()
		fmt.Printf("Run %d (%s)\n", run+1, runID)
		datasets := make(map[string][]DataSet)
		for name := range c.analyzers {
			datasets[name] = make([]DataSet, len(c.Experiments))
		}

		names := make([]string, len(c.Experiments))
		for i, e := range c.Experiments {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			rConfig := c.prepareRunConfig(ctx, run, runID, longest)
			e.Run(rConfig)
			for name, a := range c.analyzers {
				datasets[name][i] = a.DataSet()
				a.Reset()
			}
			names[i] = e.Name
			e.Reset()
		}
		for _, name := range sortedNames(c.comparators) {
			c.comparators[name](run, names, datasets[name])
		}
		c.RunIDs = append(c.RunIDs, runID)
	}
	return nil
}

func (c *Comparison) prepareRunConfig(ctx context.Context, run int, runID string, longest int) *experimentRunConfig {
	rCfg := &experimentRunConfig{
		CurrentRun:             run,
		RunID:                  runID,
		Episodes:               c.cConfig.Episodes,
		Horizon:                c.cConfig.Horizon,
		Analyzers:              make([]Analyzer, 0, len(c.analyzers)),
		Context:                ctx,
		ConsecutiveErrorsAbort: c.cConfig.ConsecutiveErrorsAbort,
		RecordTraces:           c.cConfig.RecordTraces,
		ReportSavePath:         c.cConfig.RecordPath,
		LongestExpNameLen:      longest,
	}
	if rCfg.ConsecutiveErrorsAbort == 0 {
		rCfg.ConsecutiveErrorsAbort = 10
	}
	for _, name := range sortedNames(c.analyzers) {
		rCfg.Analyzers = append(rCfg.Analyzers, c.analyzers[name])
	}
	return rCfg
}

// record the configuration of the comparison
func recordConfig(cfg *ComparisonConfig, experiments []*Experiment, analyzers []string) error {
	if _, err := os.Stat(cfg.RecordPath); err != nil {
		os.MkdirAll(cfg.RecordPath, 0777)
	}

	out := make(map[string]interface{})
	out["runs"] = cfg.Runs
	out["episodes"] = cfg.Episodes
	out["horizon"] = cfg.Horizon
	out["record_traces"] = cfg.RecordTraces

	names := make([]string, 0, len(experiments))
	for _, e := range experiments {
		names = append(names, e.Name)
	}
	out["experiments"] = names
	out["analyzers"] = analyzers

	bs, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return os.WriteFile(path.Join(cfg.RecordPath, "comparison_config.json"), bs, 0644)
}

// Delete everything in the directory except the outtext.txt file
func RemoveContents(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	names, err := d.Readdirnames(-1)
	if err != nil {
		return err
	}
	for _, name := range names {
		if name != "outtext.txt" {
			err = os.RemoveAll(path.Join(dir, name))
			if err != nil {
				return err
			}
		}
	}
	return nil
}
