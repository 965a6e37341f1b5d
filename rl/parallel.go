package rl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

var ErrSharedEpisode = errors.New("episode shared between experiments")

// AnalyzerFactory builds a fresh analyzer for one experiment of a parallel comparison
type AnalyzerFactory func() Analyzer

// ParallelComparison runs experiments concurrently.
// An Episode is not safe for concurrent use, every experiment must own its Episode and Environment.
type ParallelComparison struct {
	Experiments []*Experiment
	analyzers   map[string]AnalyzerFactory
	comparators map[string]Comparator
	cConfig     *ComparisonConfig
	parallelism int
	// RunIDs holds the identifier of every completed run
	RunIDs []string
}

func NewParallelComparison(config *ComparisonConfig, parallelism int) *ParallelComparison {
	if parallelism < 1 {
		parallelism = 1
	}
	prepareRecordPath(config)
	return &ParallelComparison{
		Experiments: make([]*Experiment, 0),
		analyzers:   make(map[string]AnalyzerFactory),
		comparators: make(map[string]Comparator),
		cConfig:     config,
		parallelism: parallelism,
		RunIDs:      make([]string, 0),
	}
}

func (c *ParallelComparison) AddAnalysis(name string, analyzer AnalyzerFactory, comparator Comparator) {
	c.analyzers[name] = analyzer
	c.comparators[name] = comparator
}

// AddExperiment rejects an experiment whose Episode is already used by another one
func (c *ParallelComparison) AddExperiment(e *Experiment) error {
	for _, other := range c.Experiments {
		if other.episode == e.episode {
			return fmt.Errorf("%w: %s and %s", ErrSharedEpisode, other.Name, e.Name)
		}
	}
	c.Experiments = append(c.Experiments, e)
	return nil
}

func (c *ParallelComparison) Run(ctx context.Context) error {
	if err := recordConfig(c.cConfig, c.Experiments, sortedNames(c.analyzers)); err != nil {
		return err
	}
	longest := longestName(c.Experiments)

	for run := 0; run < c.cConfig.Runs; run++ {
		runID := NewRunID()
		fmt.Printf("Run %d (%s)\n", run+1, runID)
		datasets, err := c.runOnce(ctx, run, runID, longest)
		if err != nil {
			return err
		}
		names := make([]string, len(c.Experiments))
		for i, e := range c.Experiments {
			names[i] = e.Name
		}
		for _, name := range sortedNames(c.comparators) {
			c.comparators[name](run, names, datasets[name])
		}
		c.RunIDs = append(c.RunIDs, runID)
	}
	return nil
}

func (c *ParallelComparison) runOnce(ctx context.Context, run int, runID string, longest int) (map[string][]DataSet, error) {
	datasets := make(map[string][]DataSet)
	for name := range c.analyzers {
		datasets[name] = make([]DataSet, len(c.Experiments))
	}

	outputs := make([]*ParallelOutput, c.parallelism)
	for i := range outputs {
		outputs[i] = NewParallelOutput()
	}
	printer := NewTerminalPrinter(ctx, outputs, time.Second)
	printer.Start()
	defer printer.Stop()

	slots := make(chan int, c.parallelism)
	for i := 0; i < c.parallelism; i++ {
		slots <- i
	}
	// datasets are written at distinct indices, experiments never share slices
	wg := new(sync.WaitGroup)
	for i, e := range c.Experiments {
		var slot int
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case slot = <-slots:
		}

		wg.Add(1)
		go func(i, slot int, e *Experiment) {
			defer wg.Done()
			defer func() { slots <- slot }()

			analyzers := make(map[string]Analyzer)
			rConfig := c.prepareRunConfig(ctx, run, runID, longest)
			for _, name := range sortedNames(c.analyzers) {
				a := c.analyzers[name]()
				analyzers[name] = a
				rConfig.Analyzers = append(rConfig.Analyzers, a)
			}
			output := outputs[slot]
			output.SetRunning(true)
			rConfig.Status = func(s string) { output.TrySet(s) }

			e.Run(rConfig)
			output.Set(fmt.Sprintf("Exp:%*s, done", longest, e.Name))
			output.SetRunning(false)

			for name, a := range analyzers {
				datasets[name][i] = a.DataSet()
			}
			e.Reset()
		}(i, slot, e)
	}
	wg.Wait()
	return datasets, nil
}

func (c *ParallelComparison) prepareRunConfig(ctx context.Context, run int, runID string, longest int) *experimentRunConfig {
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
	return rCfg
}

// TERMINAL PRINTER

type TerminalPrinter struct {
	outputs       []*ParallelOutput
	ctx           context.Context
	printerCtx    context.Context
	printerCancel context.CancelFunc
	frequency     time.Duration
	done          chan struct{}

	writer *uilive.Writer
}

func NewTerminalPrinter(ctx context.Context, outputs []*ParallelOutput, frequency time.Duration) *TerminalPrinter {
	printerCtx, cancel := context.WithCancel(ctx)
	return &TerminalPrinter{
		outputs:       outputs,
		ctx:           ctx,
		printerCtx:    printerCtx,
		printerCancel: cancel,
		frequency:     frequency,
		done:          make(chan struct{}),
		writer:        uilive.New(),
	}
}

func (p *TerminalPrinter) Start() {
	p.writer.Start()
	go func() {
		defer close(p.done)
		for {
			select {
			case <-p.printerCtx.Done():
				p.print()
				p.writer.Stop()
				return
			case <-time.After(p.frequency):
				p.print()
			}
		}
	}()
}

// Stop prints the last status and waits for the printer to exit
func (p *TerminalPrinter) Stop() {
	p.printerCancel()
	<-p.done
}

func (p *TerminalPrinter) print() {
	lines := make([]string, 0, len(p.outputs))
	for _, output := range p.outputs {
		if s := output.Get(); s != "" {
			lines = append(lines, s)
		}
	}
	if len(lines) == 0 {
		return
	}
	fmt.Fprint(p.writer, strings.Join(lines, "\n")+"\n")
}

// PARALLEL OUTPUT

// used to update and print experiment outputs
type ParallelOutput struct {
	mu        sync.Mutex
	printable string
	running   bool
}

func NewParallelOutput() *ParallelOutput {
	return &ParallelOutput{}
}

// Set the output string (blocking)
func (p *ParallelOutput) Set(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printable = s
}

// Try to set the output string (non-blocking)
func (p *ParallelOutput) TrySet(s string) bool {
	if p.mu.TryLock() {
		defer p.mu.Unlock()
		p.printable = s
		return true
	}
	return false
}

// Get the output string (blocking)
func (p *ParallelOutput) Get() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.printable
}

func (p *ParallelOutput) SetRunning(running bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = running
}

func (p *ParallelOutput) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
