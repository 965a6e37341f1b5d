package rl

import (
	"fmt"
	"io"
	"math"
	"os"
	"path"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// SeriesAnalyzer records one value per episode, the dataset is the []float64 series
type SeriesAnalyzer struct {
	measure func(*Trace) float64
	values  []float64
}

var _ Analyzer = &SeriesAnalyzer{}

func NewSeriesAnalyzer(measure func(*Trace) float64) *SeriesAnalyzer {
	return &SeriesAnalyzer{
		measure: measure,
		values:  make([]float64, 0),
	}
}

func (s *SeriesAnalyzer) Analyze(_ int, _ int, _ string, t *Trace) {
	s.values = append(s.values, s.measure(t))
}

func (s *SeriesAnalyzer) DataSet() DataSet {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

func (s *SeriesAnalyzer) Reset() {
	s.values = make([]float64, 0)
}

// ReturnAnalyzer records the undiscounted return of each episode
func ReturnAnalyzer() *SeriesAnalyzer {
	return NewSeriesAnalyzer(func(t *Trace) float64 { return t.Return() })
}

// SuccessAnalyzer records 1 for a successful episode and 0 otherwise
func SuccessAnalyzer() *SeriesAnalyzer {
	return NewSeriesAnalyzer(func(t *Trace) float64 {
		if t.Succeeded() {
			return 1
		}
		return 0
	})
}

// LengthAnalyzer records the number of steps of each episode
func LengthAnalyzer() *SeriesAnalyzer {
	return NewSeriesAnalyzer(func(t *Trace) float64 { return float64(t.Len()) })
}

// Summary statistics of a series
type Summary struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		std = 0
	}
	return Summary{
		N:      len(values),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(values),
		Max:    floats.Max(values),
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d mean=%.4f std=%.4f min=%.4f max=%.4f", s.N, s.Mean, s.StdDev, s.Min, s.Max)
}

// MovingAverage of values over the trailing window
func MovingAverage(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	for i := range values {
		from := i - window + 1
		if from < 0 {
			from = 0
		}
		out[i] = stat.Mean(values[from:i+1], nil)
	}
	return out
}

// SummaryComparator prints the summary of every experiment's series
func SummaryComparator(w io.Writer, label string) Comparator {
	return func(run int, names []string, ds []DataSet) {
		for i, name := range names {
			values, ok := ds[i].([]float64)
			if !ok {
				continue
			}
			fmt.Fprintf(w, "Run %d %s %s: %s\n", run, name, label, Summarize(values))
		}
	}
}

// CurvePlotter saves the moving average of every experiment's series in one plot
func CurvePlotter(plotPath, label string, window int) Comparator {
	return func(run int, names []string, ds []DataSet) {
		if _, err := os.Stat(plotPath); err != nil {
			os.MkdirAll(plotPath, os.ModePerm)
		}
		p := plot.New()
		p.Title.Text = "Comparison"
		p.X.Label.Text = "Episode"
		p.Y.Label.Text = label
		for i := 0; i < len(names); i++ {
			values, ok := ds[i].([]float64)
			if !ok || len(values) == 0 {
				continue
			}
			avg := MovingAverage(values, window)
			points := make(plotter.XYs, len(avg))
			for j, v := range avg {
				if math.IsNaN(v) {
					v = 0
				}
				points[j] = plotter.XY{X: float64(j), Y: v}
			}
			line, err := plotter.NewLine(points)
			if err != nil {
				continue
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			p.Legend.Add(names[i], line)
		}
		p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, strconv.Itoa(run)+"_"+label+".png"))
	}
}
