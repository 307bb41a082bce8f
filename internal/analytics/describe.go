package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"esgdash/internal/dataset"
)

// ColumnSummary holds describe-style statistics for one numeric column.
type ColumnSummary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// StatNames lists the summary rows in display order.
var StatNames = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Values returns the statistics in StatNames order.
func (s ColumnSummary) Values() []float64 {
	return []float64{float64(s.Count), s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max}
}

// Describe summarizes every numeric column. Missing values are ignored;
// the standard deviation is the sample (n-1) estimate.
func Describe(t *dataset.Table) []ColumnSummary {
	cols := t.NumericColumns()
	out := make([]ColumnSummary, 0, len(cols))
	for _, name := range cols {
		values, _ := t.Floats(name)
		out = append(out, summarize(name, values))
	}
	return out
}

func summarize(name string, values []float64) ColumnSummary {
	x := dropNaN(values)
	s := ColumnSummary{Column: name, Count: len(x)}
	nan := math.NaN()
	if len(x) == 0 {
		s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	sort.Float64s(x)
	s.Mean = stat.Mean(x, nil)
	s.Std = nan
	if len(x) > 1 {
		s.Std = stat.StdDev(x, nil)
	}
	s.Min = floats.Min(x)
	s.Max = floats.Max(x)
	s.Q25 = quantile(x, 0.25)
	s.Median = quantile(x, 0.5)
	s.Q75 = quantile(x, 0.75)
	return s
}

// quantile interpolates linearly between the closest ranks at position
// (n-1)*p of the sorted sample.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := float64(n-1) * p
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
