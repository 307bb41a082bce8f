package analytics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"esgdash/internal/dataset"
)

// SectorValue is one bar of a per-sector chart.
type SectorValue struct {
	Sector string
	Value  float64
	Count  int
}

type group struct {
	label string
	rows  []int
}

// groupBySector groups row indices by coerced sector label in first-seen order.
func groupBySector(t *dataset.Table) ([]group, error) {
	labels := dataset.SectorLabels(t)
	if labels == nil {
		return nil, fmt.Errorf("%w: column %q is not present", ErrSkipped, dataset.SectorColumn)
	}
	var groups []group
	index := make(map[string]int)
	for row, label := range labels {
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, group{label: label})
		}
		groups[i].rows = append(groups[i].rows, row)
	}
	return groups, nil
}

// SectorMeans averages metric per sector, ignoring missing values, and
// orders sectors by descending mean. Ties keep first-seen sector order;
// sectors with no values (NaN mean) come last. Count is the number of
// non-missing values in the group.
func SectorMeans(t *dataset.Table, metric string) ([]SectorValue, error) {
	values, err := t.Floats(metric)
	if err != nil {
		return nil, err
	}
	groups, err := groupBySector(t)
	if err != nil {
		return nil, err
	}

	out := make([]SectorValue, len(groups))
	for i, g := range groups {
		present := make([]float64, 0, len(g.rows))
		for _, row := range g.rows {
			if v := values[row]; !math.IsNaN(v) {
				present = append(present, v)
			}
		}
		mean := math.NaN()
		if len(present) > 0 {
			mean = stat.Mean(present, nil)
		}
		out[i] = SectorValue{Sector: g.label, Value: mean, Count: len(present)}
	}

	sort.SliceStable(out, func(a, b int) bool {
		va, vb := out[a].Value, out[b].Value
		if math.IsNaN(va) {
			return false
		}
		if math.IsNaN(vb) {
			return true
		}
		return va > vb
	})
	return out, nil
}

// SectorCounts counts companies per sector, most frequent first; ties keep
// first-seen order. Value carries the count as a float for charting.
func SectorCounts(t *dataset.Table) ([]SectorValue, error) {
	groups, err := groupBySector(t)
	if err != nil {
		return nil, err
	}
	out := make([]SectorValue, len(groups))
	for i, g := range groups {
		out[i] = SectorValue{Sector: g.label, Value: float64(len(g.rows)), Count: len(g.rows)}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Count > out[b].Count })
	return out, nil
}
