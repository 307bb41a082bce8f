package analytics

import (
	"fmt"

	"esgdash/internal/dataset"
)

// TopNResult is the ranked slice of companies for one metric.
type TopNResult struct {
	Metric      string
	Ascending   bool
	N           int
	LabelColumn string
	Labels      []string
	Values      []float64
	Table       *dataset.Table
}

// Title describes the ranking for table and chart headings.
func (r *TopNResult) Title() string {
	return fmt.Sprintf("Top %d Companies based on %s", r.N, r.Metric)
}

// TopN returns the first n rows after a stable sort by metric. Ascending
// lists the lowest scores first (best performers). Missing values sort last
// either way, and the result has min(n, rows) rows.
func TopN(t *dataset.Table, metric string, n int, ascending bool) (*TopNResult, error) {
	if n < 0 {
		return nil, fmt.Errorf("top-n count must not be negative, got %d", n)
	}
	sorted, err := t.SortBy(metric, ascending)
	if err != nil {
		return nil, err
	}
	head := sorted.Head(n)
	values, _ := head.Floats(metric)

	return &TopNResult{
		Metric:      metric,
		Ascending:   ascending,
		N:           n,
		LabelColumn: LabelColumn(head),
		Labels:      labels(head),
		Values:      values,
		Table:       head,
	}, nil
}
