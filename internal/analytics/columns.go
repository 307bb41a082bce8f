package analytics

import (
	"errors"
	"strings"

	"esgdash/internal/dataset"
)

// CorrelationColumns is the fixed set of score columns compared in the
// correlation view, in display order.
var CorrelationColumns = []string{
	"Environment Risk Score",
	"Social Risk Score",
	"Governance Risk Score",
	"Total ESG Risk score",
	"Controversy Score",
}

// ErrSkipped marks a view that cannot be built from the available columns.
var ErrSkipped = errors.New("view skipped")

// ScoreColumns returns every column whose name contains "score" in any
// case, in header order. These are the choices for metric selectors.
func ScoreColumns(t *dataset.Table) []string {
	var out []string
	for _, name := range t.Columns() {
		if strings.Contains(strings.ToLower(name), "score") {
			out = append(out, name)
		}
	}
	return out
}

// NumericScoreColumns is ScoreColumns restricted to numeric columns.
func NumericScoreColumns(t *dataset.Table) []string {
	var out []string
	for _, name := range ScoreColumns(t) {
		if t.IsNumeric(name) {
			out = append(out, name)
		}
	}
	return out
}

// LabelColumn returns the column used to label companies: Symbol when
// present, otherwise the first column.
func LabelColumn(t *dataset.Table) string {
	if t.HasColumn(dataset.SymbolColumn) {
		return dataset.SymbolColumn
	}
	if cols := t.Columns(); len(cols) > 0 {
		return cols[0]
	}
	return ""
}

func labels(t *dataset.Table) []string {
	col := LabelColumn(t)
	if col == "" {
		return make([]string, t.Len())
	}
	out, _ := t.Strings(col)
	return out
}
