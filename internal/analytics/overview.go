package analytics

import (
	"esgdash/internal/dataset"
)

// Overview describes the loaded table at a glance.
type Overview struct {
	Rows    int
	Columns []string
	Numeric []string
	Scores  []string
	Sectors []string
	Sample  *dataset.Table
}

// Summarize builds the overview with the first sampleRows rows as a sample.
func Summarize(t *dataset.Table, sampleRows int) Overview {
	return Overview{
		Rows:    t.Len(),
		Columns: t.Columns(),
		Numeric: t.NumericColumns(),
		Scores:  ScoreColumns(t),
		Sectors: dataset.SortedSectors(t),
		Sample:  t.Head(sampleRows),
	}
}
