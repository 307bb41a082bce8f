package exporter

import (
	"fmt"
	"strings"

	"esgdash/internal/analytics"
	"esgdash/internal/dataset"
)

// Sheet is one exported table.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// Filename returns a download name such as "top-n.xlsx".
func (s Sheet) Filename(format Format) string {
	return fmt.Sprintf("%s.%s", s.Name, format)
}

// SummarySheet lays the summary out like a describe table: one row per
// statistic and one column per numeric column.
func SummarySheet(summary []analytics.ColumnSummary) Sheet {
	s := Sheet{Name: "summary", Headers: []string{"statistic"}}
	for _, col := range summary {
		s.Headers = append(s.Headers, col.Column)
	}
	for i, stat := range analytics.StatNames {
		row := []any{stat}
		for _, col := range summary {
			row = append(row, col.Values()[i])
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}

// SectorMeansSheet lists the per-sector mean of metric, highest first.
func SectorMeansSheet(metric string, means []analytics.SectorValue) Sheet {
	s := Sheet{
		Name:    "sector-means",
		Headers: []string{dataset.SectorColumn, "Average " + metric, "Count"},
	}
	for _, v := range means {
		s.Rows = append(s.Rows, []any{v.Sector, v.Value, v.Count})
	}
	return s
}

// TopNSheet exports the ranked rows with every column of the table.
// Numeric columns keep their numeric type.
func TopNSheet(top *analytics.TopNResult) Sheet {
	return tableSheet("top-n", top.Table, true)
}

// TableSheet exports a whole table.
func TableSheet(name string, t *dataset.Table) Sheet {
	return tableSheet(name, t, false)
}

func tableSheet(name string, t *dataset.Table, ranked bool) Sheet {
	s := Sheet{Name: name}
	if ranked {
		s.Headers = append(s.Headers, "Rank")
	}
	s.Headers = append(s.Headers, t.Columns()...)

	numeric := make(map[int][]float64)
	for j := range t.Columns() {
		col := t.ColumnAt(j)
		if col.Kind() == dataset.Numeric {
			numeric[j], _ = t.Floats(col.Name())
		}
	}

	for i := 0; i < t.Len(); i++ {
		var row []any
		if ranked {
			row = append(row, i+1)
		}
		for j, cell := range t.Row(i) {
			if values, ok := numeric[j]; ok {
				row = append(row, values[i])
				continue
			}
			if t.ColumnAt(j).IsMissing(i) {
				row = append(row, nil)
				continue
			}
			row = append(row, cell)
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}

// sheetTitle returns a worksheet name excelize accepts.
func sheetTitle(name string) string {
	title := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, name)
	if len(title) > 31 {
		title = title[:31]
	}
	if title == "" {
		title = "Sheet1"
	}
	return title
}
