package dataset

import (
	"sort"
	"strings"
)

// EmptySelectionWarning is reported when a sector filter selects nothing.
const EmptySelectionWarning = "No sectors selected; showing all companies."

// SectorLabels returns the sector of every row with blank or missing values
// coerced to UnknownSector. It returns nil when the table has no Sector column.
func SectorLabels(t *Table) []string {
	c, ok := t.Column(SectorColumn)
	if !ok {
		return nil
	}
	labels := make([]string, t.Len())
	for i := range labels {
		label := strings.TrimSpace(c.String(i))
		if label == "" {
			label = UnknownSector
		}
		labels[i] = label
	}
	return labels
}

// Sectors returns the distinct sector labels in first-seen order.
func Sectors(t *Table) []string {
	var out []string
	seen := make(map[string]bool)
	for _, label := range SectorLabels(t) {
		if !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}
	return out
}

// SortedSectors returns the distinct sector labels alphabetically, as shown
// in the multi-select widget.
func SortedSectors(t *Table) []string {
	out := Sectors(t)
	sort.Strings(out)
	return out
}

// FilterResult is the filtered table plus an optional warning for the page.
type FilterResult struct {
	Table    *Table
	Selected []string
	Warning  string
}

// FilterSectors keeps the rows whose (coerced) sector is in selected, in
// original order. An empty selection returns the full table with a warning.
// A table without a Sector column is returned unchanged.
func FilterSectors(t *Table, selected []string) FilterResult {
	if !t.HasColumn(SectorColumn) {
		return FilterResult{Table: t}
	}
	if len(selected) == 0 {
		return FilterResult{Table: t, Selected: Sectors(t), Warning: EmptySelectionWarning}
	}

	want := make(map[string]bool, len(selected))
	for _, s := range selected {
		want[s] = true
	}

	var rows []int
	for i, label := range SectorLabels(t) {
		if want[label] {
			rows = append(rows, i)
		}
	}
	if len(rows) == t.Len() {
		return FilterResult{Table: t, Selected: selected}
	}
	return FilterResult{Table: t.Take(rows), Selected: selected}
}
