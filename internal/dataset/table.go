package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Well-known column names and the label used for missing sectors.
const (
	SectorColumn  = "Sector"
	SymbolColumn  = "Symbol"
	UnknownSector = "Unknown"
)

// Kind classifies a column.
type Kind int

const (
	// Text columns hold strings; empty cells are missing.
	Text Kind = iota
	// Numeric columns hold float64 values; missing cells are NaN.
	Numeric
)

func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "text"
}

// Column is one named column of a Table.
type Column struct {
	name    string
	kind    Kind
	nums    []float64
	text    []string
	missing []bool
}

// NumericColumn builds a numeric column. NaN marks a missing value.
func NumericColumn(name string, values []float64) Column {
	return Column{name: name, kind: Numeric, nums: append([]float64(nil), values...)}
}

// TextColumn builds a text column. Empty strings are treated as missing.
func TextColumn(name string, values []string) Column {
	missing := make([]bool, len(values))
	for i, v := range values {
		missing[i] = v == ""
	}
	return Column{name: name, kind: Text, text: append([]string(nil), values...), missing: missing}
}

// Name returns the column header.
func (c Column) Name() string { return c.name }

// Kind returns whether the column is numeric or text.
func (c Column) Kind() Kind { return c.kind }

// Len returns the number of cells.
func (c Column) Len() int {
	if c.kind == Numeric {
		return len(c.nums)
	}
	return len(c.text)
}

// IsMissing reports whether the cell at row i is missing.
func (c Column) IsMissing(i int) bool {
	if c.kind == Numeric {
		return math.IsNaN(c.nums[i])
	}
	return c.missing[i]
}

// String renders the cell at row i; missing cells render as "".
func (c Column) String(i int) string {
	if c.IsMissing(i) {
		return ""
	}
	if c.kind == Numeric {
		return strconv.FormatFloat(c.nums[i], 'f', -1, 64)
	}
	return c.text[i]
}

func (c Column) take(rows []int) Column {
	out := Column{name: c.name, kind: c.kind}
	if c.kind == Numeric {
		out.nums = make([]float64, len(rows))
		for i, r := range rows {
			out.nums[i] = c.nums[r]
		}
		return out
	}
	out.text = make([]string, len(rows))
	out.missing = make([]bool, len(rows))
	for i, r := range rows {
		out.text[i] = c.text[r]
		out.missing[i] = c.missing[r]
	}
	return out
}

// Table is the immutable in-memory company table.
type Table struct {
	cols  []Column
	index map[string]int
	rows  int
}

// NewTable assembles a table from columns of equal length. Column names must be unique.
func NewTable(cols ...Column) (*Table, error) {
	t := &Table{cols: make([]Column, 0, len(cols)), index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := t.index[c.name]; dup {
			return nil, fmt.Errorf("duplicate column %q", c.name)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.name, c.Len(), t.rows)
		}
		t.index[c.name] = i
		t.cols = append(t.cols, c)
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Columns returns the column names in header order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.name
	}
	return names
}

// HasColumn reports whether the table has a column with this exact name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.cols[i], true
}

// ColumnAt returns the i-th column in header order.
func (t *Table) ColumnAt(i int) Column { return t.cols[i] }

// IsNumeric reports whether the named column exists and is numeric.
func (t *Table) IsNumeric(name string) bool {
	c, ok := t.Column(name)
	return ok && c.kind == Numeric
}

// NumericColumns returns the names of numeric columns in header order.
func (t *Table) NumericColumns() []string {
	var names []string
	for _, c := range t.cols {
		if c.kind == Numeric {
			names = append(names, c.name)
		}
	}
	return names
}

// Floats returns a copy of a numeric column's values.
func (t *Table) Floats(name string) ([]float64, error) {
	c, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	if c.kind != Numeric {
		return nil, fmt.Errorf("%w: %q", ErrNotNumeric, name)
	}
	return append([]float64(nil), c.nums...), nil
}

// Strings returns the column rendered as strings; missing cells are "".
func (t *Table) Strings(name string) ([]string, error) {
	c, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	out := make([]string, c.Len())
	for i := range out {
		out[i] = c.String(i)
	}
	return out, nil
}

// Row returns row i rendered as strings in header order.
func (t *Table) Row(i int) []string {
	row := make([]string, len(t.cols))
	for j, c := range t.cols {
		row[j] = c.String(i)
	}
	return row
}

// Take returns a new table holding the given rows in the given order.
func (t *Table) Take(rows []int) *Table {
	out := &Table{cols: make([]Column, len(t.cols)), index: t.index, rows: len(rows)}
	for i, c := range t.cols {
		out.cols[i] = c.take(rows)
	}
	return out
}

// Head returns the first n rows (all rows if n exceeds the length).
func (t *Table) Head(n int) *Table {
	if n > t.rows {
		n = t.rows
	}
	if n < 0 {
		n = 0
	}
	return t.Take(seq(n))
}

// SortBy returns a new table stably sorted by a numeric column. Missing
// values go last regardless of direction; ties keep the existing row order.
func (t *Table) SortBy(name string, ascending bool) (*Table, error) {
	values, err := t.Floats(name)
	if err != nil {
		return nil, err
	}
	return t.Take(SortedOrder(values, ascending)), nil
}

// SortedOrder returns row indices ordering values stably, NaN last.
func SortedOrder(values []float64, ascending bool) []int {
	order := seq(len(values))
	sort.SliceStable(order, func(a, b int) bool {
		va, vb := values[order[a]], values[order[b]]
		switch {
		case math.IsNaN(va):
			return false
		case math.IsNaN(vb):
			return true
		case ascending:
			return va < vb
		default:
			return va > vb
		}
	})
	return order
}

func seq(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}
