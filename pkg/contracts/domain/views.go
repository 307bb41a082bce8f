package domain

// Overview is the dataset section: size, columns and the first rows.
type Overview struct {
	Rows    int        `json:"rows"`
	Columns []string   `json:"columns"`
	Sample  [][]string `json:"sample"`
}

// ColumnSummary is one column of the statistical summary.
type ColumnSummary struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	Q25    *float64 `json:"q25"`
	Median *float64 `json:"median"`
	Q75    *float64 `json:"q75"`
	Max    *float64 `json:"max"`
}

// Correlation is a square Pearson matrix in column order.
type Correlation struct {
	Columns []string     `json:"columns"`
	Values  [][]*float64 `json:"values"`
	Insight string       `json:"insight,omitempty"`
}

// SectorValue is one bar of a sector chart.
type SectorValue struct {
	Sector string   `json:"sector"`
	Value  *float64 `json:"value"`
	Count  int      `json:"count"`
}

// SectorBreakdown is the per-sector mean of one metric, highest first.
type SectorBreakdown struct {
	Metric  string        `json:"metric"`
	Title   string        `json:"title"`
	Sectors []SectorValue `json:"sectors"`
}

// RankedCompany is one row of the top-N explorer.
type RankedCompany struct {
	Rank   int      `json:"rank"`
	Label  string   `json:"label"`
	Value  *float64 `json:"value"`
	Fields []string `json:"fields"`
}

// TopN is the ranked company table for one metric.
type TopN struct {
	Title       string          `json:"title"`
	Metric      string          `json:"metric"`
	Ascending   bool            `json:"ascending"`
	N           int             `json:"n"`
	LabelColumn string          `json:"label_column"`
	Columns     []string        `json:"columns"`
	Companies   []RankedCompany `json:"companies"`
}

// ScatterPoint is one company in the scatter explorer.
type ScatterPoint struct {
	Label string   `json:"label"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Group string   `json:"group,omitempty"`
	Color *float64 `json:"color,omitempty"`
}

// Scatter is the scatter explorer view.
type Scatter struct {
	X       string         `json:"x"`
	Y       string         `json:"y"`
	Color   string         `json:"color,omitempty"`
	Grouped bool           `json:"grouped"`
	Groups  []string       `json:"groups,omitempty"`
	Points  []ScatterPoint `json:"points"`
	Dropped int            `json:"dropped"`
}
