// Package domain contains the JSON contracts served by the dashboard API.
package domain

import "time"

// MessageLevel classifies a message shown above the dashboard views.
type MessageLevel string

const (
	MessageError   MessageLevel = "error"
	MessageWarning MessageLevel = "warning"
	MessageInfo    MessageLevel = "info"
	MessageSkipped MessageLevel = "skipped"
)

// Message is a user-facing notice produced while building the dashboard.
type Message struct {
	Level MessageLevel `json:"level"`
	View  string       `json:"view,omitempty"`
	Text  string       `json:"text"`
}

// Widgets echoes the resolved widget state and the choices offered.
type Widgets struct {
	Sectors         []string `json:"sectors"`
	SelectedSectors []string `json:"selected_sectors"`
	ScoreColumns    []string `json:"score_columns"`
	NumericColumns  []string `json:"numeric_columns"`
	Metric          string   `json:"metric,omitempty"`
	SortBy          string   `json:"sort_by,omitempty"`
	TopN            int      `json:"top_n"`
	Ascending       bool     `json:"ascending"`
	X               string   `json:"x,omitempty"`
	Y               string   `json:"y,omitempty"`
	Color           string   `json:"color,omitempty"`
}

// Dashboard is the full set of views for one widget state. Views that
// could not be built are nil and explained in Messages.
type Dashboard struct {
	Title        string           `json:"title"`
	Dataset      *DatasetMeta     `json:"dataset,omitempty"`
	Widgets      Widgets          `json:"widgets"`
	Messages     []Message        `json:"messages"`
	Overview     *Overview        `json:"overview,omitempty"`
	Summary      []ColumnSummary  `json:"summary,omitempty"`
	SectorCounts []SectorValue    `json:"sector_counts,omitempty"`
	Correlation  *Correlation     `json:"correlation,omitempty"`
	SectorMeans  *SectorBreakdown `json:"sector_means,omitempty"`
	TopN         *TopN            `json:"top_n,omitempty"`
	Scatter      *Scatter         `json:"scatter,omitempty"`
	GeneratedAt  time.Time        `json:"generated_at"`
}

// Diagnostic is a loader notice about one candidate path.
type Diagnostic struct {
	Severity string `json:"severity"`
	Path     string `json:"path,omitempty"`
	Message  string `json:"message"`
}

// DatasetMeta describes the loaded company table.
type DatasetMeta struct {
	Loaded      bool         `json:"loaded"`
	Source      string       `json:"source,omitempty"`
	Rows        int          `json:"rows"`
	Columns     []ColumnMeta `json:"columns"`
	Candidates  []string     `json:"candidates"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	LoadedAt    time.Time    `json:"loaded_at"`
}

// ColumnMeta names a column and its inferred kind.
type ColumnMeta struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}
