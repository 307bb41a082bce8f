// Package api contains API contract definitions for the ESG risk dashboard.
// Version v1 represents the current stable API version.
package api

// DashboardQuery carries the dashboard widgets as query parameters. Column
// choices are checked against the loaded table by the dashboard service.
type DashboardQuery struct {
	Sectors   []string `query:"sector" validate:"omitempty,dive,max=100"`
	Filtered  bool     `query:"filter"`
	Metric    string   `query:"metric" validate:"omitempty,max=200"`
	SortBy    string   `query:"sort_by" validate:"omitempty,max=200"`
	TopN      int      `query:"top_n" validate:"omitempty,min=5,max=50"`
	Ascending bool     `query:"ascending"`
	X         string   `query:"x" validate:"omitempty,max=200"`
	Y         string   `query:"y" validate:"omitempty,max=200"`
	Color     string   `query:"color" validate:"omitempty,max=200"`
}

// ChartRequest selects a chart image.
type ChartRequest struct {
	Name   string `json:"name" validate:"required,oneof=correlation sectors sector-metric top-n scatter"`
	Format string `json:"format" validate:"required,oneof=png svg"`
}

// ExportRequest selects a downloadable view.
type ExportRequest struct {
	View   string `json:"view" validate:"required,oneof=summary top-n sector-means"`
	Format string `json:"format" validate:"required,oneof=csv xlsx"`
}
