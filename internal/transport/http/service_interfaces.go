package http

import (
	"context"
	"io"

	"esgdash/internal/charts"
	"esgdash/internal/exporter"
	"esgdash/internal/services"
)

// ChartProvider draws chart images of a built dashboard.
type ChartProvider interface {
	Render(ctx context.Context, d *services.Dashboard, name string, format charts.Format) ([]byte, error)
}

// ExportProvider writes dashboard views as tables.
type ExportProvider interface {
	Export(w io.Writer, d *services.Dashboard, view string, format exporter.Format) error
}
