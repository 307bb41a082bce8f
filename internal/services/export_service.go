package services

import (
	"fmt"
	"io"

	"esgdash/internal/exporter"
)

// Exportable views.
var ExportViews = []string{ViewSummary, ViewTopN, ViewSectorMeans}

// ExportService writes dashboard views as downloadable tables.
type ExportService struct {
	exporter *exporter.Exporter
}

// NewExportService creates an export service.
func NewExportService(e *exporter.Exporter) *ExportService {
	return &ExportService{exporter: e}
}

// Sheet returns the table behind an exportable view.
func (s *ExportService) Sheet(d *Dashboard, view string) (exporter.Sheet, error) {
	switch view {
	case ViewSummary:
		if d.Summary != nil {
			return exporter.SummarySheet(d.Summary), nil
		}
	case ViewTopN:
		if d.TopN != nil {
			return exporter.TopNSheet(d.TopN), nil
		}
	case ViewSectorMeans:
		if d.SectorMeans != nil {
			return exporter.SectorMeansSheet(d.Widgets.Metric, d.SectorMeans), nil
		}
	default:
		return exporter.Sheet{}, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
	return exporter.Sheet{}, fmt.Errorf("%w: %s%s", ErrViewSkipped, view, d.reasonFor(view))
}

// Export writes one view to w.
func (s *ExportService) Export(w io.Writer, d *Dashboard, view string, format exporter.Format) error {
	sheet, err := s.Sheet(d, view)
	if err != nil {
		return err
	}
	return s.exporter.Write(w, sheet, format)
}
