package services

import (
	"context"
	"errors"
	"fmt"

	"esgdash/internal/charts"
)

// ChartService draws the chart images of a built dashboard.
type ChartService struct {
	renderer *charts.Renderer
}

// NewChartService creates a chart service backed by renderer.
func NewChartService(renderer *charts.Renderer) *ChartService {
	return &ChartService{renderer: renderer}
}

// Charts lists the charts a dashboard can draw, in page order.
func (s *ChartService) Charts(d *Dashboard) []string {
	var out []string
	for _, name := range charts.Names {
		if _, ok := chartView(d, name); ok {
			out = append(out, name)
		}
	}
	return out
}

// Render draws one chart. Unknown names fail with ErrUnknownView and charts
// whose view was skipped or has nothing to draw fail with ErrViewSkipped.
func (s *ChartService) Render(ctx context.Context, d *Dashboard, name string, format charts.Format) ([]byte, error) {
	view, known := chartViews[name]
	if !known {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	if _, ok := chartView(d, name); !ok {
		return nil, fmt.Errorf("%w: %s%s", ErrViewSkipped, view, d.reasonFor(view))
	}

	var (
		data []byte
		err  error
	)
	switch name {
	case charts.CorrelationChart:
		data, err = s.renderer.Correlation(ctx, d.Correlation, format)
	case charts.SectorCountsChart:
		data, err = s.renderer.SectorCounts(ctx, d.SectorCounts, format)
	case charts.SectorMetricChart:
		data, err = s.renderer.SectorMetric(ctx, d.Widgets.Metric, d.SectorMeans, format)
	case charts.TopNChart:
		data, err = s.renderer.TopN(ctx, d.TopN, format)
	case charts.ScatterChart:
		data, err = s.renderer.Scatter(ctx, d.Scatter, format)
	}
	if errors.Is(err, charts.ErrNoData) {
		return nil, fmt.Errorf("%w: %s: nothing to draw", ErrViewSkipped, view)
	}
	return data, err
}

var chartViews = map[string]string{
	charts.CorrelationChart:  ViewCorrelation,
	charts.SectorCountsChart: ViewSectorCounts,
	charts.SectorMetricChart: ViewSectorMeans,
	charts.TopNChart:         ViewTopN,
	charts.ScatterChart:      ViewScatter,
}

// chartView reports the view behind a chart and whether it was built.
func chartView(d *Dashboard, name string) (string, bool) {
	if !d.Available() {
		return chartViews[name], false
	}
	switch name {
	case charts.CorrelationChart:
		return ViewCorrelation, d.Correlation != nil
	case charts.SectorCountsChart:
		return ViewSectorCounts, len(d.SectorCounts) > 0
	case charts.SectorMetricChart:
		return ViewSectorMeans, len(d.SectorMeans) > 0
	case charts.TopNChart:
		return ViewTopN, d.TopN != nil && len(d.TopN.Labels) > 0
	case charts.ScatterChart:
		return ViewScatter, d.Scatter != nil && len(d.Scatter.Points) > 0
	}
	return "", false
}
