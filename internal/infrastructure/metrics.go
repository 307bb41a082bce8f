package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DashboardMetrics are the instruments exported on /metrics. A nil
// *DashboardMetrics records nothing.
type DashboardMetrics struct {
	httpRequests  metric.Int64Counter
	httpDuration  metric.Float64Histogram
	httpInFlight  metric.Int64UpDownCounter
	datasetLoads  metric.Int64Counter
	datasetRows   metric.Int64Gauge
	viewsComputed metric.Int64Counter
	viewsSkipped  metric.Int64Counter
	chartRenders  metric.Int64Counter
	chartDuration metric.Float64Histogram
}

// CreateDashboardMetrics registers the dashboard instruments on meter, or
// on the global meter when meter is nil.
func CreateDashboardMetrics(meter metric.Meter) (*DashboardMetrics, error) {
	if meter == nil {
		meter = otel.Meter(InstrumentationName)
	}

	var (
		m    DashboardMetrics
		errs []error
	)
	counter := func(dst *metric.Int64Counter, name, desc string) {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		*dst = c
		errs = append(errs, err)
	}
	seconds := func(dst *metric.Float64Histogram, name, desc string) {
		h, err := meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("s"))
		*dst = h
		errs = append(errs, err)
	}

	counter(&m.httpRequests, "http_requests_total", "HTTP requests by route and status")
	seconds(&m.httpDuration, "http_request_duration_seconds", "HTTP request latency")
	counter(&m.datasetLoads, "dataset_loads_total", "Dataset load attempts by outcome")
	counter(&m.viewsComputed, "view_computations_total", "Derived views computed")
	counter(&m.viewsSkipped, "view_skipped_total", "Derived views skipped for missing inputs")
	counter(&m.chartRenders, "chart_renders_total", "Charts rendered by chart, format and status")
	seconds(&m.chartDuration, "chart_render_duration_seconds", "Chart render latency")

	var err error
	m.httpInFlight, err = meter.Int64UpDownCounter("http_active_requests", metric.WithDescription("HTTP requests in flight"))
	errs = append(errs, err)
	m.datasetRows, err = meter.Int64Gauge("dataset_rows", metric.WithDescription("Rows in the loaded company table"))
	errs = append(errs, err)

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// RequestStarted marks a request in flight. Call the returned func with
// the routed pattern and status when it completes.
func (m *DashboardMetrics) RequestStarted(ctx context.Context, method string) func(route string, status int) {
	if m == nil {
		return func(string, int) {}
	}
	start := time.Now()
	m.httpInFlight.Add(ctx, 1)
	return func(route string, status int) {
		m.httpInFlight.Add(ctx, -1)
		attrs := metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("route", route),
			attribute.Int("status_code", status),
		)
		m.httpRequests.Add(ctx, 1, attrs)
		m.httpDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}

// RecordDatasetLoad records a loader outcome and the resulting row count.
func (m *DashboardMetrics) RecordDatasetLoad(ctx context.Context, source string, rows int, ok bool) {
	if m == nil {
		return
	}
	outcome := "loaded"
	if !ok {
		outcome = "no_data"
	}
	m.datasetLoads.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("outcome", outcome),
	))
	m.datasetRows.Record(ctx, int64(rows))
}

// RecordView counts a derived view as computed or skipped.
func (m *DashboardMetrics) RecordView(ctx context.Context, view string, skipped bool) {
	if m == nil {
		return
	}
	counter := m.viewsComputed
	if skipped {
		counter = m.viewsSkipped
	}
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("view", view)))
}

// RecordChart records a chart render and how long it took.
func (m *DashboardMetrics) RecordChart(ctx context.Context, chart, format string, took time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("chart", chart),
		attribute.String("format", format),
		attribute.String("status", status),
	)
	m.chartRenders.Add(ctx, 1, attrs)
	m.chartDuration.Record(ctx, took.Seconds(), attrs)
}
