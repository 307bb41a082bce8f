package charts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Format is an output image encoding.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

var (
	// ErrUnsupportedFormat is returned for encodings other than png and svg.
	ErrUnsupportedFormat = errors.New("unsupported chart format")
	// ErrNoData is returned when a view has nothing to draw.
	ErrNoData = errors.New("no data to chart")
)

// ParseFormat accepts "png" or "svg" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case PNG, SVG:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Chart names used in routes, file names and metrics.
const (
	CorrelationChart  = "correlation"
	SectorCountsChart = "sectors"
	SectorMetricChart = "sector-metric"
	TopNChart         = "top-n"
	ScatterChart      = "scatter"
)

// Names lists every chart the renderer can draw.
var Names = []string{CorrelationChart, SectorCountsChart, SectorMetricChart, TopNChart, ScatterChart}

// RenderRecorder receives render outcomes, typically for metrics.
type RenderRecorder interface {
	RecordChart(ctx context.Context, chart, format string, duration time.Duration, err error)
}

// Options size the rendered images. Width and Height are in inches.
type Options struct {
	Width  float64
	Height float64
}

// DefaultOptions matches the 10x6 figure used by the dashboard.
func DefaultOptions() Options {
	return Options{Width: 10, Height: 6}
}

// Renderer draws charts at a fixed size.
type Renderer struct {
	opts     Options
	logger   *slog.Logger
	recorder RenderRecorder
}

// NewRenderer creates a renderer. recorder may be nil.
func NewRenderer(opts Options, logger *slog.Logger, recorder RenderRecorder) *Renderer {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultOptions()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		opts:     opts,
		logger:   logger.With(slog.String("component", "charts")),
		recorder: recorder,
	}
}

// encode writes p in the requested format and records the outcome.
func (r *Renderer) encode(ctx context.Context, name string, format Format, build func() (*plot.Plot, error)) ([]byte, error) {
	start := time.Now()
	data, err := r.draw(ctx, format, build)
	duration := time.Since(start)

	if r.recorder != nil {
		r.recorder.RecordChart(ctx, name, string(format), duration, err)
	}
	if err != nil {
		r.logger.WarnContext(ctx, "chart render failed",
			slog.String("chart", name),
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("render %s chart: %w", name, err)
	}
	r.logger.DebugContext(ctx, "chart rendered",
		slog.String("chart", name),
		slog.String("format", string(format)),
		slog.Int("bytes", len(data)),
		slog.Duration("duration", duration))
	return data, nil
}

// draw builds and encodes the plot. The context is checked between the two
// steps since rasterizing is the slow part.
func (r *Renderer) draw(ctx context.Context, format Format, build func() (*plot.Plot, error)) ([]byte, error) {
	if format != PNG && format != SVG {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	p, err := build()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wt, err := p.WriterTo(vg.Length(r.opts.Width)*vg.Inch, vg.Length(r.opts.Height)*vg.Inch, string(format))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
