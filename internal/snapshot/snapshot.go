package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"esgdash/internal/charts"
	"esgdash/internal/exporter"
	"esgdash/internal/page"
	"esgdash/internal/services"
	"esgdash/pkg/contracts/domain"
)

const (
	indexFile = "index.html"
	chartsDir = "charts"
	dataDir   = "data"
)

// Result describes a written snapshot.
type Result struct {
	Dir      string
	Files    []string
	Messages []domain.Message
}

// Writer renders static snapshots.
type Writer struct {
	dashboards services.DashboardProvider
	charts     *services.ChartService
	exports    *services.ExportService
	logger     *slog.Logger
	format     charts.Format
}

// Option configures a Writer.
type Option func(*Writer)

// WithChartFormat selects PNG or SVG chart files.
func WithChartFormat(f charts.Format) Option {
	return func(w *Writer) {
		w.format = f
	}
}

// NewWriter creates a snapshot writer.
func NewWriter(dashboards services.DashboardProvider, chartService *services.ChartService, exports *services.ExportService, logger *slog.Logger, opts ...Option) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Writer{
		dashboards: dashboards,
		charts:     chartService,
		exports:    exports,
		logger:     logger.With(slog.String("component", "snapshot")),
		format:     charts.PNG,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders the static dashboard into dir. When no dataset can be loaded
// the page is still written with its messages and the load error is returned.
func (w *Writer) Write(ctx context.Context, dir string) (*Result, error) {
	if dir == "" {
		return nil, errors.New("snapshot directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	d, buildErr := w.dashboards.Build(ctx, services.Query{}, services.Static)
	if buildErr != nil && !errors.Is(buildErr, services.ErrNoDataset) {
		return nil, fmt.Errorf("failed to build dashboard: %w", buildErr)
	}
	if d == nil {
		d = &services.Dashboard{Variant: services.Static}
	}

	res := &Result{Dir: dir}

	drawn := make(map[string]bool)
	for _, name := range w.charts.Charts(d) {
		data, err := w.charts.Render(ctx, d, name, w.format)
		if errors.Is(err, services.ErrViewSkipped) {
			w.logger.InfoContext(ctx, "chart skipped", slog.String("chart", name), slog.String("reason", err.Error()))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to render chart %s: %w", name, err)
		}
		rel := filepath.Join(chartsDir, name+"."+string(w.format))
		if err := w.writeFile(dir, rel, data); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, rel)
		drawn[name] = true
	}

	if d.Available() {
		for _, view := range services.ExportViews {
			var buf bytes.Buffer
			err := w.exports.Export(&buf, d, view, exporter.CSV)
			if errors.Is(err, services.ErrViewSkipped) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("failed to export %s: %w", view, err)
			}
			rel := filepath.Join(dataDir, view+"."+string(exporter.CSV))
			if err := w.writeFile(dir, rel, buf.Bytes()); err != nil {
				return nil, err
			}
			res.Files = append(res.Files, rel)
		}
	}

	model := page.New(d.DTO(w.dashboards.Candidates()), true, func(name string) string {
		return chartsDir + "/" + name + "." + string(w.format)
	})
	for name := range model.Charts {
		if !drawn[name] {
			delete(model.Charts, name)
		}
	}

	var buf bytes.Buffer
	if err := page.Render(&buf, model); err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	if err := w.writeFile(dir, indexFile, buf.Bytes()); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, indexFile)
	res.Messages = d.Messages

	w.logger.InfoContext(ctx, "snapshot written",
		slog.String("dir", dir),
		slog.Int("files", len(res.Files)),
		slog.Int("messages", len(res.Messages)))

	return res, buildErr
}

func (w *Writer) writeFile(dir, rel string, data []byte) error {
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	w.logger.Debug("Writing file", slog.String("path", path), slog.Int("size_bytes", len(data)))
	return nil
}
