package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"esgdash/internal/analytics"
	"esgdash/internal/config"
	"esgdash/internal/dataset"
	"esgdash/pkg/contracts/domain"
)

// View names served by the dashboard.
const (
	ViewOverview     = "overview"
	ViewSummary      = "summary"
	ViewSectorCounts = "sector-counts"
	ViewCorrelation  = "correlation"
	ViewSectorMeans  = "sector-means"
	ViewTopN         = "top-n"
	ViewScatter      = "scatter"
)

// Views lists every view in page order.
var Views = []string{ViewOverview, ViewSummary, ViewSectorCounts, ViewCorrelation, ViewSectorMeans, ViewTopN, ViewScatter}

// Page text shared by the HTML and JSON renderings.
const (
	Title                = "ESG & Controversy Score Analysis"
	CorrelationInsight   = "Insight: Social Risk Score often has the highest correlation with the Total ESG Risk Score."
	CorrelationSkipped   = "Not enough relevant columns found for correlation analysis."
	CheckPathHint        = "Please check the file path and try again."
	preferredScatterY    = "Controversy Score"
	noNumericSummary     = "No numeric columns to summarize."
	noSectorColumnNotice = "No Sector column in the dataset; sector views are unavailable."
)

// Variant selects the page layout.
type Variant int

const (
	// Interactive is sector-filterable and includes the scatter explorer.
	Interactive Variant = iota
	// Static renders the unfiltered dashboard without the scatter explorer.
	Static
)

// Query is the widget state of one interaction.
type Query struct {
	Sectors   []string
	Filtered  bool
	Metric    string
	SortBy    string
	TopN      int
	Ascending bool
	X         string
	Y         string
	Color     string
}

// Dashboard is the outcome of one pipeline run. Views that were skipped are
// nil and explained in Messages.
type Dashboard struct {
	Variant      Variant
	Load         *dataset.LoadResult
	Table        *dataset.Table
	Widgets      domain.Widgets
	Messages     []domain.Message
	Overview     *analytics.Overview
	Summary      []analytics.ColumnSummary
	SectorCounts []analytics.SectorValue
	Correlation  *analytics.CorrelationMatrix
	SectorMeans  []analytics.SectorValue
	TopN         *analytics.TopNResult
	Scatter      *analytics.ScatterResult
	GeneratedAt  time.Time
}

// Available reports whether a table was loaded.
func (d *Dashboard) Available() bool {
	return d != nil && d.Table != nil
}

// AddMessage appends a notice to the page.
func (d *Dashboard) AddMessage(level domain.MessageLevel, view, text string) {
	d.Messages = append(d.Messages, domain.Message{Level: level, View: view, Text: text})
}

// DatasetSource provides the memoized company table.
type DatasetSource interface {
	Load(ctx context.Context) (*dataset.LoadResult, error)
	Reset()
	Candidates() []string
}

// ViewRecorder receives view outcomes, typically for metrics.
type ViewRecorder interface {
	RecordView(ctx context.Context, view string, skipped bool)
}

// DashboardProvider is the service surface used by HTTP handlers.
type DashboardProvider interface {
	Build(ctx context.Context, q Query, variant Variant) (*Dashboard, error)
	Dataset(ctx context.Context) (*dataset.LoadResult, error)
	Reload(ctx context.Context) (*dataset.LoadResult, error)
	Candidates() []string
}

// DashboardService runs the dashboard pipeline.
type DashboardService struct {
	source      DatasetSource
	logger      *slog.Logger
	recorder    ViewRecorder
	defaultTopN int
	now         func() time.Time
}

// DashboardOption configures a DashboardService.
type DashboardOption func(*DashboardService)

// WithViewRecorder sets the recorder for view outcomes.
func WithViewRecorder(r ViewRecorder) DashboardOption {
	return func(s *DashboardService) { s.recorder = r }
}

// WithDefaultTopN overrides the top-N slider default.
func WithDefaultTopN(n int) DashboardOption {
	return func(s *DashboardService) {
		if n >= config.MinTopN && n <= config.MaxTopN {
			s.defaultTopN = n
		}
	}
}

// NewDashboardService creates a dashboard service over source.
func NewDashboardService(source DatasetSource, logger *slog.Logger, opts ...DashboardOption) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &DashboardService{
		source:      source,
		logger:      logger.With(slog.String("service", "dashboard")),
		defaultTopN: config.DefaultTopN,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Candidates returns the dataset paths tried in order.
func (s *DashboardService) Candidates() []string {
	return s.source.Candidates()
}

// Dataset returns the memoized load result.
func (s *DashboardService) Dataset(ctx context.Context) (*dataset.LoadResult, error) {
	return s.source.Load(ctx)
}

// Reload drops the memoized table and loads it again.
func (s *DashboardService) Reload(ctx context.Context) (*dataset.LoadResult, error) {
	s.logger.InfoContext(ctx, "reloading dataset")
	s.source.Reset()
	return s.source.Load(ctx)
}

// Build runs the pipeline for one widget state. When no dataset is available
// it returns ErrNoDataset together with a dashboard carrying the loader
// messages and no views.
func (s *DashboardService) Build(ctx context.Context, q Query, variant Variant) (*Dashboard, error) {
	d := &Dashboard{Variant: variant, GeneratedAt: s.now()}

	res, err := s.source.Load(ctx)
	if res != nil {
		d.Load = res
		// Every candidate that failed is reported, including the ones that
		// were simply absent.
		for _, diag := range res.Diagnostics {
			d.AddMessage(domain.MessageLevel(diag.Severity), "", diag.Message)
		}
	}
	if err != nil {
		if errors.Is(err, ErrNoDataset) {
			d.AddMessage(domain.MessageWarning, "", CheckPathHint)
			s.logger.WarnContext(ctx, "dashboard built without data")
			return d, ErrNoDataset
		}
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	table := res.Table
	if variant == Static {
		q = Query{Metric: q.Metric, SortBy: q.SortBy, TopN: q.TopN, Ascending: q.Ascending}
	}
	s.resolveWidgets(d, table, q)

	if variant == Interactive {
		filtered := dataset.FilterSectors(table, d.Widgets.SelectedSectors)
		if filtered.Warning != "" {
			d.AddMessage(domain.MessageWarning, "", filtered.Warning)
		}
		if filtered.Selected != nil {
			d.Widgets.SelectedSectors = filtered.Selected
		}
		table = filtered.Table
	}
	d.Table = table

	s.deriveViews(ctx, d)

	s.logger.DebugContext(ctx, "dashboard built",
		slog.Int("rows", table.Len()),
		slog.Int("messages", len(d.Messages)))
	return d, nil
}

// resolveWidgets checks every widget against the table and substitutes
// defaults for values that do not fit, reporting each substitution.
func (s *DashboardService) resolveWidgets(d *Dashboard, t *dataset.Table, q Query) {
	scores := analytics.ScoreColumns(t)
	numeric := t.NumericColumns()
	numericScores := analytics.NumericScoreColumns(t)

	w := domain.Widgets{
		Sectors:        dataset.SortedSectors(t),
		ScoreColumns:   scores,
		NumericColumns: numeric,
		TopN:           s.defaultTopN,
		Ascending:      q.Ascending,
	}
	if w.Sectors == nil {
		d.AddMessage(domain.MessageInfo, "", noSectorColumnNotice)
	}

	w.Metric = s.pickColumn(d, "metric", q.Metric, scores, first(scores))
	w.SortBy = s.pickColumn(d, "sort_by", q.SortBy, scores, first(scores))

	switch {
	case q.TopN == 0:
	case q.TopN < config.MinTopN || q.TopN > config.MaxTopN:
		d.AddMessage(domain.MessageWarning, "top_n",
			fmt.Sprintf("top_n must be between %d and %d; using %d", config.MinTopN, config.MaxTopN, w.TopN))
	default:
		w.TopN = q.TopN
	}

	if d.Variant == Interactive {
		w.SelectedSectors = s.pickSectors(d, w.Sectors, q)

		defX := first(numericScores)
		w.X = s.pickColumn(d, "x", q.X, numeric, defX)
		w.Y = s.pickColumn(d, "y", q.Y, numeric, defaultY(numericScores, w.X))

		colors := numeric
		defColor := ""
		if t.HasColumn(dataset.SectorColumn) {
			colors = append([]string{dataset.SectorColumn}, numeric...)
			defColor = dataset.SectorColumn
		}
		w.Color = s.pickColumn(d, "color", q.Color, colors, defColor)
	}

	d.Widgets = w
}

func (s *DashboardService) pickColumn(d *Dashboard, widget, requested string, allowed []string, fallback string) string {
	if requested == "" {
		return fallback
	}
	for _, name := range allowed {
		if name == requested {
			return requested
		}
	}
	d.AddMessage(domain.MessageWarning, widget,
		fmt.Sprintf("%s: %q is not an available column; using %q", widget, requested, fallback))
	return fallback
}

func (s *DashboardService) pickSectors(d *Dashboard, all []string, q Query) []string {
	if all == nil {
		return nil
	}
	if len(q.Sectors) == 0 {
		if q.Filtered {
			return []string{}
		}
		return all
	}
	known := make(map[string]bool, len(all))
	for _, sector := range all {
		known[sector] = true
	}
	selected := make([]string, 0, len(q.Sectors))
	for _, sector := range q.Sectors {
		if !known[sector] {
			d.AddMessage(domain.MessageWarning, "sector", fmt.Sprintf("sector: %q is not in the dataset; ignored", sector))
			continue
		}
		selected = append(selected, sector)
	}
	return selected
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// defaultY prefers the controversy score, then the next score after x. It
// is empty when x is the only numeric score.
func defaultY(numericScores []string, x string) string {
	for _, name := range numericScores {
		if name == preferredScatterY && name != x {
			return name
		}
	}
	for _, name := range numericScores {
		if name != x {
			return name
		}
	}
	return ""
}

// deriveViews computes every view for the filtered table.
func (s *DashboardService) deriveViews(ctx context.Context, d *Dashboard) {
	t := d.Table
	w := d.Widgets

	s.view(ctx, d, ViewOverview, func() error {
		ov := analytics.Summarize(t, config.SampleRows)
		d.Overview = &ov
		return nil
	})

	s.view(ctx, d, ViewSummary, func() error {
		summary := analytics.Describe(t)
		if len(summary) == 0 {
			return fmt.Errorf("%w: %s", analytics.ErrSkipped, noNumericSummary)
		}
		d.Summary = summary
		return nil
	})

	s.view(ctx, d, ViewSectorCounts, func() error {
		counts, err := analytics.SectorCounts(t)
		d.SectorCounts = counts
		return err
	})

	s.view(ctx, d, ViewCorrelation, func() error {
		m, err := analytics.Correlation(t)
		if err != nil {
			return err
		}
		d.Correlation = m
		d.AddMessage(domain.MessageInfo, ViewCorrelation, CorrelationInsight)
		return nil
	})

	s.view(ctx, d, ViewSectorMeans, func() error {
		if w.Metric == "" {
			return fmt.Errorf("%w: no score columns in the dataset", analytics.ErrSkipped)
		}
		means, err := analytics.SectorMeans(t, w.Metric)
		d.SectorMeans = means
		return err
	})

	s.view(ctx, d, ViewTopN, func() error {
		if w.SortBy == "" {
			return fmt.Errorf("%w: no score columns in the dataset", analytics.ErrSkipped)
		}
		top, err := analytics.TopN(t, w.SortBy, w.TopN, w.Ascending)
		d.TopN = top
		return err
	})

	if d.Variant != Interactive {
		return
	}
	s.view(ctx, d, ViewScatter, func() error {
		if w.X == "" || w.Y == "" {
			return fmt.Errorf("%w: the scatter explorer needs two numeric columns", analytics.ErrSkipped)
		}
		sc, err := analytics.Scatter(t, w.X, w.Y, w.Color)
		d.Scatter = sc
		return err
	})
}

// view runs one derivation. Failures skip the view with a message and never
// abort the page.
func (s *DashboardService) view(ctx context.Context, d *Dashboard, name string, derive func() error) {
	err := derive()
	if s.recorder != nil {
		s.recorder.RecordView(ctx, name, err != nil)
	}
	if err == nil {
		return
	}

	text := skipReason(name, err)
	level := domain.MessageSkipped
	switch {
	case errors.Is(err, analytics.ErrSkipped),
		errors.Is(err, ErrUnknownColumn),
		errors.Is(err, ErrNotNumeric):
		s.logger.DebugContext(ctx, "view skipped", slog.String("view", name), slog.String("reason", err.Error()))
	default:
		level = domain.MessageError
		s.logger.ErrorContext(ctx, "view failed", slog.String("view", name), slog.String("error", err.Error()))
	}
	d.AddMessage(level, name, text)
}

func skipReason(view string, err error) string {
	if view == ViewCorrelation && errors.Is(err, analytics.ErrSkipped) {
		return CorrelationSkipped
	}
	return err.Error()
}
