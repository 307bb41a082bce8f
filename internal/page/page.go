// Package page renders the dashboard as a single HTML document. The same
// template serves the interactive server page and the static snapshot; only
// the chart links and the widget form differ.
package page

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"esgdash/internal/charts"
	"esgdash/internal/config"
	"esgdash/internal/services"
	"esgdash/pkg/contracts/domain"
)

//go:embed templates/*.html
var templateFiles embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"num":      formatNumber,
	"selected": contains,
	"add":      func(a, b int) int { return a + b },
	"join":     strings.Join,
}).ParseFS(templateFiles, "templates/*.html"))

// ChartLinker returns the image URL for a chart name.
type ChartLinker func(name string) string

// Model is the data behind the page template.
type Model struct {
	Title     string
	Static    bool
	Dashboard domain.Dashboard
	Charts    map[string]string
	Scatter   *ScatterPlot
	MinTopN   int
	MaxTopN   int
}

// New builds the page model. Charts are linked only for views that were
// built and have something to draw.
func New(d domain.Dashboard, static bool, link ChartLinker) Model {
	m := Model{
		Title:     d.Title,
		Static:    static,
		Dashboard: d,
		Charts:    make(map[string]string),
		MinTopN:   config.MinTopN,
		MaxTopN:   config.MaxTopN,
	}
	for _, name := range AvailableCharts(d) {
		m.Charts[name] = link(name)
	}
	if d.Scatter != nil {
		m.Scatter = NewScatterPlot(d.Scatter)
	}
	return m
}

// AvailableCharts lists the charts that have data in d, in page order.
func AvailableCharts(d domain.Dashboard) []string {
	var out []string
	if len(d.SectorCounts) > 0 {
		out = append(out, charts.SectorCountsChart)
	}
	if d.Correlation != nil {
		out = append(out, charts.CorrelationChart)
	}
	if d.SectorMeans != nil && anyValue(d.SectorMeans.Sectors) {
		out = append(out, charts.SectorMetricChart)
	}
	if d.TopN != nil && len(d.TopN.Companies) > 0 {
		out = append(out, charts.TopNChart)
	}
	if d.Scatter != nil && len(d.Scatter.Points) > 0 {
		out = append(out, charts.ScatterChart)
	}
	return out
}

func anyValue(values []domain.SectorValue) bool {
	for _, v := range values {
		if v.Value != nil {
			return true
		}
	}
	return false
}

// Available reports whether the dataset was loaded.
func (m Model) Available() bool {
	return m.Dashboard.Dataset != nil && m.Dashboard.Dataset.Loaded
}

// Notices returns page-level messages, those not tied to a view.
func (m Model) Notices() []domain.Message {
	var out []domain.Message
	for _, msg := range m.Dashboard.Messages {
		if !isView(msg.View) {
			out = append(out, msg)
		}
	}
	return out
}

// MessagesFor returns the messages attached to a view.
func (m Model) MessagesFor(view string) []domain.Message {
	var out []domain.Message
	for _, msg := range m.Dashboard.Messages {
		if msg.View == view {
			out = append(out, msg)
		}
	}
	return out
}

// Chart returns the image URL for a chart, or "" when it is not drawn.
func (m Model) Chart(name string) string {
	return m.Charts[name]
}

func isView(name string) bool {
	for _, v := range services.Views {
		if v == name {
			return true
		}
	}
	return false
}

// Render writes the page.
func Render(w io.Writer, m Model) error {
	if err := templates.ExecuteTemplate(w, "dashboard.html", m); err != nil {
		return fmt.Errorf("render dashboard page: %w", err)
	}
	return nil
}

func formatNumber(v *float64) string {
	if v == nil {
		return "NaN"
	}
	return fmt.Sprintf("%.3f", *v)
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
