package page

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esgdash/internal/charts"
	"esgdash/pkg/contracts/domain"
)

func link(name string) string { return "/charts/" + name + ".png" }

func sampleDashboard() domain.Dashboard {
	return domain.Dashboard{
		Title:   "S&P 500 ESG Risk Analysis Dashboard",
		Dataset: &domain.DatasetMeta{Loaded: true, Rows: 3},
		Widgets: domain.Widgets{
			Sectors:         []string{"Energy", "Technology", "Unknown"},
			SelectedSectors: []string{"Energy"},
			ScoreColumns:    []string{"Total ESG Risk score", "Controversy Score"},
			NumericColumns:  []string{"Total ESG Risk score", "Controversy Score"},
			Metric:          "Total ESG Risk score",
			SortBy:          "Total ESG Risk score",
			TopN:            15,
			X:               "Total ESG Risk score",
			Y:               "Controversy Score",
			Color:           "Sector",
		},
		Messages: []domain.Message{
			{Level: domain.MessageWarning, Text: "No sectors selected"},
			{Level: domain.MessageSkipped, View: "correlation", Text: "Not enough score columns"},
		},
		Overview: &domain.Overview{
			Rows:    3,
			Columns: []string{"Symbol", "Sector"},
			Sample:  [][]string{{"XOM", "Energy"}},
		},
		Summary: []domain.ColumnSummary{
			{Column: "Total ESG Risk score", Count: 2, Mean: domain.Float(37.35)},
		},
		SectorCounts: []domain.SectorValue{{Sector: "Energy", Value: domain.Float(2), Count: 2}},
		SectorMeans: &domain.SectorBreakdown{
			Metric:  "Total ESG Risk score",
			Title:   "Average Total ESG Risk score by Sector",
			Sectors: []domain.SectorValue{{Sector: "Energy", Value: domain.Float(37.35), Count: 2}},
		},
		TopN: &domain.TopN{
			Title:     "Top 2 Companies by Total ESG Risk score",
			Columns:   []string{"Symbol", "Total ESG Risk score"},
			Companies: []domain.RankedCompany{{Rank: 1, Label: "XOM", Fields: []string{"XOM", "41.6"}}},
		},
		Scatter: &domain.Scatter{
			X: "Total ESG Risk score", Y: "Controversy Score", Color: "Sector",
			Grouped: true, Groups: []string{"Energy"},
			Points: []domain.ScatterPoint{
				{Label: "XOM", X: 41.6, Y: 3, Group: "Energy"},
				{Label: "CVX", X: 33.1, Y: 2, Group: "Energy"},
			},
		},
		GeneratedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestNew_LinksOnlyAvailableCharts(t *testing.T) {
	m := New(sampleDashboard(), false, link)

	assert.Equal(t, "/charts/sectors.png", m.Chart(charts.SectorCountsChart))
	assert.Equal(t, "/charts/top-n.png", m.Chart(charts.TopNChart))
	assert.Empty(t, m.Chart(charts.CorrelationChart))
	require.NotNil(t, m.Scatter)
	assert.Len(t, m.Scatter.Circles, 2)
}

func TestModel_Messages(t *testing.T) {
	m := New(sampleDashboard(), false, link)

	notices := m.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, "No sectors selected", notices[0].Text)

	require.Len(t, m.MessagesFor("correlation"), 1)
	assert.Empty(t, m.MessagesFor("top-n"))
}

func TestRender_Interactive(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, New(sampleDashboard(), false, link)))
	html := buf.String()

	for _, want := range []string{
		"1. Dataset Overview",
		"2. Correlation Analysis",
		"3. Sector Breakdown Analysis",
		"4. Top Companies Explorer",
		"Show Lowest Scores (Best Performers)",
		`<option value="Energy" selected>`,
		`<option value="Technology">`,
		"<title>XOM [Energy] (41.6, 3)</title>",
		`src="/charts/sector-metric.png"`,
		"Not enough score columns",
		"37.350",
	} {
		assert.Contains(t, html, want)
	}
	assert.NotContains(t, html, `src="/charts/correlation.png"`)
}

func TestRender_StaticHasNoWidgets(t *testing.T) {
	d := sampleDashboard()
	d.Scatter = nil

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, New(d, true, func(name string) string { return name + ".png" })))
	html := buf.String()

	assert.NotContains(t, html, "<form")
	assert.NotContains(t, html, `id="scatter"`)
	assert.Contains(t, html, `src="top-n.png"`)
}

func TestRender_NoDataset(t *testing.T) {
	d := domain.Dashboard{
		Title:    "S&P 500 ESG Risk Analysis Dashboard",
		Dataset:  &domain.DatasetMeta{Loaded: false},
		Messages: []domain.Message{
			{Level: domain.MessageInfo, Text: "No file at sp500esg.csv"},
			{Level: domain.MessageInfo, Text: "No file at data/sp500esg.csv"},
			{Level: domain.MessageError, Text: "Dataset not found"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, New(d, false, link)))
	html := buf.String()

	assert.Contains(t, html, "Dataset not found")
	assert.Contains(t, html, `<div class="msg msg-info">No file at sp500esg.csv</div>`)
	assert.Contains(t, html, `<div class="msg msg-info">No file at data/sp500esg.csv</div>`)
	assert.False(t, strings.Contains(html, "1. Dataset Overview"))
	assert.NotContains(t, html, "<form")
}

func TestRender_ColorOptions(t *testing.T) {
	render := func(d domain.Dashboard) string {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, New(d, false, link)))
		return buf.String()
	}

	withSectors := render(sampleDashboard())
	assert.Contains(t, withSectors, `<option value="Sector" selected>Sector</option>`)

	d := sampleDashboard()
	d.Widgets.Sectors = nil
	d.Widgets.SelectedSectors = nil
	d.Widgets.Color = "Controversy Score"
	html := render(d)
	assert.NotContains(t, html, `<option value="Sector"`)
	assert.Contains(t, html, `id="color"`)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "NaN", formatNumber(nil))
	assert.Equal(t, "1.500", formatNumber(domain.Float(1.5)))
}

func TestNewScatterPlot_Shaded(t *testing.T) {
	p := NewScatterPlot(&domain.Scatter{
		X: "a", Y: "b", Color: "c",
		Points: []domain.ScatterPoint{
			{Label: "LO", X: 0, Y: 0, Color: domain.Float(0)},
			{Label: "HI", X: 10, Y: 10, Color: domain.Float(1)},
			{Label: "NA", X: 5, Y: 5},
		},
	})

	require.Len(t, p.Circles, 3)
	assert.Equal(t, "#3b4cc0", p.Circles[0].Fill)
	assert.Equal(t, "#b40426", p.Circles[1].Fill)
	assert.Equal(t, "#c8c8c8", p.Circles[2].Fill)
	assert.InDelta(t, plotMargin, p.Circles[0].CX, 1e-9)
	assert.InDelta(t, plotHeight-plotMargin, p.Circles[0].CY, 1e-9)
	assert.InDelta(t, plotWidth/2, p.Circles[2].CX, 1e-9)
}

func TestScale_FlatRange(t *testing.T) {
	assert.Equal(t, 50.0, scale(3, 3, 3, 0, 100))
}
