package charts

import (
	"context"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"esgdash/internal/analytics"
)

var (
	barColor     = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	missingColor = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

// CorrelationTitle heads the correlation heatmap.
const CorrelationTitle = "Correlation Heatmap of ESG Scores"

// SectorMetricTitle heads the sector aggregation chart.
func SectorMetricTitle(metric string) string {
	return fmt.Sprintf("Average %s by Sector", metric)
}

// Correlation draws the matrix as an annotated blue-red heatmap with the
// first column in the top row.
func (r *Renderer) Correlation(ctx context.Context, m *analytics.CorrelationMatrix, format Format) ([]byte, error) {
	return r.encode(ctx, CorrelationChart, format, func() (*plot.Plot, error) {
		if m == nil || len(m.Columns) == 0 {
			return nil, ErrNoData
		}
		n := len(m.Columns)

		cmap := moreland.SmoothBlueRed()
		cmap.SetMin(-1)
		cmap.SetMax(1)
		heat := plotter.NewHeatMap(correlationGrid{m}, cmap.Palette(255))
		heat.Min, heat.Max = -1, 1
		heat.NaN = missingColor

		p := plot.New()
		p.Title.Text = CorrelationTitle
		p.Add(heat)

		var (
			xys  plotter.XYs
			text []string
		)
		for row := 0; row < n; row++ {
			for col := 0; col < n; col++ {
				xys = append(xys, plotter.XY{X: float64(col), Y: float64(n - 1 - row)})
				text = append(text, annotation(m.At(row, col)))
			}
		}
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: text})
		if err != nil {
			return nil, err
		}
		p.Add(labels)

		rows := make([]string, n)
		for i, name := range m.Columns {
			rows[n-1-i] = name
		}
		p.NominalX(m.Columns...)
		p.NominalY(rows...)
		p.X.Tick.Label.Rotation = math.Pi / 6
		p.X.Tick.Label.XAlign = draw.XRight
		return p, nil
	})
}

func annotation(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return fmt.Sprintf("%.2f", v)
}

// correlationGrid adapts a correlation matrix to plotter.GridXYZ. Rows are
// flipped so matrix row 0 is drawn at the top.
type correlationGrid struct {
	m *analytics.CorrelationMatrix
}

func (g correlationGrid) Dims() (c, r int) {
	n := len(g.m.Columns)
	return n, n
}

func (g correlationGrid) Z(c, r int) float64 {
	return g.m.At(len(g.m.Columns)-1-r, c)
}

func (g correlationGrid) X(c int) float64 { return float64(c) }
func (g correlationGrid) Y(r int) float64 { return float64(r) }

// SectorCounts draws the number of companies per sector.
func (r *Renderer) SectorCounts(ctx context.Context, counts []analytics.SectorValue, format Format) ([]byte, error) {
	return r.encode(ctx, SectorCountsChart, format, func() (*plot.Plot, error) {
		return sectorBars(counts, "Distribution of Companies by Sector", "Number of Companies")
	})
}

// SectorMetric draws the per-sector mean of metric. Sectors whose mean is
// missing are left out of the chart.
func (r *Renderer) SectorMetric(ctx context.Context, metric string, means []analytics.SectorValue, format Format) ([]byte, error) {
	return r.encode(ctx, SectorMetricChart, format, func() (*plot.Plot, error) {
		return sectorBars(means, SectorMetricTitle(metric), metric)
	})
}

func sectorBars(values []analytics.SectorValue, title, ylabel string) (*plot.Plot, error) {
	var (
		heights plotter.Values
		names   []string
	)
	for _, v := range values {
		if math.IsNaN(v.Value) {
			continue
		}
		heights = append(heights, v.Value)
		names = append(names, v.Sector)
	}
	if len(heights) == 0 {
		return nil, ErrNoData
	}

	bars, err := plotter.NewBarChart(heights, vg.Points(20))
	if err != nil {
		return nil, err
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Sector"
	p.Y.Label.Text = ylabel
	p.Add(bars)
	p.Add(plotter.NewGrid())
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	return p, nil
}

// TopN draws the ranking as horizontal bars keyed by label, with the first
// ranked company at the top.
func (r *Renderer) TopN(ctx context.Context, res *analytics.TopNResult, format Format) ([]byte, error) {
	return r.encode(ctx, TopNChart, format, func() (*plot.Plot, error) {
		if res == nil {
			return nil, ErrNoData
		}
		var (
			widths plotter.Values
			names  []string
		)
		for i := len(res.Values) - 1; i >= 0; i-- {
			if math.IsNaN(res.Values[i]) {
				continue
			}
			widths = append(widths, res.Values[i])
			names = append(names, res.Labels[i])
		}
		if len(widths) == 0 {
			return nil, ErrNoData
		}

		bars, err := plotter.NewBarChart(widths, vg.Points(12))
		if err != nil {
			return nil, err
		}
		bars.Horizontal = true
		bars.Color = barColor
		bars.LineStyle.Width = 0

		p := plot.New()
		p.Title.Text = fmt.Sprintf("Top %d Companies by %s", res.N, res.Metric)
		p.X.Label.Text = res.Metric
		p.Y.Label.Text = res.LabelColumn
		p.Add(bars)
		p.Add(plotter.NewGrid())
		p.NominalY(names...)
		return p, nil
	})
}

// Scatter draws one glyph per point. Grouped results get one series and
// legend entry per group; numeric colors are shaded on a sequential map.
func (r *Renderer) Scatter(ctx context.Context, res *analytics.ScatterResult, format Format) ([]byte, error) {
	return r.encode(ctx, ScatterChart, format, func() (*plot.Plot, error) {
		if res == nil || len(res.Points) == 0 {
			return nil, ErrNoData
		}

		p := plot.New()
		p.Title.Text = fmt.Sprintf("%s vs %s", res.Y, res.X)
		p.X.Label.Text = res.X
		p.Y.Label.Text = res.Y
		p.Add(plotter.NewGrid())

		if res.ColorIsGroup {
			if err := addGroupedPoints(p, res); err != nil {
				return nil, err
			}
			return p, nil
		}
		if err := addShadedPoints(p, res); err != nil {
			return nil, err
		}
		return p, nil
	})
}

func addGroupedPoints(p *plot.Plot, res *analytics.ScatterResult) error {
	p.Legend.Top = true
	p.Legend.Left = false
	for i, group := range res.Groups {
		var xys plotter.XYs
		for _, pt := range res.Points {
			if pt.Group == group {
				xys = append(xys, plotter.XY{X: pt.X, Y: pt.Y})
			}
		}
		if len(xys) == 0 {
			continue
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = plotutil.Color(i)
		s.GlyphStyle.Radius = vg.Points(3)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(group, s)
	}
	return nil
}

func addShadedPoints(p *plot.Plot, res *analytics.ScatterResult) error {
	xys := make(plotter.XYs, len(res.Points))
	for i, pt := range res.Points {
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	s.GlyphStyle.Radius = vg.Points(3)
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Color = barColor

	if lo, hi, ok := res.ColorRange(); ok && res.Color != "" {
		if hi <= lo {
			hi = lo + 1
		}
		cmap := moreland.Kindlmann()
		cmap.SetMin(lo)
		cmap.SetMax(hi)
		s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			style := s.GlyphStyle
			c, err := cmap.At(res.Points[i].Color)
			if err != nil {
				style.Color = missingColor
				return style
			}
			style.Color = c
			return style
		}
		p.Title.Text = fmt.Sprintf("%s vs %s (shaded by %s, %.1f to %.1f)", res.Y, res.X, res.Color, lo, hi)
	}
	p.Add(s)
	return nil
}
