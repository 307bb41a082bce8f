package page

import (
	"fmt"
	"math"

	"esgdash/pkg/contracts/domain"
)

const (
	plotWidth  = 640.0
	plotHeight = 400.0
	plotMargin = 40.0
)

var groupColors = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// ScatterPlot is an inline SVG rendering of the scatter view where every
// point carries its label as a hover title.
type ScatterPlot struct {
	Width   float64
	Height  float64
	Margin  float64
	Circles []Circle
	Legend  []LegendEntry
	XLabel  string
	YLabel  string
	XRange  [2]float64
	YRange  [2]float64
}

// Circle is one plotted point.
type Circle struct {
	CX, CY float64
	Fill   string
	Title  string
}

// LegendEntry maps a sector to its color.
type LegendEntry struct {
	Label string
	Fill  string
}

// NewScatterPlot scales the points into the SVG viewport.
func NewScatterPlot(s *domain.Scatter) *ScatterPlot {
	p := &ScatterPlot{
		Width:  plotWidth,
		Height: plotHeight,
		Margin: plotMargin,
		XLabel: s.X,
		YLabel: s.Y,
	}
	if len(s.Points) == 0 {
		return p
	}

	xlo, xhi := math.Inf(1), math.Inf(-1)
	ylo, yhi := math.Inf(1), math.Inf(-1)
	clo, chi := math.Inf(1), math.Inf(-1)
	for _, pt := range s.Points {
		xlo, xhi = math.Min(xlo, pt.X), math.Max(xhi, pt.X)
		ylo, yhi = math.Min(ylo, pt.Y), math.Max(yhi, pt.Y)
		if pt.Color != nil {
			clo, chi = math.Min(clo, *pt.Color), math.Max(chi, *pt.Color)
		}
	}
	p.XRange = [2]float64{xlo, xhi}
	p.YRange = [2]float64{ylo, yhi}

	fills := make(map[string]string)
	for i, g := range s.Groups {
		fill := groupColors[i%len(groupColors)]
		fills[g] = fill
		p.Legend = append(p.Legend, LegendEntry{Label: g, Fill: fill})
	}

	for _, pt := range s.Points {
		c := Circle{
			CX:    scale(pt.X, xlo, xhi, plotMargin, plotWidth-plotMargin),
			CY:    scale(pt.Y, ylo, yhi, plotHeight-plotMargin, plotMargin),
			Fill:  groupColors[0],
			Title: fmt.Sprintf("%s (%g, %g)", pt.Label, pt.X, pt.Y),
		}
		switch {
		case s.Grouped:
			c.Fill = fills[pt.Group]
			c.Title = fmt.Sprintf("%s [%s] (%g, %g)", pt.Label, pt.Group, pt.X, pt.Y)
		case pt.Color != nil:
			c.Fill = shade(*pt.Color, clo, chi)
			c.Title = fmt.Sprintf("%s (%g, %g) %s=%g", pt.Label, pt.X, pt.Y, s.Color, *pt.Color)
		case s.Color != "":
			c.Fill = "#c8c8c8"
		}
		p.Circles = append(p.Circles, c)
	}
	return p
}

// scale maps v from [lo, hi] onto [from, to]; a flat range maps to the middle.
func scale(v, lo, hi, from, to float64) float64 {
	if hi <= lo {
		return (from + to) / 2
	}
	return from + (v-lo)/(hi-lo)*(to-from)
}

// shade blends from blue (low) to red (high).
func shade(v, lo, hi float64) string {
	t := 0.5
	if hi > lo {
		t = (v - lo) / (hi - lo)
	}
	r := int(math.Round(59 + t*(180-59)))
	g := int(math.Round(76 + t*(4-76)))
	b := int(math.Round(192 + t*(38-192)))
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
