package analytics

import (
	"fmt"
	"math"

	"esgdash/internal/dataset"
)

// ScatterPoint is one company in the scatter explorer.
type ScatterPoint struct {
	Label string
	X     float64
	Y     float64
	Group string
	Color float64
}

// ScatterResult holds the points plus how they are colored.
type ScatterResult struct {
	X            string
	Y            string
	Color        string
	ColorIsGroup bool
	Groups       []string
	Points       []ScatterPoint
	Dropped      int
}

// Scatter builds one point per row with both axis values present. color is
// either the Sector column (points grouped by sector) or a numeric column
// (points carry its value). An empty color defaults to Sector when present.
func Scatter(t *dataset.Table, x, y, color string) (*ScatterResult, error) {
	xs, err := t.Floats(x)
	if err != nil {
		return nil, err
	}
	ys, err := t.Floats(y)
	if err != nil {
		return nil, err
	}
	if color == "" && t.HasColumn(dataset.SectorColumn) {
		color = dataset.SectorColumn
	}

	res := &ScatterResult{X: x, Y: y, Color: color}
	var (
		groups []string
		shades []float64
	)
	switch {
	case color == "":
	case color == dataset.SectorColumn:
		groups = dataset.SectorLabels(t)
		if groups == nil {
			return nil, fmt.Errorf("%w: %q", dataset.ErrUnknownColumn, color)
		}
		res.ColorIsGroup = true
		res.Groups = dataset.Sectors(t)
	default:
		if shades, err = t.Floats(color); err != nil {
			return nil, err
		}
	}

	names := labels(t)
	res.Points = make([]ScatterPoint, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			res.Dropped++
			continue
		}
		p := ScatterPoint{Label: names[i], X: xs[i], Y: ys[i]}
		if groups != nil {
			p.Group = groups[i]
		}
		if shades != nil {
			p.Color = shades[i]
		}
		res.Points = append(res.Points, p)
	}
	return res, nil
}

// ColorRange returns the min and max numeric color over the points,
// ignoring missing values. ok is false when no point has a color value.
func (r *ScatterResult) ColorRange() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range r.Points {
		if math.IsNaN(p.Color) {
			continue
		}
		lo = math.Min(lo, p.Color)
		hi = math.Max(hi, p.Color)
		ok = true
	}
	return lo, hi, ok
}
