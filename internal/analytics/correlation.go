package analytics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"esgdash/internal/dataset"
)

// CorrelationMatrix is a symmetric Pearson matrix over Columns.
type CorrelationMatrix struct {
	Columns []string
	Values  [][]float64
}

// At returns the coefficient for columns i and j.
func (m *CorrelationMatrix) At(i, j int) float64 { return m.Values[i][j] }

// Dense returns the matrix as a gonum dense matrix, for heatmap rendering.
func (m *CorrelationMatrix) Dense() *mat.Dense {
	n := len(m.Columns)
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		d.SetRow(i, m.Values[i])
	}
	return d
}

// Correlation computes pairwise Pearson coefficients between the present,
// numeric CorrelationColumns. Each pair uses the rows where both values are
// present. Fewer than two usable columns skips the view.
func Correlation(t *dataset.Table) (*CorrelationMatrix, error) {
	var cols []string
	var data [][]float64
	for _, name := range CorrelationColumns {
		if !t.IsNumeric(name) {
			continue
		}
		values, _ := t.Floats(name)
		cols = append(cols, name)
		data = append(data, values)
	}
	if len(cols) < 2 {
		return nil, fmt.Errorf("%w: not enough relevant columns found for correlation analysis (%d of %d present)",
			ErrSkipped, len(cols), len(CorrelationColumns))
	}

	n := len(cols)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
		values[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pairwisePearson(data[i], data[j])
			values[i][j] = r
			values[j][i] = r
		}
	}
	return &CorrelationMatrix{Columns: cols, Values: values}, nil
}

func pairwisePearson(a, b []float64) float64 {
	x := make([]float64, 0, len(a))
	y := make([]float64, 0, len(b))
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	if len(x) < 2 {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}
