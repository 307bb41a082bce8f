package domain

import "math"

// Float converts a statistic to its JSON form. NaN and infinities become
// nil so they encode as null.
func Float(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Floats converts a slice with Float.
func Floats(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		out[i] = Float(v)
	}
	return out
}
