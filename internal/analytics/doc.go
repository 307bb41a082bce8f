// Package analytics computes the dashboard's derived views from a
// dataset.Table: summary statistics, the score correlation matrix, sector
// means and counts, the top-N ranking and scatter points.
//
// Every function is a pure transform. Views whose input columns are absent
// return an error wrapping ErrSkipped (or a dataset column error) so callers
// can drop the view and show why instead of failing the page.
package analytics
