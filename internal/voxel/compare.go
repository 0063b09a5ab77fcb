package voxel

import "gonum.org/v1/gonum/stat"

// PearsonCorrelation computes the Pearson correlation coefficient between the
// valued cells of two grids, zipped element-wise in key order. The grids must
// hold the same number of valued cells; mismatched counts are rejected rather
// than silently truncated, since a shifted zip would correlate unrelated
// cells.
func (g *Grid) PearsonCorrelation(other *Grid) (float64, error) {
	a := g.Values()
	b := other.Values()
	if len(a) != len(b) {
		return 0, ErrCountMismatch
	}
	if len(a) == 0 {
		return 0, nil
	}
	xs := make([]float64, len(a))
	ys := make([]float64, len(b))
	for i := range a {
		xs[i] = a[i].Value
		ys[i] = b[i].Value
	}
	return stat.Correlation(xs, ys, nil), nil
}
