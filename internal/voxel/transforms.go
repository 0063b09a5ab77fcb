package voxel

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// The elementwise transforms operate only on cells that already hold a value;
// unvalued cells are skipped and keep no value. Every transform refreshes the
// grid statistics and discards each touched cell's raw samples, which no
// longer relate to the transformed value.

// applyLocked rewrites every valued cell through f. Caller holds g.mu.
func (g *Grid) applyLocked(f func(float64) float64) {
	for _, c := range g.cells {
		if !c.hasValue() {
			continue
		}
		c.setValue(f(c.Value))
		c.Raw = nil
	}
	g.refreshStatsLocked()
}

// Normalise z-scores every value against the grid's own mean and population
// standard deviation. A grid with no valued cells, or with zero spread, is
// left unchanged.
func (g *Grid) Normalise() {
	g.mu.Lock()
	defer g.mu.Unlock()
	values := g.valuesLocked()
	if len(values) == 0 {
		return
	}
	mean := stat.Mean(values, nil)
	std := stat.PopStdDev(values, nil)
	if std == 0 {
		return
	}
	g.applyLocked(func(v float64) float64 { return (v - mean) / std })
}

// MaxMinNormalise rescales values to [0, 1] using the grid's current minimum
// and maximum as input bounds.
func (g *Grid) MaxMinNormalise() error {
	return g.remap(nan(), nan(), 0, 1)
}

// MaxMinNormaliseBounds rescales values to [0, 1] using the supplied input
// bounds.
func (g *Grid) MaxMinNormaliseBounds(min, max float64) error {
	return g.remap(min, max, 0, 1)
}

// Remap linearly rescales values from the grid's current [min, max] onto
// [outLo, outHi].
func (g *Grid) Remap(outLo, outHi float64) error {
	return g.remap(nan(), nan(), outLo, outHi)
}

// RemapRange linearly rescales values from [inLo, inHi] onto [outLo, outHi].
// Equal input bounds are a precondition failure; no value is modified.
func (g *Grid) RemapRange(inLo, inHi, outLo, outHi float64) error {
	return g.remap(inLo, inHi, outLo, outHi)
}

// remap is the shared linear rescale; NaN input bounds select the grid's
// current min/max.
func (g *Grid) remap(inLo, inHi, outLo, outHi float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	values := g.valuesLocked()
	if len(values) == 0 {
		return nil
	}
	if math.IsNaN(inLo) {
		inLo = floats.Min(values)
	}
	if math.IsNaN(inHi) {
		inHi = floats.Max(values)
	}
	if inLo == inHi {
		return ErrDegenerateBounds
	}
	scale := (outHi - outLo) / (inHi - inLo)
	g.applyLocked(func(v float64) float64 { return (v-inLo)*scale + outLo })
	return nil
}

// Clamp limits every value to [min, max].
func (g *Grid) Clamp(min, max float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.applyLocked(func(v float64) float64 {
		return math.Max(min, math.Min(v, max))
	})
}

// Sigmoid squashes every value through 1 / (1 + exp(-slope*v)).
func (g *Grid) Sigmoid(slope float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.applyLocked(func(v float64) float64 {
		return 1 / (1 + math.Exp(-slope*v))
	})
}

// ColumnNormalise z-scores each vertical column independently: cells are
// grouped by (x, y) ignoring z, and each column with at least two valued
// cells is normalised against its own mean and population standard deviation.
// Columns with fewer valued cells, or with zero spread, are left unchanged.
func (g *Grid) ColumnNormalise() {
	g.mu.Lock()
	defer g.mu.Unlock()

	byColumn := make(map[column][]float64)
	for k, c := range g.cells {
		if !c.hasValue() {
			continue
		}
		col := column{X: k.X, Y: k.Y}
		byColumn[col] = append(byColumn[col], c.Value)
	}

	type moments struct{ mean, std float64 }
	stats := make(map[column]moments, len(byColumn))
	for col, values := range byColumn {
		if len(values) < 2 {
			continue
		}
		std := stat.PopStdDev(values, nil)
		if std == 0 {
			continue
		}
		stats[col] = moments{mean: stat.Mean(values, nil), std: std}
	}

	for k, c := range g.cells {
		if !c.hasValue() {
			continue
		}
		m, ok := stats[column{X: k.X, Y: k.Y}]
		if !ok {
			continue
		}
		c.setValue((c.Value - m.mean) / m.std)
		c.Raw = nil
	}
	g.refreshStatsLocked()
}

// Apply rewrites every valued cell through f in place.
func (g *Grid) Apply(f func(float64) float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.applyLocked(f)
}

// ApplyPairwise replaces this grid's value with f(this, other) for every key
// valued in both grids. Keys present in only one grid are untouched; a
// differing key set is not an error.
func (g *Grid) ApplyPairwise(f func(a, b float64) float64, other *Grid) {
	if other == g {
		g.Apply(func(v float64) float64 { return f(v, v) })
		return
	}

	g.mu.Lock()
	other.mu.RLock()
	for k, c := range g.cells {
		if !c.hasValue() {
			continue
		}
		oc, ok := other.cells[k]
		if !ok || !oc.hasValue() {
			continue
		}
		c.setValue(f(c.Value, oc.Value))
		c.Raw = nil
	}
	other.mu.RUnlock()
	g.refreshStatsLocked()
	g.mu.Unlock()
}
