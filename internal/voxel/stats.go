package voxel

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises the reduced values of a grid: every cell with a present,
// non-NaN value contributes exactly one observation. Statistics are stale
// after ingestion or any bulk mutation until the next refresh; the mutating
// passes on Grid refresh them before returning.
type Stats struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64 // population standard deviation (divisor N)
}

// RefreshStatistics recomputes the grid summary statistics from the current
// reduced values. When no cell holds a value the previous statistics are left
// in place rather than reset.
func (g *Grid) RefreshStatistics() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refreshStatsLocked()
}

// Stats returns the most recently refreshed summary statistics.
func (g *Grid) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.stats
}

// refreshStatsLocked recomputes g.stats from valued cells. Caller holds g.mu.
func (g *Grid) refreshStatsLocked() {
	values := g.valuesLocked()
	if len(values) == 0 {
		return
	}
	g.stats = Stats{
		Count:  len(values),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   stat.Mean(values, nil),
		StdDev: stat.PopStdDev(values, nil),
	}
}

// valuesLocked collects the reduced value of every valued cell in map order.
// Caller holds g.mu (read or write).
func (g *Grid) valuesLocked() []float64 {
	values := make([]float64, 0, len(g.cells))
	for _, c := range g.cells {
		if c.hasValue() {
			values = append(values, c.Value)
		}
	}
	return values
}
