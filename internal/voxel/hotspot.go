package voxel

import "math"

// SpatialCorrelation replaces every cell's value with a Getis-Ord Gi*-style
// hotspot statistic computed against the grid's own mean and standard
// deviation. See SpatialCorrelationAgainst for the definition.
func (g *Grid) SpatialCorrelation(radius int) error {
	return g.spatialCorrelation(radius, nan(), nan())
}

// SpatialCorrelationAgainst computes the hotspot statistic against an
// externally supplied reference mean and standard deviation, e.g. to compare
// a grid against a reference population.
//
// For each cell the neighborhood is the cube of keys within radius in each
// axis excluding the cell itself; neighbors carry uniform weight 1 (no
// distance decay). With n valued neighbors, sum S of their values, and N the
// grid's total valued-cell count:
//
//	Gi* = (S - mean*n) / (std * sqrt((N*n - n*n) / (N-1)))
//
// Cells with fewer than two valued neighbors, or a zero reference standard
// deviation, score the neutral value 0. The whole grid is rebuilt into a new
// cell map from these scores (raw samples are discarded) and swapped in, then
// statistics are refreshed.
func (g *Grid) SpatialCorrelationAgainst(radius int, mean, std float64) error {
	return g.spatialCorrelation(radius, mean, std)
}

func (g *Grid) spatialCorrelation(radius int, mean, std float64) error {
	if radius < 0 {
		return ErrNegativeRadius
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	// Default the reference population to the grid itself, computed from the
	// present values rather than possibly stale cached statistics.
	if math.IsNaN(mean) || math.IsNaN(std) {
		g.refreshStatsLocked()
		if math.IsNaN(mean) {
			mean = g.stats.Mean
		}
		if math.IsNaN(std) {
			std = g.stats.StdDev
		}
	}

	total := 0
	for _, c := range g.cells {
		if c.hasValue() {
			total++
		}
	}

	// Each score reads only the frozen prior map, so the pass fans out across
	// keys and writes into a fresh map that is swapped in at the end. This
	// avoids aliasing between old values being compared and new values being
	// written.
	keys := g.keysLocked()
	scores := make([]float64, len(keys))
	index := make(map[Key]int, len(keys))
	for i, k := range keys {
		index[k] = i
	}
	g.parallelKeys(keys, func(k Key) {
		scores[index[k]] = g.hotspotScoreLocked(k, radius, mean, std, total)
	})

	next := make(map[Key]*Cell, len(keys))
	for i, k := range keys {
		c := &Cell{}
		c.setValue(scores[i])
		next[k] = c
	}
	g.cells = next
	g.refreshStatsLocked()
	return nil
}

// hotspotScoreLocked scores one cell against the frozen cell map. Caller
// holds g.mu; only prior values are read.
func (g *Grid) hotspotScoreLocked(k Key, radius int, mean, std float64, total int) float64 {
	if std == 0 {
		return 0
	}

	n := 0
	sum := 0.0
	neighborhood(k, radius, func(nk Key) {
		if nk == k {
			return
		}
		if nc, ok := g.cells[nk]; ok && nc.hasValue() {
			n++
			sum += nc.Value
		}
	})
	if n < 2 {
		return 0
	}

	nf := float64(n)
	tf := float64(total)
	numerator := sum - mean*nf
	denominator := std * math.Sqrt((tf*nf-nf*nf)/(tf-1))
	if denominator == 0 || math.IsNaN(denominator) {
		return 0
	}
	return numerator / denominator
}
