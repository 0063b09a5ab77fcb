package voxel

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Policy selects the reducer applied to a cell's pooled raw samples.
type Policy int

const (
	// Mean reduces to the arithmetic mean of the pooled samples.
	Mean Policy = iota
	// Sum reduces to the total of the pooled samples.
	Sum
	// StdDev reduces to the population standard deviation (divisor N).
	StdDev
	// Skewness reduces to the sample skewness of the pooled samples.
	Skewness
	// Count reduces to the number of pooled samples.
	Count
)

// String returns the policy name for logs and flags.
func (p Policy) String() string {
	switch p {
	case Mean:
		return "mean"
	case Sum:
		return "sum"
	case StdDev:
		return "stddev"
	case Skewness:
		return "skewness"
	case Count:
		return "count"
	}
	return "unknown"
}

// reduce applies the policy to a pooled sample list. An empty pool or a
// mathematically undefined reduction (skewness of a single sample, a
// zero-spread pool) yields NaN; callers treat that as an absent value.
func (p Policy) reduce(pool []float64) float64 {
	if len(pool) == 0 {
		return nan()
	}
	switch p {
	case Mean:
		return stat.Mean(pool, nil)
	case Sum:
		return floats.Sum(pool)
	case StdDev:
		return stat.PopStdDev(pool, nil)
	case Skewness:
		return stat.Skew(pool, nil)
	case Count:
		return float64(len(pool))
	}
	return nan()
}

// Aggregate reduces every cell's neighborhood-pooled raw samples to a single
// value. The neighborhood is the cube of keys within radius of the cell in
// each axis; radius 0 pools only the cell's own samples. Samples are pooled
// across the neighborhood with each sample counted exactly once, then reduced
// with the policy. Cells whose reduction is undefined keep no value but are
// not removed. Statistics are refreshed before returning.
//
// The per-key reductions run across a bounded worker pool: the key set is
// frozen under the grid lock for the whole pass, raw samples are only read,
// and each worker writes only its own cells' values.
func (g *Grid) Aggregate(policy Policy, radius int) error {
	if radius < 0 {
		return ErrNegativeRadius
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	keys := g.keysLocked()
	g.parallelKeys(keys, func(k Key) {
		var pool []float64
		neighborhood(k, radius, func(nk Key) {
			if nc, ok := g.cells[nk]; ok {
				pool = append(pool, nc.Raw...)
			}
		})
		g.cells[k].setValue(policy.reduce(pool))
	})

	g.refreshStatsLocked()
	return nil
}

// parallelKeys runs fn for every key, fanning out across GOMAXPROCS workers
// on contiguous chunks. Caller holds g.mu, so the key set cannot change
// underneath the workers; fn must touch only the cell it was given.
func (g *Grid) parallelKeys(keys []Key, fn func(Key)) {
	workers := runtime.GOMAXPROCS(0)
	if workers > len(keys) {
		workers = len(keys)
	}
	if workers <= 1 {
		for _, k := range keys {
			fn(k)
		}
		return
	}

	chunk := (len(keys) + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < len(keys); start += chunk {
		end := start + chunk
		if end > len(keys) {
			end = len(keys)
		}
		wg.Add(1)
		go func(part []Key) {
			defer wg.Done()
			for _, k := range part {
				fn(k)
			}
		}(keys[start:end])
	}
	wg.Wait()
}
