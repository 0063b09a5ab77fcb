package voxel

import "math"

// Cell is the unit of storage: the raw scalar samples binned into one voxel
// plus an optional reduced value. Raw samples and the reduced value have
// independent lifetimes: ingestion appends raw samples, aggregation assigns
// the value, and transforms discard raw samples once the value no longer
// derives from them.
type Cell struct {
	// Raw holds the scalar measurements contributed to this cell. NaN is
	// never stored. Insertion order carries no meaning.
	Raw []float64

	// Value is the reduced scalar. It is meaningful only when Valid is true.
	Value float64

	// Valid reports whether Value is present. An aggregation that produces a
	// non-finite result leaves Valid false; the cell itself is kept.
	Valid bool
}

// hasValue reports whether the cell carries a usable reduced value.
func (c *Cell) hasValue() bool {
	return c.Valid && !math.IsNaN(c.Value)
}

// setValue assigns a reduced value, treating non-finite results as absent.
func (c *Cell) setValue(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		c.Value = 0
		c.Valid = false
		return
	}
	c.Value = v
	c.Valid = true
}

func nan() float64 { return math.NaN() }

// clone returns a deep copy; the raw sample slice is never shared.
func (c *Cell) clone() *Cell {
	out := &Cell{Value: c.Value, Valid: c.Valid}
	if len(c.Raw) > 0 {
		out.Raw = make([]float64, len(c.Raw))
		copy(out.Raw, c.Raw)
	}
	return out
}
