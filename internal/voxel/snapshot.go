package voxel

// CellState is the serialisable state of one cell: its reduced value (when
// present) and how many raw samples contributed. Raw samples themselves are
// not part of a snapshot; snapshots persist model state, not raw returns.
type CellState struct {
	Key      Key
	Value    float64
	Valid    bool
	RawCount int
}

// Snapshot is a point-in-time copy of a grid's persistent state, ordered by
// key for deterministic serialisation.
type Snapshot struct {
	CellSize  float64
	Offset    [3]float64
	Transform Transform
	Cells     []CellState
}

// Snapshot copies the grid's state under the read lock. The copy is fully
// detached: callers may serialise it while the grid keeps ingesting.
func (g *Grid) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	keys := g.keysLocked()
	sortKeys(keys)
	cells := make([]CellState, len(keys))
	for i, k := range keys {
		c := g.cells[k]
		cells[i] = CellState{Key: k, Value: c.Value, Valid: c.Valid, RawCount: len(c.Raw)}
	}
	return Snapshot{
		CellSize:  g.cellSize,
		Offset:    g.offset,
		Transform: g.transform,
		Cells:     cells,
	}
}

// FromSnapshot reconstructs a grid from a snapshot. Cells come back with
// their reduced values and empty raw-sample lists; statistics are refreshed
// before returning.
func FromSnapshot(s Snapshot) (*Grid, error) {
	if !(s.CellSize > 0) {
		return nil, ErrInvalidCellSize
	}
	g := &Grid{
		cells:     make(map[Key]*Cell, len(s.Cells)),
		cellSize:  s.CellSize,
		offset:    s.Offset,
		transform: s.Transform,
	}
	if g.transform == (Transform{}) {
		g.transform = IdentityTransform()
	}
	for _, cs := range s.Cells {
		c := &Cell{Value: cs.Value, Valid: cs.Valid}
		g.cells[cs.Key] = c
	}
	g.refreshStatsLocked()
	return g, nil
}
