package voxel

import (
	"math"
	"sync"
)

// Point is one scalar measurement at a world-space position.
type Point struct {
	X, Y, Z float64
	V       float64
}

// Grid is a sparse voxel scalar field. Cells exist only for voxels that have
// received at least one sample (or were rebuilt by a whole-grid pass); the
// cell map is keyed by the integer index triple.
//
// Locking discipline: g.mu is held exclusively for any operation that can
// insert or remove keys (ingestion, pruning, filtering, the Gi* rebuild) and
// for whole-grid value passes. Value passes that fan out across workers do so
// while holding the lock, so the key set is frozen for their duration; each
// worker touches disjoint cells.
type Grid struct {
	mu sync.RWMutex

	cells map[Key]*Cell

	// cellSize is fixed at construction. offset shifts the binning origin and
	// may be changed between ingestion passes; transform applies only on
	// key-to-world reads and never affects binning.
	cellSize  float64
	offset    [3]float64
	transform Transform

	stats Stats
}

// New creates an empty grid with the given cell edge length.
func New(cellSize float64) (*Grid, error) {
	if !(cellSize > 0) {
		return nil, ErrInvalidCellSize
	}
	return &Grid{
		cells:     make(map[Key]*Cell),
		cellSize:  cellSize,
		transform: IdentityTransform(),
	}, nil
}

// NewWithOffset creates an empty grid whose index (0,0,0) cell has its corner
// at the given world-space origin.
func NewWithOffset(cellSize, ox, oy, oz float64) (*Grid, error) {
	g, err := New(cellSize)
	if err != nil {
		return nil, err
	}
	g.offset = [3]float64{ox, oy, oz}
	return g, nil
}

// CellSize returns the cell edge length.
func (g *Grid) CellSize() float64 { return g.cellSize }

// Offset returns the binning origin translation.
func (g *Grid) Offset() (x, y, z float64) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.offset[0], g.offset[1], g.offset[2]
}

// SetOffset replaces the binning origin. Existing cells are not re-binned;
// only future ingestion is affected.
func (g *Grid) SetOffset(x, y, z float64) {
	g.mu.Lock()
	g.offset = [3]float64{x, y, z}
	g.mu.Unlock()
}

// Transform returns the output-side transform.
func (g *Grid) Transform() Transform {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.transform
}

// SetTransform replaces the output-side transform. Binning of new points is
// unaffected.
func (g *Grid) SetTransform(t Transform) {
	g.mu.Lock()
	g.transform = t
	g.mu.Unlock()
}

// WorldToVoxel bins a world-space position into its cell key.
func (g *Grid) WorldToVoxel(x, y, z float64) Key {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return keyForPoint(x, y, z, g.offset, g.cellSize)
}

// VoxelToWorld returns the world-space center of the given cell with the
// output transform applied. With the identity transform,
// WorldToVoxel(VoxelToWorld(k)) == k.
func (g *Grid) VoxelToWorld(k Key) (x, y, z float64) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	cx, cy, cz := centerForKey(k, g.offset, g.cellSize)
	return g.transform.Apply(cx, cy, cz)
}

// CellCount returns the number of cells currently present, valued or not.
func (g *Grid) CellCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.cells)
}

// Cell returns a copy of the cell at k, if present.
func (g *Grid) Cell(k Key) (Cell, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.cells[k]
	if !ok {
		return Cell{}, false
	}
	return *c.clone(), true
}

// AddPoint bins one measurement into the grid. NaN scalars are dropped
// without creating a cell; this is the garbage-sample policy, not an error.
// Statistics are stale afterwards until the next aggregation or refresh.
func (g *Grid) AddPoint(x, y, z, v float64) {
	if math.IsNaN(v) {
		return
	}
	g.mu.Lock()
	g.addPointLocked(x, y, z, v)
	g.mu.Unlock()
}

// AddPoints bins a batch of measurements under a single exclusive critical
// section, so concurrent producers cannot interleave map mutations within a
// batch. No ordering is guaranteed between batches from different callers,
// but no sample is lost or duplicated under any interleaving.
func (g *Grid) AddPoints(batch []Point) {
	g.mu.Lock()
	for _, p := range batch {
		if math.IsNaN(p.V) {
			continue
		}
		g.addPointLocked(p.X, p.Y, p.Z, p.V)
	}
	g.mu.Unlock()
}

func (g *Grid) addPointLocked(x, y, z, v float64) {
	k := keyForPoint(x, y, z, g.offset, g.cellSize)
	c, ok := g.cells[k]
	if !ok {
		c = &Cell{}
		g.cells[k] = c
	}
	c.Raw = append(c.Raw, v)
}

// Prune removes every cell holding fewer than minRawSamples raw samples.
// Intended to run after ingestion and before aggregation to discard
// statistically unreliable sparse cells.
func (g *Grid) Prune(minRawSamples int) {
	g.mu.Lock()
	for k, c := range g.cells {
		if len(c.Raw) < minRawSamples {
			delete(g.cells, k)
		}
	}
	g.mu.Unlock()
}

// FilterByValueRange removes every valued cell whose value lies outside
// [min, max]. When removeZero is set, cells with value exactly 0 are removed
// regardless of the range. Unvalued cells are untouched. Statistics are
// refreshed afterwards.
func (g *Grid) FilterByValueRange(min, max float64, removeZero bool) {
	g.mu.Lock()
	for k, c := range g.cells {
		if !c.hasValue() {
			continue
		}
		if c.Value < min || c.Value > max || (removeZero && c.Value == 0) {
			delete(g.cells, k)
		}
	}
	g.refreshStatsLocked()
	g.mu.Unlock()
}

// SetConstant assigns v as the reduced value of every existing cell. Raw
// samples are discarded since the value no longer derives from them.
func (g *Grid) SetConstant(v float64) {
	g.mu.Lock()
	for _, c := range g.cells {
		c.setValue(v)
		c.Raw = nil
	}
	g.refreshStatsLocked()
	g.mu.Unlock()
}

// Clone returns a fully independent deep copy: every cell is copied, never
// shared, so mutating the clone can not disturb the original. Callers use
// this to retain a "before" snapshot to diff against a transformed grid.
func (g *Grid) Clone() *Grid {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := &Grid{
		cells:     make(map[Key]*Cell, len(g.cells)),
		cellSize:  g.cellSize,
		offset:    g.offset,
		transform: g.transform,
		stats:     g.stats,
	}
	for k, c := range g.cells {
		out.cells[k] = c.clone()
	}
	return out
}

// KeyValue pairs a cell key with its reduced value.
type KeyValue struct {
	Key   Key
	Value float64
}

// WorldValue pairs a cell's transformed world-space center with its value.
type WorldValue struct {
	X, Y, Z float64
	Value   float64
}

// Values enumerates the valued cells ascending by key (x, then y, then z).
// The deterministic order lets two independently-produced grids over the same
// keys be zipped element-wise.
func (g *Grid) Values() []KeyValue {
	g.mu.RLock()
	defer g.mu.RUnlock()
	keys := g.valuedKeysLocked()
	sortKeys(keys)
	out := make([]KeyValue, len(keys))
	for i, k := range keys {
		out[i] = KeyValue{Key: k, Value: g.cells[k].Value}
	}
	return out
}

// WorldValues enumerates the valued cells ascending by key, with each key
// converted to its transformed world-space center.
func (g *Grid) WorldValues() []WorldValue {
	g.mu.RLock()
	defer g.mu.RUnlock()
	keys := g.valuedKeysLocked()
	sortKeys(keys)
	out := make([]WorldValue, len(keys))
	for i, k := range keys {
		cx, cy, cz := centerForKey(k, g.offset, g.cellSize)
		wx, wy, wz := g.transform.Apply(cx, cy, cz)
		out[i] = WorldValue{X: wx, Y: wy, Z: wz, Value: g.cells[k].Value}
	}
	return out
}

// keysLocked collects every cell key in map order. Caller holds g.mu.
func (g *Grid) keysLocked() []Key {
	keys := make([]Key, 0, len(g.cells))
	for k := range g.cells {
		keys = append(keys, k)
	}
	return keys
}

// valuedKeysLocked collects the keys of valued cells. Caller holds g.mu.
func (g *Grid) valuedKeysLocked() []Key {
	keys := make([]Key, 0, len(g.cells))
	for k, c := range g.cells {
		if c.hasValue() {
			keys = append(keys, k)
		}
	}
	return keys
}
