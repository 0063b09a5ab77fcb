package voxel

import (
	"math"
	"sort"
)

// Key identifies a cell by its integer index triple. Two keys are equal iff
// all three components are equal; keys order ascending by X, then Y, then Z.
type Key struct {
	X, Y, Z int
}

// Less reports whether k sorts before other in the canonical key order.
func (k Key) Less(other Key) bool {
	if k.X != other.X {
		return k.X < other.X
	}
	if k.Y != other.Y {
		return k.Y < other.Y
	}
	return k.Z < other.Z
}

// column is the (x, y) projection of a key, used for column-wise passes.
type column struct {
	X, Y int
}

// keyForPoint bins a world-space coordinate into its cell index using floor
// division. Points in the same half-open cube map to the same key.
func keyForPoint(x, y, z float64, offset [3]float64, cellSize float64) Key {
	return Key{
		X: int(math.Floor((x - offset[0]) / cellSize)),
		Y: int(math.Floor((y - offset[1]) / cellSize)),
		Z: int(math.Floor((z - offset[2]) / cellSize)),
	}
}

// centerForKey returns the world-space center of a cell before the output
// transform is applied: key*cellSize + cellSize/2 + offset per axis.
func centerForKey(k Key, offset [3]float64, cellSize float64) (x, y, z float64) {
	half := cellSize / 2
	x = float64(k.X)*cellSize + half + offset[0]
	y = float64(k.Y)*cellSize + half + offset[1]
	z = float64(k.Z)*cellSize + half + offset[2]
	return
}

// sortKeys orders keys ascending by X, then Y, then Z in place.
func sortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
}

// neighborhood visits every key within radius of k in each axis, including k
// itself. Radius 0 visits only k.
func neighborhood(k Key, radius int, visit func(Key)) {
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			for dz := -radius; dz <= radius; dz++ {
				visit(Key{X: k.X + dx, Y: k.Y + dy, Z: k.Z + dz})
			}
		}
	}
}
