package voxel

import "errors"

// Precondition failures. These are rejected before any state is mutated;
// per-cell numeric degeneracies are never surfaced as errors.
var (
	// ErrInvalidCellSize reports a non-positive cell size at construction.
	ErrInvalidCellSize = errors.New("voxel: cell size must be positive")

	// ErrNegativeRadius reports a negative neighborhood radius.
	ErrNegativeRadius = errors.New("voxel: radius must be non-negative")

	// ErrDegenerateBounds reports equal input bounds on a linear rescale,
	// which would divide by zero.
	ErrDegenerateBounds = errors.New("voxel: input bounds must differ")

	// ErrCountMismatch reports grids with different valued-cell counts passed
	// to an operation that requires equal cardinality.
	ErrCountMismatch = errors.New("voxel: grids have different valued-cell counts")
)
