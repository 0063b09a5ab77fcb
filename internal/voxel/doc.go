// Package voxel owns the sparse voxel scalar field: a regular 3-D grid of
// fixed-size cubic cells that bins irregularly-sampled point measurements,
// reduces each cell's raw samples to a single statistic, and applies
// whole-grid transforms (normalisation, remapping, clamping, sigmoid,
// column-wise normalisation, custom point-wise functions) plus a Getis-Ord
// Gi* hotspot statistic.
//
// Responsibilities: coordinate binning, concurrent batch ingestion,
// neighborhood aggregation, value transforms, summary statistics.
// Key types: Key, Cell, Grid, Policy.
//
// The package has no network or disk surface. Snapshot persistence lives in
// internal/voxeldb; rendering and file parsing belong to callers.
package voxel
