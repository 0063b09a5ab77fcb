// Package voxeldb persists voxel grid snapshots to sqlite. The cell state is
// stored as a gob-encoded, gzip-compressed blob alongside the grid's binning
// parameters, so a grid can be reconstructed with its reduced values intact.
package voxeldb

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	_ "embed"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/voxelgrid/internal/voxel"
)

//go:embed schema.sql
var schemaSQL string

// Store is a sqlite-backed snapshot store.
type Store struct {
	*sql.DB
}

// Open opens (creating if needed) the snapshot database at path. The path
// ":memory:" gives an in-memory store for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialise snapshot schema: %w", err)
	}
	return &Store{db}, nil
}

// SaveSnapshot copies the grid's state (under its read lock), serialises it,
// and inserts a snapshot row. It returns the new snapshot's ID.
func (s *Store) SaveSnapshot(g *voxel.Grid, gridID, reason string) (string, error) {
	snap := g.Snapshot()

	blob, err := serializeCells(snap.Cells)
	if err != nil {
		return "", fmt.Errorf("serialise cells: %w", err)
	}
	transformJSON, err := json.Marshal(snap.Transform)
	if err != nil {
		return "", fmt.Errorf("marshal transform: %w", err)
	}

	id := uuid.NewString()
	_, err = s.Exec(`
		INSERT INTO voxel_snapshots
			(snapshot_id, grid_id, taken_unix_nanos, cell_size,
			 offset_x, offset_y, offset_z, transform_json,
			 cell_count, reason, grid_blob)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, gridID, time.Now().UnixNano(), snap.CellSize,
		snap.Offset[0], snap.Offset[1], snap.Offset[2], string(transformJSON),
		len(snap.Cells), reason, blob)
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}
	return id, nil
}

// LoadSnapshot reconstructs the grid stored under the given snapshot ID.
// Cells come back with their reduced values; raw samples are not persisted.
func (s *Store) LoadSnapshot(id string) (*voxel.Grid, error) {
	row := s.QueryRow(`
		SELECT cell_size, offset_x, offset_y, offset_z, transform_json, grid_blob
		FROM voxel_snapshots WHERE snapshot_id = ?`, id)
	return scanSnapshot(row)
}

// LatestSnapshot reconstructs the most recent snapshot taken for gridID.
func (s *Store) LatestSnapshot(gridID string) (*voxel.Grid, error) {
	row := s.QueryRow(`
		SELECT cell_size, offset_x, offset_y, offset_z, transform_json, grid_blob
		FROM voxel_snapshots WHERE grid_id = ?
		ORDER BY taken_unix_nanos DESC, rowid DESC LIMIT 1`, gridID)
	return scanSnapshot(row)
}

func scanSnapshot(row *sql.Row) (*voxel.Grid, error) {
	var (
		cellSize      float64
		ox, oy, oz    float64
		transformJSON string
		blob          []byte
	)
	if err := row.Scan(&cellSize, &ox, &oy, &oz, &transformJSON, &blob); err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}

	var transform voxel.Transform
	if err := json.Unmarshal([]byte(transformJSON), &transform); err != nil {
		return nil, fmt.Errorf("unmarshal transform: %w", err)
	}
	cells, err := deserializeCells(blob)
	if err != nil {
		return nil, err
	}

	return voxel.FromSnapshot(voxel.Snapshot{
		CellSize:  cellSize,
		Offset:    [3]float64{ox, oy, oz},
		Transform: transform,
		Cells:     cells,
	})
}

// serializeCells compresses cell state using gob encoding and gzip.
func serializeCells(cells []voxel.CellState) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := gob.NewEncoder(gz)
	if err := enc.Encode(cells); err != nil {
		gz.Close()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// deserializeCells decompresses and decodes cell state from a gob+gzip blob.
func deserializeCells(blob []byte) ([]voxel.CellState, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("empty grid blob")
	}
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("create gzip reader: %w", err)
	}
	defer gz.Close()

	var cells []voxel.CellState
	if err := gob.NewDecoder(gz).Decode(&cells); err != nil {
		return nil, fmt.Errorf("decode grid cells: %w", err)
	}
	return cells, nil
}
