package voxeldb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/banshee-data/voxelgrid/internal/voxel"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func buildGrid(t *testing.T) *voxel.Grid {
	t.Helper()
	g, err := voxel.NewWithOffset(0.5, 1, 2, 3)
	require.NoError(t, err)
	g.AddPoints([]voxel.Point{
		{X: 1.1, Y: 2.1, Z: 3.1, V: 4},
		{X: 1.1, Y: 2.1, Z: 3.1, V: 6},
		{X: 2.1, Y: 2.1, Z: 3.1, V: 10},
	})
	require.NoError(t, g.Aggregate(voxel.Mean, 0))
	return g
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := openTestStore(t)
	g := buildGrid(t)

	shift := voxel.IdentityTransform()
	shift[7] = -2.5
	g.SetTransform(shift)

	id, err := store.SaveSnapshot(g, "grid-a", "test")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	loaded, err := store.LoadSnapshot(id)
	require.NoError(t, err)

	require.Equal(t, g.CellSize(), loaded.CellSize())
	ox, oy, oz := loaded.Offset()
	require.Equal(t, [3]float64{1, 2, 3}, [3]float64{ox, oy, oz})
	require.Equal(t, shift, loaded.Transform())
	require.Equal(t, g.Values(), loaded.Values())
	require.Equal(t, g.Stats(), loaded.Stats())
}

func TestLatestSnapshotPicksNewest(t *testing.T) {
	store := openTestStore(t)
	g := buildGrid(t)

	_, err := store.SaveSnapshot(g, "grid-a", "first")
	require.NoError(t, err)

	g.SetConstant(99)
	_, err = store.SaveSnapshot(g, "grid-a", "second")
	require.NoError(t, err)

	loaded, err := store.LatestSnapshot("grid-a")
	require.NoError(t, err)
	for _, kv := range loaded.Values() {
		require.Equal(t, 99.0, kv.Value)
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	store := openTestStore(t)
	_, err := store.LoadSnapshot("no-such-id")
	require.Error(t, err)
}

func TestSnapshotDoesNotPersistRawSamples(t *testing.T) {
	store := openTestStore(t)
	g := buildGrid(t)

	id, err := store.SaveSnapshot(g, "grid-a", "test")
	require.NoError(t, err)

	loaded, err := store.LoadSnapshot(id)
	require.NoError(t, err)

	c, ok := loaded.Cell(voxel.Key{})
	require.True(t, ok)
	require.Empty(t, c.Raw)
	require.True(t, c.Valid)
}
