package voxel

import "testing"

func TestSnapshotIsDetachedAndOrdered(t *testing.T) {
	g := mustGrid(t, 1.0)
	g.AddPoint(1.5, 0.5, 0.5, 2)
	g.AddPoint(0.5, 0.5, 0.5, 1)
	if err := g.Aggregate(Mean, 0); err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	snap := g.Snapshot()
	if len(snap.Cells) != 2 {
		t.Fatalf("expected 2 cells in snapshot, got %d", len(snap.Cells))
	}
	for i := 1; i < len(snap.Cells); i++ {
		if !snap.Cells[i-1].Key.Less(snap.Cells[i].Key) {
			t.Fatalf("snapshot cells not in key order")
		}
	}
	if snap.Cells[0].RawCount != 1 {
		t.Fatalf("expected raw count 1, got %d", snap.Cells[0].RawCount)
	}

	// mutating the grid afterwards must not alter the snapshot
	g.SetConstant(50)
	if snap.Cells[0].Value != 1 {
		t.Fatalf("snapshot mutated with the grid")
	}
}

func TestFromSnapshot(t *testing.T) {
	g := mustGrid(t, 2.0)
	g.SetOffset(1, 1, 1)
	g.AddPoint(1.5, 1.5, 1.5, 4)
	g.AddPoint(3.5, 1.5, 1.5, 8)
	if err := g.Aggregate(Mean, 0); err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	rebuilt, err := FromSnapshot(g.Snapshot())
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}

	if rebuilt.CellSize() != 2.0 {
		t.Fatalf("cell size lost: %v", rebuilt.CellSize())
	}
	if got, want := rebuilt.Values(), g.Values(); len(got) != len(want) {
		t.Fatalf("value count mismatch: %d vs %d", len(got), len(want))
	} else {
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("value %d: expected %+v, got %+v", i, want[i], got[i])
			}
		}
	}
	if rebuilt.Stats() != g.Stats() {
		t.Fatalf("statistics differ after rebuild: %+v vs %+v", rebuilt.Stats(), g.Stats())
	}

	if _, err := FromSnapshot(Snapshot{CellSize: 0}); err != ErrInvalidCellSize {
		t.Fatalf("expected ErrInvalidCellSize, got %v", err)
	}
}
