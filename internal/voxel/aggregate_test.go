package voxel

import (
	"math"
	"testing"
)

func TestAggregateRejectsNegativeRadius(t *testing.T) {
	g := mustGrid(t, 1.0)
	g.AddPoint(0.5, 0.5, 0.5, 1)
	if err := g.Aggregate(Mean, -1); err != ErrNegativeRadius {
		t.Fatalf("expected ErrNegativeRadius, got %v", err)
	}
	// the rejected call must not have assigned values
	c, _ := g.Cell(Key{})
	if c.Valid {
		t.Fatalf("value assigned despite precondition failure")
	}
}

func TestAggregatePolicies(t *testing.T) {
	samples := []float64{1, 2, 3, 4}
	cases := []struct {
		policy Policy
		want   float64
	}{
		{Mean, 2.5},
		{Sum, 10},
		{StdDev, math.Sqrt(1.25)}, // population: var = ((1.5)^2+(0.5)^2+(0.5)^2+(1.5)^2)/4
		{Count, 4},
	}
	for _, tc := range cases {
		g := mustGrid(t, 1.0)
		for _, v := range samples {
			g.AddPoint(0.5, 0.5, 0.5, v)
		}
		if err := g.Aggregate(tc.policy, 0); err != nil {
			t.Fatalf("%v: Aggregate: %v", tc.policy, err)
		}
		c, _ := g.Cell(Key{})
		if !c.Valid {
			t.Fatalf("%v: no value assigned", tc.policy)
		}
		if math.Abs(c.Value-tc.want) > 1e-12 {
			t.Fatalf("%v: expected %v, got %v", tc.policy, tc.want, c.Value)
		}
	}
}

// Neighborhood pooling: every raw sample within the cube is counted exactly
// once, the cell's own samples included.
func TestAggregateNeighborhoodPooling(t *testing.T) {
	g := mustGrid(t, 1.0)
	g.AddPoint(0.5, 0.5, 0.5, 1)
	g.AddPoint(0.5, 0.5, 0.5, 2)
	g.AddPoint(1.5, 0.5, 0.5, 3)
	g.AddPoint(5.5, 5.5, 5.5, 10) // isolated

	if err := g.Aggregate(Sum, 1); err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	a, _ := g.Cell(Key{})
	if a.Value != 6 {
		t.Fatalf("cell (0,0,0): expected pooled sum 6, got %v", a.Value)
	}
	b, _ := g.Cell(Key{X: 1})
	if b.Value != 6 {
		t.Fatalf("cell (1,0,0): expected pooled sum 6, got %v", b.Value)
	}
	iso, _ := g.Cell(Key{X: 5, Y: 5, Z: 5})
	if iso.Value != 10 {
		t.Fatalf("isolated cell: expected 10, got %v", iso.Value)
	}
}

// A reduction with no defined result leaves the cell present but unvalued,
// and the cell does not contribute to statistics.
func TestAggregateUndefinedReduction(t *testing.T) {
	g := mustGrid(t, 1.0)
	g.AddPoint(0.5, 0.5, 0.5, 1) // single sample: skewness undefined
	g.AddPoint(5.5, 5.5, 5.5, 1)
	g.AddPoint(5.5, 5.5, 5.5, 2)
	g.AddPoint(5.5, 5.5, 5.5, 4)

	if err := g.Aggregate(Skewness, 0); err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if g.CellCount() != 2 {
		t.Fatalf("undefined reduction removed a cell")
	}
	c, _ := g.Cell(Key{})
	if c.Valid {
		t.Fatalf("single-sample skewness produced a value: %v", c.Value)
	}
	if s := g.Stats(); s.Count != 1 {
		t.Fatalf("expected 1 valued cell in statistics, got %d", s.Count)
	}
}

func TestAggregateRadiusZeroIgnoresNeighbors(t *testing.T) {
	g := mustGrid(t, 1.0)
	g.AddPoint(0.5, 0.5, 0.5, 1)
	g.AddPoint(1.5, 0.5, 0.5, 100)

	if err := g.Aggregate(Mean, 0); err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	c, _ := g.Cell(Key{})
	if c.Value != 1 {
		t.Fatalf("radius 0 leaked neighbor samples: %v", c.Value)
	}
}

func TestPolicyString(t *testing.T) {
	names := map[Policy]string{Mean: "mean", Sum: "sum", StdDev: "stddev", Skewness: "skewness", Count: "count"}
	for p, want := range names {
		if p.String() != want {
			t.Fatalf("Policy(%d).String() = %q, want %q", int(p), p.String(), want)
		}
	}
}
