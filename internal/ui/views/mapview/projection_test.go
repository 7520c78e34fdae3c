package mapview

import (
	"math"
	"testing"
)

func TestProjectCentre(t *testing.T) {
	t.Parallel()
	col, row, ok := Project(38.7, -9.1, 12, 40, 20, 38.7, -9.1)
	if !ok || col != 20 || row != 10 {
		t.Fatalf("centre should land mid-grid, got %d,%d ok=%v", col, row, ok)
	}
}

func TestProjectUnprojectRoundTrip(t *testing.T) {
	t.Parallel()
	for _, cell := range [][2]int{{0, 0}, {5, 3}, {39, 19}, {20, 10}} {
		lat, lng := Unproject(38.7, -9.1, 12, 40, 20, cell[0], cell[1])
		col, row, ok := Project(38.7, -9.1, 12, 40, 20, lat, lng)
		if !ok || col != cell[0] || row != cell[1] {
			t.Fatalf("cell %v came back as %d,%d ok=%v", cell, col, row, ok)
		}
	}
}

func TestProjectOutside(t *testing.T) {
	t.Parallel()
	if _, _, ok := Project(0, 0, 12, 40, 20, 10, 10); ok {
		t.Fatalf("far position must be outside the grid")
	}
}

func TestNorthIsUp(t *testing.T) {
	t.Parallel()
	_, row, _ := Project(0, 0, 10, 40, 20, LatStep(10), 0)
	if row != 9 {
		t.Fatalf("one step north should be one row up, got row %d", row)
	}
}

func TestUnprojectWrapsAndClamps(t *testing.T) {
	t.Parallel()
	lat, lng := Unproject(89.9, 179.9, 1, 40, 20, 39, 0)
	if lat > 90 || lng > 180 || lng < -180 || math.IsNaN(lng) {
		t.Fatalf("unexpected position %v,%v", lat, lng)
	}
}
