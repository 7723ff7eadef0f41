package camera

import (
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-3
}

func TestNew_FitsSmallGrid(t *testing.T) {
	cam := New(500, 500, 50, 50, 10)

	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0 for a grid that fits, got %f", cam.Zoom)
	}
	if cam.X != 250 || cam.Y != 250 {
		t.Errorf("expected camera at (250, 250), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestNew_ShrinksLargeGrid(t *testing.T) {
	cam := New(500, 400, 100, 100, 10)

	if !approx(cam.Zoom, 0.4) {
		t.Errorf("expected zoom 0.4, got %f", cam.Zoom)
	}
	if cam.MinZoom != cam.Zoom {
		t.Errorf("expected min zoom to equal fit zoom, got %f vs %f", cam.MinZoom, cam.Zoom)
	}
}

func TestCellToScreen_RoundTrip(t *testing.T) {
	cam := New(500, 500, 50, 50, 10)

	tests := []struct{ x, y int32 }{
		{0, 0}, {25, 25}, {49, 49}, {3, 40},
	}
	for _, tt := range tests {
		sx, sy, size := cam.CellToScreen(tt.x, tt.y)
		if size != 10 {
			t.Errorf("cell size: expected 10, got %f", size)
		}
		// sample the cell center
		x, y, ok := cam.ScreenToCell(sx+size/2, sy+size/2)
		if !ok || x != tt.x || y != tt.y {
			t.Errorf("cell (%d,%d): round trip gave (%d,%d) ok=%v", tt.x, tt.y, x, y, ok)
		}
	}
}

func TestScreenToCell_OutsideGrid(t *testing.T) {
	cam := New(800, 600, 10, 10, 10)

	if _, _, ok := cam.ScreenToCell(0, 0); ok {
		t.Error("expected top-left of a centered small grid to be outside")
	}
	if _, _, ok := cam.ScreenToCell(400, 300); !ok {
		t.Error("expected viewport center to be inside the grid")
	}
}

func TestPan_ClampsToWorld(t *testing.T) {
	cam := New(200, 200, 50, 50, 10)
	cam.SetZoom(1)

	cam.Pan(-10000, -10000)
	if cam.X != 100 || cam.Y != 100 {
		t.Errorf("expected clamp to (100, 100), got (%f, %f)", cam.X, cam.Y)
	}

	cam.Pan(10000, 10000)
	if cam.X != 400 || cam.Y != 400 {
		t.Errorf("expected clamp to (400, 400), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestZoom(t *testing.T) {
	cam := New(500, 500, 50, 50, 10)

	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}

	cam.SetZoom(0.01)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.Reset()
	cam.ZoomBy(2)
	if cam.Zoom != 2 {
		t.Errorf("expected zoom 2, got %f", cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(200, 200, 50, 50, 10)
	cam.SetZoom(1)

	if !cam.IsVisible(25, 25) {
		t.Error("center cell should be visible")
	}
	if cam.IsVisible(0, 0) {
		t.Error("corner cell should be off screen when zoomed in")
	}
}

func TestResize(t *testing.T) {
	cam := New(500, 500, 50, 50, 10)
	cam.Resize(250, 250)

	if !approx(cam.MinZoom, 0.5) {
		t.Errorf("expected min zoom 0.5, got %f", cam.MinZoom)
	}
	if cam.Zoom < cam.MinZoom {
		t.Errorf("zoom %f below min %f", cam.Zoom, cam.MinZoom)
	}
}
