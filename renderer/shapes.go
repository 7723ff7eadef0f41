// Package renderer draws simulation snapshots in a raylib window.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridlife/components"
)

// ColorOf converts an appearance color to a raylib color.
func ColorOf(a components.Appearance) rl.Color {
	return rl.Color{R: a.Color[0], G: a.Color[1], B: a.Color[2], A: a.Color[3]}
}

// ShapeExtent returns the on-screen size of a shape whose Size is given in
// pixels at baseCell, drawn in a cell cellPx pixels wide. Never larger than
// the cell and never smaller than one pixel.
func ShapeExtent(size uint8, baseCell, cellPx float32) float32 {
	if baseCell <= 0 {
		return cellPx
	}
	ext := float32(size) * cellPx / baseCell
	if ext > cellPx {
		ext = cellPx
	}
	if ext < 1 {
		ext = 1
	}
	return ext
}

// starPoints returns the ten vertices of a five-pointed star around center,
// starting at the top and going clockwise on screen.
func starPoints(center rl.Vector2, outer float32) [10]rl.Vector2 {
	var pts [10]rl.Vector2
	inner := outer * 0.4
	for i := range pts {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		angle := float32(i)*36*rl.Deg2rad - rl.Pi/2
		pts[i] = rl.Vector2{
			X: center.X + r*cosf(angle),
			Y: center.Y + r*sinf(angle),
		}
	}
	return pts
}

// drawShape draws one object shape centered in the cell at (sx, sy).
func drawShape(draw components.DrawType, sx, sy, cellPx, extent float32, color rl.Color) {
	cx := sx + cellPx/2
	cy := sy + cellPx/2
	half := extent / 2
	center := rl.Vector2{X: cx, Y: cy}

	switch draw {
	case components.DrawRect:
		rl.DrawRectangleRec(rl.Rectangle{X: cx - half, Y: cy - half, Width: extent, Height: extent}, color)
	case components.DrawRound:
		rl.DrawCircleV(center, half, color)
	case components.DrawCircle:
		rl.DrawCircleLines(int32(cx), int32(cy), half, color)
	case components.DrawPixel:
		rl.DrawRectangleRec(rl.Rectangle{X: cx - 1, Y: cy - 1, Width: 2, Height: 2}, color)
	case components.DrawStar:
		pts := starPoints(center, half)
		for i := range pts {
			next := pts[(i+1)%len(pts)]
			// fan from the center, wound counter-clockwise for raylib
			rl.DrawTriangle(center, next, pts[i], color)
		}
	case components.DrawLine:
		rl.DrawLineEx(rl.Vector2{X: cx - half, Y: cy + half}, rl.Vector2{X: cx + half, Y: cy - half}, 2, color)
	case components.DrawNone:
	}
}
