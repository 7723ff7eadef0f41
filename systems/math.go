package systems

import "github.com/pthm-cable/gridlife/components"

// clampInt64 clamps v between minVal and maxVal.
func clampInt64(v, minVal, maxVal int64) int64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// Manhattan returns the grid distance between two cells.
func Manhattan(a, b components.Position) uint32 {
	dx := int64(b.X) - int64(a.X)
	dy := int64(b.Y) - int64(a.Y)
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	d := dx + dy
	if d > 1<<32-1 {
		return 1<<32 - 1
	}
	return uint32(d)
}

// InView reports whether at lies within radius of from.
func InView(from components.Position, radius uint32, at components.Position) bool {
	return Manhattan(from, at) <= radius
}

// ClampPosition pins p into [0,width-1] x [0,height-1].
func ClampPosition(p components.Position, width, height int32) components.Position {
	return components.Position{
		X: int32(clampInt64(int64(p.X), 0, int64(width)-1)),
		Y: int32(clampInt64(int64(p.Y), 0, int64(height)-1)),
	}
}

// Move translates p by (dx, dy) and clamps the result into the grid.
// The sum is computed in 64 bits so any increment is safe.
func Move(p components.Position, dx, dy, width, height int32) components.Position {
	return components.Position{
		X: int32(clampInt64(int64(p.X)+int64(dx), 0, int64(width)-1)),
		Y: int32(clampInt64(int64(p.Y)+int64(dy), 0, int64(height)-1)),
	}
}

// Step returns the unit vector for a move action, or (0,0) for anything else.
func Step(a components.Action) (dx, dy int32) {
	switch a {
	case components.MoveUp:
		return 0, -1
	case components.MoveDown:
		return 0, 1
	case components.MoveLeft:
		return -1, 0
	case components.MoveRight:
		return 1, 0
	}
	return 0, 0
}
