// Package camera provides a 2D camera for viewing the grid.
package camera

import "math"

// Camera controls the viewport into a bounded grid world.
// Supports pan and zoom; the view is kept over the world.
type Camera struct {
	// Position is the camera center in world pixels
	X, Y float32

	// Zoom level (1.0 = one cell is CellSize pixels)
	Zoom float32

	// Viewport dimensions (screen area used for the grid)
	ViewportW, ViewportH float32

	// Grid dimensions in cells and the unzoomed cell size in pixels
	Cols, Rows int32
	CellSize   float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the grid with 1:1 zoom.
func New(viewportW, viewportH float32, cols, rows int32, cellSize float32) *Camera {
	c := &Camera{
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		Cols:      cols,
		Rows:      rows,
		CellSize:  cellSize,
		MaxZoom:   4.0,
	}
	c.MinZoom = c.fitZoom()
	c.Reset()
	return c
}

// fitZoom is the zoom at which the whole grid fits the viewport.
func (c *Camera) fitZoom() float32 {
	zx := c.ViewportW / c.worldW()
	zy := c.ViewportH / c.worldH()
	z := zx
	if zy < z {
		z = zy
	}
	if z > 1 {
		return 1
	}
	return z
}

func (c *Camera) worldW() float32 { return float32(c.Cols) * c.CellSize }
func (c *Camera) worldH() float32 { return float32(c.Rows) * c.CellSize }

// CellToScreen returns the top-left screen corner of cell (x, y) and the
// on-screen cell size.
func (c *Camera) CellToScreen(x, y int32) (sx, sy, size float32) {
	wx := float32(x) * c.CellSize
	wy := float32(y) * c.CellSize
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy, c.CellSize * c.Zoom
}

// ScreenToCell converts a screen position to a cell. ok is false outside the grid.
func (c *Camera) ScreenToCell(sx, sy float32) (x, y int32, ok bool) {
	wx := c.X + (sx-c.ViewportW/2)/c.Zoom
	wy := c.Y + (sy-c.ViewportH/2)/c.Zoom
	if wx < 0 || wy < 0 || wx >= c.worldW() || wy >= c.worldH() {
		return 0, 0, false
	}
	return int32(math.Floor(float64(wx / c.CellSize))), int32(math.Floor(float64(wy / c.CellSize))), true
}

// IsVisible reports whether any part of cell (x, y) is on screen.
func (c *Camera) IsVisible(x, y int32) bool {
	sx, sy, size := c.CellToScreen(x, y)
	return sx+size >= 0 && sy+size >= 0 && sx <= c.ViewportW && sy <= c.ViewportH
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.fitZoom()
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	c.clampCenter()
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centers the camera and fits the grid when it is larger than the viewport.
func (c *Camera) Reset() {
	c.X = c.worldW() / 2
	c.Y = c.worldH() / 2
	c.Zoom = c.fitZoom()
}

// clampCenter keeps the view over the world. An axis smaller than the
// viewport stays centered.
func (c *Camera) clampCenter() {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	c.X = clampAxis(c.X, halfW, c.worldW())
	c.Y = clampAxis(c.Y, halfH, c.worldH())
}

func clampAxis(center, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return clamp(center, half, size-half)
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
