package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridlife/camera"
	"github.com/pthm-cable/gridlife/game"
)

// GridRenderer draws a snapshot through a camera.
type GridRenderer struct {
	cam      *camera.Camera
	baseCell float32

	Background rl.Color
	GridLine   rl.Color
	AgentColor rl.Color
	DeadColor  rl.Color
	ViewColor  rl.Color
	ShowView   bool
}

// NewGridRenderer creates a renderer. baseCell is the cell size object
// sizes are expressed in.
func NewGridRenderer(cam *camera.Camera, baseCell float32) *GridRenderer {
	return &GridRenderer{
		cam:        cam,
		baseCell:   baseCell,
		Background: rl.Color{R: 15, G: 18, B: 22, A: 255},
		GridLine:   rl.Color{R: 35, G: 40, B: 48, A: 255},
		AgentColor: rl.Color{R: 240, G: 240, B: 255, A: 255},
		DeadColor:  rl.Color{R: 120, G: 60, B: 60, A: 255},
		ViewColor:  rl.Color{R: 240, G: 240, B: 255, A: 60},
		ShowView:   true,
	}
}

// Draw renders the grid, every object and the agent.
func (r *GridRenderer) Draw(s game.Snapshot) {
	c := r.cam
	rl.BeginScissorMode(0, 0, int32(c.ViewportW), int32(c.ViewportH))
	defer rl.EndScissorMode()

	ox, oy, cell := c.CellToScreen(0, 0)
	w := float32(s.Width) * cell
	h := float32(s.Height) * cell
	rl.DrawRectangleRec(rl.Rectangle{X: ox, Y: oy, Width: w, Height: h}, r.Background)

	// Grid lines only when cells are large enough to read
	if cell >= 6 {
		for x := int32(0); x <= s.Width; x++ {
			px := ox + float32(x)*cell
			rl.DrawLineV(rl.Vector2{X: px, Y: oy}, rl.Vector2{X: px, Y: oy + h}, r.GridLine)
		}
		for y := int32(0); y <= s.Height; y++ {
			py := oy + float32(y)*cell
			rl.DrawLineV(rl.Vector2{X: ox, Y: py}, rl.Vector2{X: ox + w, Y: py}, r.GridLine)
		}
	}

	for _, o := range s.Objects {
		if !c.IsVisible(o.Pos.X, o.Pos.Y) {
			continue
		}
		sx, sy, size := c.CellToScreen(o.Pos.X, o.Pos.Y)
		drawShape(o.Appearance.Draw, sx, sy, size, ShapeExtent(o.Appearance.Size, r.baseCell, size), ColorOf(o.Appearance))
	}

	r.drawAgent(s)
}

func (r *GridRenderer) drawAgent(s game.Snapshot) {
	a := s.Agent
	sx, sy, cell := r.cam.CellToScreen(a.Pos.X, a.Pos.Y)
	center := rl.Vector2{X: sx + cell/2, Y: sy + cell/2}

	if r.ShowView && a.Alive {
		reach := (float32(a.ViewRadius) + 0.5) * cell
		corners := [4]rl.Vector2{
			{X: center.X, Y: center.Y - reach},
			{X: center.X + reach, Y: center.Y},
			{X: center.X, Y: center.Y + reach},
			{X: center.X - reach, Y: center.Y},
		}
		for i := range corners {
			rl.DrawLineV(corners[i], corners[(i+1)%4], r.ViewColor)
		}
	}

	color := r.AgentColor
	if !a.Alive {
		color = r.DeadColor
	}
	radius := cell * 0.35
	if radius < 2 {
		radius = 2
	}
	rl.DrawCircleV(center, radius, color)
	rl.DrawCircleLines(int32(center.X), int32(center.Y), radius, rl.Black)
}
