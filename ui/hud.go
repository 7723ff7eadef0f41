package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the side panel.
type HUDData struct {
	Title    string
	Tick     uint32
	Alive    bool
	HP       int32
	StartHP  int32
	Ability  uint32
	Lifetime uint32
	X, Y     int32
	Objects  int
	Speed    int
	FPS      int32
	Paused   bool

	// Last decision of the policy table.
	StateKey string
	Weights  []WeightBar

	// Cell under the mouse, if any.
	Hover []string

	Legend []LegendEntry
}

// LegendEntry is one object tag and its draw color.
type LegendEntry struct {
	Name  string
	Color rl.Color
}

// HUD renders the side panel.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a HUD drawn at x with the given width.
func NewHUD(x, y, width int32) *HUD {
	return &HUD{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (h *HUD) SetPosition(x, y int32) {
	h.x = x
	h.y = y
}

// Draw renders the panel and returns the Y below the last line.
func (h *HUD) Draw(data HUDData, height int32) int32 {
	r := h.renderer
	pad := r.Theme.Padding
	x := h.x + pad
	inner := h.width - pad*2

	r.DrawPanel(h.x, h.y, h.width, height)
	y := h.y + pad

	rl.DrawText(data.Title, x, y, 20, rl.White)
	y += 26

	status := "Running"
	statusColor := rl.Green
	switch {
	case !data.Alive:
		status, statusColor = "DEAD", rl.Red
	case data.Paused:
		status, statusColor = "PAUSED", rl.Yellow
	}
	rl.DrawText(status, x, y, 16, statusColor)
	y += 22

	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d", data.Tick))
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%dx  (%d fps)", data.Speed, data.FPS))
	y = r.DrawLabelValue(x, y, "Objects", fmt.Sprintf("%d", data.Objects))
	y += 6

	y = r.DrawSectionHeader(x, y, "Agent")
	y = r.DrawHPBar(x, y, "HP", float32(data.HP), float32(max(data.StartHP, data.HP)), inner)
	y = r.DrawLabelValue(x, y, "Ability", fmt.Sprintf("%d", data.Ability))
	y = r.DrawLabelValue(x, y, "Lifetime", fmt.Sprintf("%d", data.Lifetime))
	y = r.DrawLabelValue(x, y, "Cell", fmt.Sprintf("%d,%d", data.X, data.Y))
	y += 6

	if len(data.Weights) > 0 {
		y = r.DrawSectionHeader(x, y, "Policy")
		y = r.DrawLabel(x, y, truncate(data.StateKey, int(inner/7)))
		y = r.DrawWeights(x, y, data.Weights, inner)
		y += 6
	}

	if len(data.Hover) > 0 {
		y = r.DrawSectionHeader(x, y, "Cell")
		for _, line := range data.Hover {
			y = r.DrawLabel(x, y, line)
		}
		y += 6
	}

	if len(data.Legend) > 0 {
		y = r.DrawSectionHeader(x, y, "Legend")
		for _, e := range data.Legend {
			y = r.DrawColorSwatch(x, y, e.Name, e.Color)
		}
	}
	return y
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

func truncate(s string, n int) string {
	if n < 4 || len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
