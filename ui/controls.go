package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// PlaybackState is the viewer's playback settings after a frame.
type PlaybackState struct {
	Paused  bool
	Step    bool // advance one tick while paused
	Restart bool
	Speed   int // ticks per frame
}

// ControlsPanel draws the playback buttons and speed slider.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	maxSpeed int
}

// NewControlsPanel creates a controls panel.
func NewControlsPanel(x, y, width int32, maxSpeed int) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		maxSpeed: max(maxSpeed, 1),
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Height is the vertical space the panel uses.
func (c *ControlsPanel) Height() int32 {
	return 90
}

// Draw renders the controls and returns the updated state. Step and
// Restart are only set for the frame they were clicked in.
func (c *ControlsPanel) Draw(state PlaybackState) PlaybackState {
	state.Step = false
	state.Restart = false

	pad := float32(c.renderer.Theme.Padding)
	x := float32(c.x) + pad
	y := float32(c.y)
	btnW := (float32(c.width) - pad*4) / 3

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: btnW, Height: 28}, toggleText(state.Paused, "Play", "Pause")) {
		state.Paused = !state.Paused
	}
	if gui.Button(rl.Rectangle{X: x + btnW + pad, Y: y, Width: btnW, Height: 28}, "Step") {
		state.Paused = true
		state.Step = true
	}
	if gui.Button(rl.Rectangle{X: x + (btnW+pad)*2, Y: y, Width: btnW, Height: 28}, "Restart") {
		state.Restart = true
	}
	y += 40

	rl.DrawText("Ticks per frame", int32(x), int32(y), 12, c.renderer.Theme.LabelColor)
	y += 16
	sliderW := float32(c.width) - pad*2 - 40
	speed := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: sliderW, Height: 16},
		"", "",
		float32(state.Speed), 1, float32(c.maxSpeed),
	)
	state.Speed = ClampSpeed(int(speed+0.5), c.maxSpeed)
	rl.DrawText(fmt.Sprintf("%d", state.Speed), int32(x+sliderW+6), int32(y), 14, c.renderer.Theme.ValueColor)

	return state
}

// HandleKeys applies keyboard shortcuts to state.
func (c *ControlsPanel) HandleKeys(state PlaybackState) PlaybackState {
	if rl.IsKeyPressed(rl.KeySpace) {
		state.Paused = !state.Paused
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		state.Paused = true
		state.Step = true
	}
	if rl.IsKeyPressed(rl.KeyR) {
		state.Restart = true
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		state.Speed = ClampSpeed(state.Speed*2, c.maxSpeed)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		state.Speed = ClampSpeed(state.Speed/2, c.maxSpeed)
	}
	return state
}

// ClampSpeed bounds a ticks-per-frame value to [1, maxSpeed].
func ClampSpeed(speed, maxSpeed int) int {
	if maxSpeed < 1 {
		maxSpeed = 1
	}
	return min(max(speed, 1), maxSpeed)
}

// TicksThisFrame returns how many simulation steps the viewer runs.
func (s PlaybackState) TicksThisFrame() int {
	switch {
	case s.Step:
		return 1
	case s.Paused:
		return 0
	default:
		return max(s.Speed, 1)
	}
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
