package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridlife/camera"
	"github.com/pthm-cable/gridlife/components"
	"github.com/pthm-cable/gridlife/config"
	"github.com/pthm-cable/gridlife/game"
	"github.com/pthm-cable/gridlife/policy"
	"github.com/pthm-cable/gridlife/ui"
)

const controlsHelp = "Space: pause | .: step | R: restart | +/-: speed | Wheel: zoom | RMB: pan | V: view | Home: reset"

// Viewer composes the grid, side panel and playback controls of the
// replay window. It must be used after rl.InitWindow.
type Viewer struct {
	cfg      *config.Config
	cam      *camera.Camera
	grid     *GridRenderer
	hud      *ui.HUD
	controls *ui.ControlsPanel
	legend   []ui.LegendEntry

	screenW, screenH int32
	state            ui.PlaybackState
}

// NewViewer creates a viewer for a screenW x screenH window.
func NewViewer(cfg *config.Config, screenW, screenH int32) *Viewer {
	panelW := cfg.Visualizer.PanelWidth
	gridW := float32(screenW - panelW)
	cam := camera.New(gridW, float32(screenH), cfg.World.Width, cfg.World.Height, float32(cfg.Visualizer.CellSize))

	maxSpeed := max(cfg.Visualizer.TicksPerDraw*16, 64)
	v := &Viewer{
		cfg:      cfg,
		cam:      cam,
		grid:     NewGridRenderer(cam, float32(cfg.Visualizer.CellSize)),
		hud:      ui.NewHUD(screenW-panelW, 0, panelW),
		controls: ui.NewControlsPanel(screenW-panelW, screenH-100, panelW, maxSpeed),
		legend:   Legend(cfg),
		screenW:  screenW,
		screenH:  screenH,
		state:    ui.PlaybackState{Speed: ui.ClampSpeed(cfg.Visualizer.TicksPerDraw, maxSpeed)},
	}
	return v
}

// WindowSize returns a window size that shows the whole grid at the
// configured cell size, capped to a sensible default.
func WindowSize(cfg *config.Config) (int32, int32) {
	w := cfg.World.Width*cfg.Visualizer.CellSize + cfg.Visualizer.PanelWidth
	h := cfg.World.Height * cfg.Visualizer.CellSize
	return min(max(w, 640), 1600), min(max(h, 520), 1000)
}

// State returns the current playback state.
func (v *Viewer) State() ui.PlaybackState {
	return v.state
}

// Input applies keyboard and mouse input and returns the playback state
// for this frame.
func (v *Viewer) Input() ui.PlaybackState {
	v.state = v.controls.HandleKeys(v.state)

	mouse := rl.GetMousePosition()
	inGrid := mouse.X < v.cam.ViewportW
	if inGrid {
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			v.cam.ZoomBy(1 + wheel*0.1)
		}
		if rl.IsMouseButtonDown(rl.MouseButtonRight) {
			d := rl.GetMouseDelta()
			v.cam.Pan(-d.X, -d.Y)
		}
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		v.cam.Reset()
	}
	if rl.IsKeyPressed(rl.KeyV) {
		v.grid.ShowView = !v.grid.ShowView
	}
	return v.state
}

// Draw renders one frame. table may be nil.
func (v *Viewer) Draw(s game.Snapshot, table *policy.Table) {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(rl.Black)
	v.grid.Draw(s)

	data := ui.HUDData{
		Title:    "gridlife",
		Tick:     s.Tick,
		Alive:    s.Agent.Alive,
		HP:       s.Agent.HP,
		StartHP:  v.cfg.Agent.HP,
		Ability:  s.Agent.Ability,
		Lifetime: s.Agent.Lifetime,
		X:        s.Agent.Pos.X,
		Y:        s.Agent.Pos.Y,
		Objects:  len(s.Objects),
		Speed:    v.state.Speed,
		FPS:      rl.GetFPS(),
		Paused:   v.state.Paused,
		Legend:   v.legend,
	}
	if table != nil {
		if d, ok := table.LastDecision(); ok {
			if p, ok := table.Lookup(d.Key); ok {
				data.StateKey = string(d.Key)
				data.Weights = WeightBars(*p, d.Action)
			}
		}
	}
	mouse := rl.GetMousePosition()
	if mouse.X < v.cam.ViewportW {
		if x, y, ok := v.cam.ScreenToCell(mouse.X, mouse.Y); ok {
			data.Hover = HoverLines(s, x, y)
		}
	}

	v.hud.Draw(data, v.screenH)
	v.state = v.controls.Draw(v.state)
	v.hud.DrawControls(v.screenH, controlsHelp)
}

// ClearOneShot resets Step and Restart after the frame acted on them.
func (v *Viewer) ClearOneShot() {
	v.state.Step = false
	v.state.Restart = false
}

// Legend lists every configured object tag with its color.
func Legend(cfg *config.Config) []ui.LegendEntry {
	out := make([]ui.LegendEntry, 0, len(cfg.Objects))
	for _, obj := range cfg.Objects {
		out = append(out, ui.LegendEntry{
			Name:  obj.Tag,
			Color: rl.Color{R: obj.Color[0], G: obj.Color[1], B: obj.Color[2], A: 255},
		})
	}
	return out
}

// WeightBars lists every action's weight in canonical order.
func WeightBars(p policy.WeightedPolicy, chosen components.Action) []ui.WeightBar {
	actions := components.AllActions()
	out := make([]ui.WeightBar, len(actions))
	for i, a := range actions {
		out[i] = ui.WeightBar{Name: a.String(), Weight: p.Weight(a), Chosen: a == chosen}
	}
	return out
}

// HoverLines describes the contents of cell (x, y).
func HoverLines(s game.Snapshot, x, y int32) []string {
	lines := []string{fmt.Sprintf("(%d,%d)", x, y)}
	if s.Agent.Pos.X == x && s.Agent.Pos.Y == y {
		lines = append(lines, fmt.Sprintf("agent hp=%d", s.Agent.HP))
	}
	for _, o := range s.Objects {
		if o.Pos.X != x || o.Pos.Y != y {
			continue
		}
		auto := ""
		if o.Object.AutoInteract {
			auto = " auto"
		}
		lines = append(lines, fmt.Sprintf("%s hp=%d diff=%d%s", o.Object.Tag, o.Object.HP, o.Object.Difficulty, auto))
	}
	return lines
}
