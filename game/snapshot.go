package game

import "github.com/pthm-cable/gridlife/components"

// Snapshot is a read-only copy of the world after a tick.
type Snapshot struct {
	Tick    uint32           `json:"tick"`
	Width   int32            `json:"width"`
	Height  int32            `json:"height"`
	Agent   components.Agent `json:"agent"`
	Objects []ObjectView     `json:"objects"`
}

// ObjectView is one live object as seen by a visualizer.
type ObjectView struct {
	Pos        components.Position   `json:"pos"`
	Object     components.Object     `json:"object"`
	Appearance components.Appearance `json:"appearance"`
}

// Observer receives snapshots. Observe is called on the simulation
// goroutine and must not block.
type Observer interface {
	Observe(Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

// Observe calls f(s).
func (f ObserverFunc) Observe(s Snapshot) {
	f(s)
}

// Snapshot copies the agent and every live object in spawn order.
func (g *Game) Snapshot() Snapshot {
	cfg := g.config()
	s := Snapshot{
		Tick:    g.tick,
		Width:   cfg.World.Width,
		Height:  cfg.World.Height,
		Agent:   g.agent,
		Objects: make([]ObjectView, 0, len(g.objects)),
	}
	for _, e := range g.objects {
		obj := g.objMap.Get(e)
		if !obj.Alive {
			continue
		}
		s.Objects = append(s.Objects, ObjectView{
			Pos:        *g.posMap.Get(e),
			Object:     *obj,
			Appearance: *g.appMap.Get(e),
		})
	}
	return s
}
