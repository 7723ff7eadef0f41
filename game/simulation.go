package game

import (
	"github.com/pthm-cable/gridlife/components"
	"github.com/pthm-cable/gridlife/systems"
)

// Step runs one tick. It does nothing once the agent is dead.
func (g *Game) Step() {
	if !g.agent.Alive {
		return
	}

	// Phase 1: perceive and decide
	action := g.table.Decide(g.tick, g.agent, g.visible(), g.rng)
	g.agent.Pending = action

	// Phase 2: auto-interaction with co-located objects
	g.interactAt(g.agent.Pos, true)

	// Phase 3: execute the chosen action (phase 4 rolls happen inside)
	g.execute(action)

	// Phase 5: passive decay
	if g.agent.Alive {
		g.agent.Lifetime++
		g.agent.Consume(1)
	}

	// Phase 6: garbage collection
	g.cleanupDead()

	g.tick++
	if g.observer != nil {
		g.observer.Observe(g.Snapshot())
	}
}

// visible gathers sightings of live objects within the agent's view radius.
func (g *Game) visible() []components.Sighting {
	g.nearby = g.grid.QueryBoxInto(g.nearby[:0], g.agent.Pos, g.agent.ViewRadius)

	g.sightings = g.sightings[:0]
	for _, e := range g.nearby {
		obj := g.objMap.Get(e)
		if !obj.Alive {
			continue
		}
		g.sightings = append(g.sightings, components.Sighting{Tag: obj.Tag, Pos: *g.posMap.Get(e)})
	}
	return systems.Visible(g.agent.Pos, g.agent.ViewRadius, g.sightings)
}

// execute applies the agent's action for this tick.
func (g *Game) execute(action components.Action) {
	if !g.agent.Alive {
		return
	}
	cfg := g.config()

	switch action {
	case components.MoveUp, components.MoveDown, components.MoveLeft, components.MoveRight:
		dx, dy := systems.Step(action)
		g.agent.Pos = systems.Move(g.agent.Pos, dx, dy, cfg.World.Width, cfg.World.Height)
	case components.Interact:
		g.interactAt(g.agent.Pos, false)
	case components.Build:
		g.build()
	case components.Wait:
	}
}

// interactAt resolves a roll against every live object at pos whose
// auto-interact flag equals auto, in spawn order.
func (g *Game) interactAt(pos components.Position, auto bool) {
	rollSides := g.config().Interaction.RollSides
	for _, e := range g.grid.At(pos) {
		if !g.agent.Alive {
			return
		}
		obj := g.objMap.Get(e)
		if !obj.Alive || obj.AutoInteract != auto {
			continue
		}
		switch systems.Resolve(&g.agent, obj, g.rng, rollSides) {
		case systems.OutcomeSuccess:
			g.stats.Successes++
		case systems.OutcomeFailure:
			g.stats.Failures++
		}
	}
}

// build pays the build cost and spawns a structure. It is refused when the
// cost would kill the agent unless build.allow_fatal is set.
func (g *Game) build() {
	cfg := g.config()
	if g.agent.HP <= cfg.Build.Cost && !cfg.Build.AllowFatal {
		g.stats.RefusedBuild++
		return
	}

	g.agent.Consume(cfg.Build.Cost)
	pos := g.agent.Pos
	if cfg.Build.SpawnAtOrigin {
		pos = components.Position{}
	}
	if _, ok := g.spawnObject(components.TagStructure, pos); ok {
		g.stats.Builds++
	}
}
