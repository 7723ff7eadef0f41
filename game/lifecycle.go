package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gridlife/components"
	"github.com/pthm-cable/gridlife/systems"
)

// spawnAgent places the agent at the configured spawn cell.
func (g *Game) spawnAgent() {
	cfg := g.config()
	g.agent = components.Agent{
		Alive:      cfg.Agent.HP > 0,
		HP:         cfg.Agent.HP,
		Ability:    cfg.Agent.Ability,
		ViewRadius: cfg.Agent.ViewRadius,
		Pos: systems.ClampPosition(
			components.Position{X: cfg.Agent.SpawnX, Y: cfg.Agent.SpawnY},
			cfg.World.Width, cfg.World.Height,
		),
		Pending: components.Wait,
	}
}

// spawnObject creates an object entity from its template.
func (g *Game) spawnObject(tag components.ObjectTag, pos components.Position) (ecs.Entity, bool) {
	obj, app, ok := systems.Spawn(g.config(), tag)
	if !ok {
		slog.Warn("no template for object", "tag", tag)
		return ecs.Entity{}, false
	}
	cfg := g.config()
	pos = systems.ClampPosition(pos, cfg.World.Width, cfg.World.Height)

	e := g.objectMapper.NewEntity(&pos, &obj, &app)
	g.objects = append(g.objects, e)
	g.grid.Insert(e, pos)
	return e, true
}

// cleanupDead removes objects whose hp reached zero. Survivors keep their
// relative order.
func (g *Game) cleanupDead() {
	// First pass: collect survivors and dead entities
	survivors := g.objects[:0]
	var toRemove []ecs.Entity
	for _, e := range g.objects {
		if g.objMap.Get(e).Alive {
			survivors = append(survivors, e)
		} else {
			toRemove = append(toRemove, e)
		}
	}
	if len(toRemove) == 0 {
		return
	}

	// Second pass: remove entities and reindex
	for _, e := range toRemove {
		g.world.RemoveEntity(e)
	}
	clear(g.objects[len(survivors):])
	g.objects = survivors
	g.stats.Removed += len(toRemove)

	g.grid.Clear()
	for _, e := range g.objects {
		g.grid.Insert(e, *g.posMap.Get(e))
	}
}
