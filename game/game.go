// Package game runs one simulation of the agent on the grid.
package game

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gridlife/components"
	"github.com/pthm-cable/gridlife/config"
	"github.com/pthm-cable/gridlife/policy"
	"github.com/pthm-cable/gridlife/systems"
)

// Options configures a new Game.
type Options struct {
	// WorldSeed seeds object generation. Runs sharing a seed share a layout.
	WorldSeed int64
	// RNG drives decisions and interaction rolls. Nil means a source
	// seeded from WorldSeed+1.
	RNG *rand.Rand
	// Policy is the table the agent decides with. Required. The game appends
	// to its decision log.
	Policy *policy.Table
	// Config overrides the global configuration.
	Config *config.Config
	// Layout replaces random generation when non-nil.
	Layout []systems.Placement
	// Observer receives a snapshot after every tick.
	Observer Observer
}

// RunStats counts what happened during a run.
type RunStats struct {
	Successes    int
	Failures     int
	Builds       int
	RefusedBuild int
	Removed      int
}

// Game holds the complete state of one run.
type Game struct {
	world *ecs.World
	cfg   *config.Config
	rng   *rand.Rand

	// Entity mapper for world objects
	objectMapper *ecs.Map3[
		components.Position,
		components.Object,
		components.Appearance,
	]

	// Individual component mappers for lookups
	posMap *ecs.Map1[components.Position]
	objMap *ecs.Map1[components.Object]
	appMap *ecs.Map1[components.Appearance]

	// Live objects in spawn order
	objects []ecs.Entity
	grid    *systems.Grid

	agent    components.Agent
	table    *policy.Table
	observer Observer

	tick  uint32
	stats RunStats

	// Scratch buffers reused across ticks
	nearby    []ecs.Entity
	sightings []components.Sighting
}

// NewGame creates a world, places its objects and spawns the agent.
func NewGame(opts Options) *Game {
	if opts.Policy == nil {
		panic("game: Options.Policy is required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	rng := opts.RNG
	if rng == nil {
		rng = rand.New(rand.NewSource(opts.WorldSeed + 1))
	}

	world := ecs.NewWorld()
	g := &Game{
		world: world,
		cfg:   cfg,
		rng:   rng,
		objectMapper: ecs.NewMap3[
			components.Position,
			components.Object,
			components.Appearance,
		](world),
		posMap:   ecs.NewMap1[components.Position](world),
		objMap:   ecs.NewMap1[components.Object](world),
		appMap:   ecs.NewMap1[components.Appearance](world),
		grid:     systems.NewGrid(cfg.World.Width, cfg.World.Height),
		table:    opts.Policy,
		observer: opts.Observer,
	}

	layout := opts.Layout
	if layout == nil {
		layout = systems.Generate(rand.New(rand.NewSource(opts.WorldSeed)), cfg)
	}
	for _, p := range layout {
		g.spawnObject(p.Tag, p.Pos)
	}

	g.spawnAgent()
	return g
}

// NewPolicyTable returns an empty table using the configured default
// weights and perception.
func NewPolicyTable(cfg *config.Config) (*policy.Table, error) {
	defaults, err := policy.FromNames(cfg.Policy.DefaultWeights)
	if err != nil {
		return nil, err
	}
	return policy.NewTable(defaults, policy.Perception{HPBucket: cfg.Perception.HPBucket}), nil
}

// Run steps until the agent dies, maxTicks ticks have run, or ctx is done.
// maxTicks <= 0 uses training.max_ticks. It returns the ticks completed.
func (g *Game) Run(ctx context.Context, maxTicks int) (int, error) {
	if maxTicks <= 0 {
		maxTicks = g.cfg.Training.MaxTicks
	}
	done := ctx.Done()
	for g.agent.Alive && int(g.tick) < maxTicks {
		select {
		case <-done:
			return int(g.tick), ctx.Err()
		default:
		}
		g.Step()
	}
	if g.agent.Alive {
		slog.Debug("run hit tick cap", "tick", g.tick, "hp", g.agent.HP)
	}
	return int(g.tick), nil
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() uint32 {
	return g.tick
}

// Agent returns a copy of the agent state.
func (g *Game) Agent() components.Agent {
	return g.agent
}

// Alive reports whether the agent is still alive.
func (g *Game) Alive() bool {
	return g.agent.Alive
}

// Policy returns the table driving the agent.
func (g *Game) Policy() *policy.Table {
	return g.table
}

// Stats returns the run counters so far.
func (g *Game) Stats() RunStats {
	return g.stats
}

// ObjectCount returns the number of objects in the world.
func (g *Game) ObjectCount() int {
	return len(g.objects)
}

// config returns the game's configuration.
func (g *Game) config() *config.Config {
	return g.cfg
}
