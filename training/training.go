// Package training improves a policy table by mutation, selection and reward.
package training

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/gridlife/config"
	"github.com/pthm-cable/gridlife/game"
	"github.com/pthm-cable/gridlife/policy"
	"github.com/pthm-cable/gridlife/systems"
	"github.com/pthm-cable/gridlife/telemetry"
)

// Options configures a training run.
type Options struct {
	Generations int
	Samples     int
	Mutation    uint32
	Reward      uint32
	MaxTicks    int   // per-run tick cap; <= 0 uses training.max_ticks
	Seed        int64 // master seed; all other randomness derives from it
	Workers     int   // concurrent samples; <= 0 uses GOMAXPROCS

	// Config overrides the global configuration.
	Config *config.Config
	// Layout fixes the world layout for every sample when non-nil.
	Layout []systems.Placement

	// OnGeneration is called after each generation's selection and reward.
	OnGeneration func(stats telemetry.GenerationStats, samples []telemetry.SampleResult)
}

// OptionsFromConfig returns options populated from the training section.
func OptionsFromConfig(cfg *config.Config, seed int64) Options {
	return Options{
		Generations: cfg.Training.Generations,
		Samples:     cfg.Training.Samples,
		Mutation:    cfg.Training.Mutation,
		Reward:      cfg.Training.Reward,
		MaxTicks:    cfg.Training.MaxTicks,
		Seed:        seed,
		Workers:     cfg.Training.Workers,
		Config:      cfg,
	}
}

// Result is the outcome of a training run.
type Result struct {
	// Table is the final base: the last winner after reward.
	Table *policy.Table
	// LastWinner is the last selected sample before reward, with its
	// decision log. Nil when no generation ran.
	LastWinner *policy.Table
	// Generations holds one entry per completed generation.
	Generations []telemetry.GenerationStats
	// BestTicks is the greatest fitness seen in any generation.
	BestTicks int
}

// sample is one evaluated mutation of the base table.
type sample struct {
	table  *policy.Table
	ticks  int
	capped bool
	stats  game.RunStats
}

// Run trains base for opts.Generations generations. base is never modified.
func Run(ctx context.Context, base *policy.Table, opts Options) (*Result, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	if opts.Generations > 0 && opts.Samples <= 0 {
		return nil, errors.New("training: samples must be positive")
	}
	if opts.MaxTicks <= 0 {
		opts.MaxTicks = cfg.Training.MaxTicks
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	master := rand.New(rand.NewSource(opts.Seed))
	collector := telemetry.NewCollector()
	result := &Result{Table: base}

	for gen := 0; gen < opts.Generations; gen++ {
		collector.Begin(gen)

		// Seeds are drawn up front so results do not depend on scheduling
		worldSeed := master.Int63()
		seeds := make([]int64, opts.Samples)
		for i := range seeds {
			seeds[i] = master.Int63()
		}

		samples, err := evaluate(ctx, result.Table, worldSeed, seeds, opts, cfg)
		if err != nil {
			return nil, fmt.Errorf("generation %d: %w", gen, err)
		}

		winner := selectWinner(samples)
		for i, s := range samples {
			collector.Record(telemetry.SampleResult{
				Index:     i,
				Seed:      seeds[i],
				Ticks:     s.ticks,
				Capped:    s.capped,
				Successes: s.stats.Successes,
				Failures:  s.stats.Failures,
				Builds:    s.stats.Builds,
				Decisions: len(s.table.Log()),
			})
		}

		next := samples[winner].table.Reward(opts.Reward)
		stats := collector.Flush(winner, next.Len())

		result.LastWinner = samples[winner].table
		result.Table = next
		result.Generations = append(result.Generations, stats)
		result.BestTicks = max(result.BestTicks, stats.BestTicks)

		if cfg.Telemetry.LogGenerations {
			stats.LogStats()
		}
		if opts.OnGeneration != nil {
			opts.OnGeneration(stats, collector.Results())
		}
	}

	return result, nil
}

// evaluate runs one mutated copy of base per seed, in parallel. Each sample
// owns its table, rng and world; base is only read.
func evaluate(ctx context.Context, base *policy.Table, worldSeed int64, seeds []int64, opts Options, cfg *config.Config) ([]sample, error) {
	samples := make([]sample, len(seeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, seed := range seeds {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed))
			table := base.Mutate(opts.Mutation, rng)

			world := game.NewGame(game.Options{
				WorldSeed: worldSeed,
				RNG:       rng,
				Policy:    table,
				Config:    cfg,
				Layout:    opts.Layout,
			})
			ticks, err := world.Run(gctx, opts.MaxTicks)
			if err != nil {
				return fmt.Errorf("sample %d: %w", i, err)
			}

			samples[i] = sample{
				table:  table,
				ticks:  ticks,
				capped: world.Alive(),
				stats:  world.Stats(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Debug("generation evaluated", "samples", len(samples), "world_seed", worldSeed)
	return samples, nil
}

// selectWinner returns the index of the sample with strictly the most
// ticks; ties keep the earliest.
func selectWinner(samples []sample) int {
	best := 0
	for i := 1; i < len(samples); i++ {
		if samples[i].ticks > samples[best].ticks {
			best = i
		}
	}
	return best
}
