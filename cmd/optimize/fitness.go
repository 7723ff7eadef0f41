package main

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/gridlife/config"
	"github.com/pthm-cable/gridlife/game"
	"github.com/pthm-cable/gridlife/policy"
	"github.com/pthm-cable/gridlife/training"
)

// FitnessEvaluator trains a table per seed and scores how long the trained
// table survives on unseen worlds.
type FitnessEvaluator struct {
	params     *ParamVector
	configPath string
	seeds      []int64
	replays    int

	// Training size per evaluation; zero keeps the config value
	generations int
	samples     int
	maxTicks    int

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestTable   *policy.Table
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, configPath string, seeds []int64, replays, generations, samples, maxTicks int) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		configPath:  configPath,
		seeds:       seeds,
		replays:     max(replays, 1),
		generations: generations,
		samples:     samples,
		maxTicks:    maxTicks,
		bestFitness: math.Inf(1),
	}
}

// BestTable returns the trained table from the best evaluation.
func (fe *FitnessEvaluator) BestTable() *policy.Table {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestTable
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
	table   *policy.Table
	err     error
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative mean replay ticks: longer survival = lower fitness.
func (fe *FitnessEvaluator) Evaluate(ctx context.Context, x []float64) (float64, error) {
	cfg, err := fe.Config(x)
	if err != nil {
		return 0, err
	}

	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			table, ticks, err := fe.trainAndReplay(ctx, cfg, s)
			if err != nil {
				results[idx] = seedResult{err: err}
				return
			}
			quality := consistency(ticks)
			results[idx] = seedResult{
				fitness: computeFitness(ticks, quality),
				quality: quality,
				table:   table,
			}
		}(i, seed)
	}
	wg.Wait()

	// Aggregate results
	var totalFitness, totalQuality float64
	bestSeedFitness := math.Inf(1)
	var bestSeedTable *policy.Table

	for _, r := range results {
		if r.err != nil {
			return 0, r.err
		}
		totalFitness += r.fitness
		totalQuality += r.quality
		if r.fitness < bestSeedFitness {
			bestSeedFitness = r.fitness
			bestSeedTable = r.table
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	// Update best tracking
	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestTable = bestSeedTable
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness, nil
}

// Config loads a fresh config and applies the parameter values and the
// evaluation's training size.
func (fe *FitnessEvaluator) Config(x []float64) (*config.Config, error) {
	cfg, err := config.Load(fe.configPath)
	if err != nil {
		return nil, err
	}
	fe.params.ApplyToConfig(cfg, x)
	if fe.generations > 0 {
		cfg.Training.Generations = fe.generations
	}
	if fe.samples > 0 {
		cfg.Training.Samples = fe.samples
	}
	if fe.maxTicks > 0 {
		cfg.Training.MaxTicks = fe.maxTicks
	}
	cfg.Telemetry.LogGenerations = false
	return cfg, cfg.Validate()
}

// trainAndReplay trains from an empty table, then runs the result on
// replays worlds the training never saw.
func (fe *FitnessEvaluator) trainAndReplay(ctx context.Context, cfg *config.Config, seed int64) (*policy.Table, []float64, error) {
	base, err := game.NewPolicyTable(cfg)
	if err != nil {
		return nil, nil, err
	}
	opts := training.OptionsFromConfig(cfg, seed)
	result, err := training.Run(ctx, base, opts)
	if err != nil {
		return nil, nil, err
	}

	rng := rand.New(rand.NewSource(^seed))
	ticks := make([]float64, fe.replays)
	for i := range ticks {
		table := result.Table.Clone()
		table.ResetLog()
		worldSeed := rng.Int63()
		g := game.NewGame(game.Options{
			WorldSeed: worldSeed,
			RNG:       rand.New(rand.NewSource(rng.Int63())),
			Policy:    table,
			Config:    cfg,
		})
		n, err := g.Run(ctx, cfg.Training.MaxTicks)
		if err != nil {
			return nil, nil, err
		}
		ticks[i] = float64(n)
	}
	return result.Table, ticks, nil
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(meanTicks × (1.0 + 0.2 × quality))
// Survival dominates; quality adds up to 20% bonus to differentiate
// tables with similar survival.
func computeFitness(ticks []float64, quality float64) float64 {
	if len(ticks) == 0 {
		return 0
	}
	var sum float64
	for _, t := range ticks {
		sum += t
	}
	return -(sum / float64(len(ticks)) * (1.0 + 0.2*quality))
}

// consistency scores how evenly the table survives across worlds, in [0, 1].
func consistency(ticks []float64) float64 {
	if len(ticks) < 2 {
		return 0
	}
	c := cv(ticks)
	return clamp01(math.Exp(-c * c))
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
