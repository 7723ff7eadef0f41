package training

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/gridlife/components"
	"github.com/pthm-cable/gridlife/config"
	"github.com/pthm-cable/gridlife/policy"
	"github.com/pthm-cable/gridlife/systems"
	"github.com/pthm-cable/gridlife/telemetry"
)

func tinyConfig() *config.Config {
	cfg := config.Default()
	cfg.World.Width, cfg.World.Height = 6, 6
	cfg.Agent.SpawnX, cfg.Agent.SpawnY = 2, 2
	cfg.Training.MaxTicks = 500
	return cfg
}

func tinyLayout() []systems.Placement {
	return []systems.Placement{
		{Tag: components.TagShelter, Pos: components.Position{X: 3, Y: 2}},
		{Tag: components.TagChallenge, Pos: components.Position{X: 2, Y: 3}},
		{Tag: components.TagDanger, Pos: components.Position{X: 1, Y: 2}},
		{Tag: components.TagShelter, Pos: components.Position{X: 4, Y: 4}},
	}
}

func baseTable(cfg *config.Config) *policy.Table {
	defaults, err := policy.FromNames(cfg.Policy.DefaultWeights)
	if err != nil {
		panic(err)
	}
	return policy.NewTable(defaults, policy.Perception{HPBucket: cfg.Perception.HPBucket})
}

func TestScenarioB_WinnerBecomesBase(t *testing.T) {
	cfg := tinyConfig()
	var seen []telemetry.SampleResult

	opts := Options{
		Generations: 1,
		Samples:     5,
		Mutation:    1,
		Reward:      2,
		Seed:        13,
		Workers:     3,
		Config:      cfg,
		Layout:      tinyLayout(),
		OnGeneration: func(_ telemetry.GenerationStats, samples []telemetry.SampleResult) {
			seen = append(seen, samples...)
		},
	}
	base := baseTable(cfg)
	result, err := Run(context.Background(), base, opts)
	require.NoError(t, err)
	require.NotNil(t, result.LastWinner)
	require.Len(t, result.Generations, 1)
	require.Len(t, seen, 5)

	stats := result.Generations[0]
	best := 0
	for _, s := range seen {
		best = max(best, s.Ticks)
	}
	assert.Equal(t, best, stats.BestTicks)
	assert.Equal(t, best, result.BestTicks)
	assert.Equal(t, best, seen[stats.WinnerIndex].Ticks)
	for i := 0; i < stats.WinnerIndex; i++ {
		assert.Less(t, seen[i].Ticks, best, "ties keep the first sample")
	}

	// Returned base is exactly the winner rewarded by 2
	assert.Equal(t, result.LastWinner.Reward(2).Serialize(), result.Table.Serialize())
	assert.Len(t, result.LastWinner.Log(), best)

	for _, d := range result.LastWinner.Log() {
		before, ok := result.LastWinner.Lookup(d.Key)
		require.True(t, ok)
		after, ok := result.Table.Lookup(d.Key)
		require.True(t, ok)
		assert.Greater(t, after.Weight(d.Action), before.Weight(d.Action))
		for _, a := range components.AllActions() {
			assert.GreaterOrEqual(t, after.Weight(a), before.Weight(a))
		}
	}

	// base untouched
	assert.Zero(t, base.Len())
	assert.Empty(t, base.Log())
}

func TestRun_DeterministicAcrossWorkerCounts(t *testing.T) {
	cfg := tinyConfig()
	run := func(workers int) *Result {
		opts := Options{
			Generations: 3,
			Samples:     6,
			Mutation:    2,
			Reward:      2,
			Seed:        99,
			Workers:     workers,
			Config:      cfg,
		}
		result, err := Run(context.Background(), baseTable(cfg), opts)
		require.NoError(t, err)
		return result
	}

	serial, parallel := run(1), run(4)
	assert.Equal(t, serial.Table.Serialize(), parallel.Table.Serialize())
	assert.Equal(t, serial.BestTicks, parallel.BestTicks)
	require.Len(t, parallel.Generations, 3)
	for i := range serial.Generations {
		assert.Equal(t, serial.Generations[i].SampleTicks, parallel.Generations[i].SampleTicks)
	}
}

func TestRun_ZeroGenerations(t *testing.T) {
	cfg := tinyConfig()
	base := baseTable(cfg)
	result, err := Run(context.Background(), base, Options{Config: cfg, Samples: 3})
	require.NoError(t, err)
	assert.Same(t, base, result.Table)
	assert.Nil(t, result.LastWinner)
	assert.Empty(t, result.Generations)
}

func TestRun_RequiresSamples(t *testing.T) {
	cfg := tinyConfig()
	_, err := Run(context.Background(), baseTable(cfg), Options{Config: cfg, Generations: 1})
	assert.Error(t, err)
}

func TestRun_Cancelled(t *testing.T) {
	cfg := tinyConfig()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, baseTable(cfg), Options{Config: cfg, Generations: 2, Samples: 4, Layout: tinyLayout()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_TickCapBoundsRuns(t *testing.T) {
	cfg := tinyConfig()
	cfg.Agent.HP = 1 << 20

	result, err := Run(context.Background(), baseTable(cfg), Options{
		Config: cfg, Generations: 1, Samples: 2, MaxTicks: 40, Layout: tinyLayout(),
	})
	require.NoError(t, err)
	assert.Equal(t, 40, result.BestTicks)
	assert.Equal(t, 2, result.Generations[0].CappedRuns)
}

func TestSelectWinner(t *testing.T) {
	tests := []struct {
		name  string
		ticks []int
		want  int
	}{
		{"single", []int{4}, 0},
		{"strict max", []int{3, 9, 2}, 1},
		{"tie keeps first", []int{5, 8, 8, 1}, 1},
		{"all equal", []int{7, 7, 7}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := make([]sample, len(tt.ticks))
			for i, ticks := range tt.ticks {
				samples[i].ticks = ticks
			}
			assert.Equal(t, tt.want, selectWinner(samples))
		})
	}
}
