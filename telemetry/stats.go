// Package telemetry aggregates per-generation training statistics.
package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// GenerationStats holds aggregated statistics for one generation.
type GenerationStats struct {
	Generation int `csv:"generation"`
	Samples    int `csv:"samples"`

	// Fitness distribution over samples
	WinnerIndex int     `csv:"winner"`
	BestTicks   int     `csv:"best_ticks"`
	MinTicks    int     `csv:"min_ticks"`
	MeanTicks   float64 `csv:"mean_ticks"`
	StdTicks    float64 `csv:"std_ticks"`
	P10Ticks    float64 `csv:"p10_ticks"`
	P50Ticks    float64 `csv:"p50_ticks"`
	P90Ticks    float64 `csv:"p90_ticks"`
	CappedRuns  int     `csv:"capped_runs"` // runs stopped by max_ticks

	// Winner's run
	Successes int `csv:"winner_successes"`
	Failures  int `csv:"winner_failures"`
	Builds    int `csv:"winner_builds"`
	Decisions int `csv:"winner_decisions"`

	// Base table after reward
	PolicyEntries int `csv:"policy_entries"`

	DurationSec float64 `csv:"duration_sec"`

	SampleTicks []int `csv:"-"`
}

// ComputeTickStats returns the mean, population standard deviation and
// empirical 10/50/90 percentiles of ticks. All zero for an empty slice.
func ComputeTickStats(ticks []int) (mean, std, p10, p50, p90 float64) {
	if len(ticks) == 0 {
		return 0, 0, 0, 0, 0
	}

	values := make([]float64, len(ticks))
	for i, t := range ticks {
		values[i] = float64(t)
	}
	mean, std = stat.PopMeanStdDev(values, nil)

	// Quantile requires sorted input
	slices.Sort(values)
	p10 = stat.Quantile(0.10, stat.Empirical, values, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, values, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, values, nil)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("samples", s.Samples),
		slog.Int("winner", s.WinnerIndex),
		slog.Int("best_ticks", s.BestTicks),
		slog.Int("min_ticks", s.MinTicks),
		slog.Float64("mean_ticks", s.MeanTicks),
		slog.Float64("std_ticks", s.StdTicks),
		slog.Float64("p50_ticks", s.P50Ticks),
		slog.Int("capped_runs", s.CappedRuns),
		slog.Int("winner_successes", s.Successes),
		slog.Int("winner_failures", s.Failures),
		slog.Int("winner_builds", s.Builds),
		slog.Int("policy_entries", s.PolicyEntries),
		slog.Float64("duration_sec", s.DurationSec),
	)
}

// LogStats logs the generation stats using slog.
func (s GenerationStats) LogStats() {
	slog.Info("generation", "stats", s)
}
