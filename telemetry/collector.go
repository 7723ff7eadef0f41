package telemetry

import (
	"slices"
	"time"
)

// SampleResult is the outcome of one sample's run.
type SampleResult struct {
	Generation int   `csv:"generation"`
	Index      int   `csv:"sample"`
	Seed       int64 `csv:"seed"`
	Ticks      int   `csv:"ticks"`
	Capped     bool  `csv:"capped"`
	Successes  int   `csv:"successes"`
	Failures   int   `csv:"failures"`
	Builds     int   `csv:"builds"`
	Decisions  int   `csv:"decisions"`
}

// Collector accumulates sample results within a generation and produces
// GenerationStats. It is not safe for concurrent use.
type Collector struct {
	generation int
	start      time.Time
	results    []SampleResult
}

// NewCollector creates a new stats collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Begin resets the collector for generation and starts its clock.
func (c *Collector) Begin(generation int) {
	c.generation = generation
	c.start = time.Now()
	c.results = c.results[:0]
}

// Record adds one sample's result.
func (c *Collector) Record(r SampleResult) {
	r.Generation = c.generation
	c.results = append(c.results, r)
}

// Results returns the results recorded since Begin.
func (c *Collector) Results() []SampleResult {
	return c.results
}

// Flush produces the generation's stats. winner indexes the recorded
// results; policyEntries is the size of the rewarded table.
func (c *Collector) Flush(winner, policyEntries int) GenerationStats {
	ticks := make([]int, len(c.results))
	capped := 0
	for i, r := range c.results {
		ticks[i] = r.Ticks
		if r.Capped {
			capped++
		}
	}
	mean, std, p10, p50, p90 := ComputeTickStats(ticks)

	stats := GenerationStats{
		Generation:    c.generation,
		Samples:       len(c.results),
		WinnerIndex:   winner,
		MeanTicks:     mean,
		StdTicks:      std,
		P10Ticks:      p10,
		P50Ticks:      p50,
		P90Ticks:      p90,
		CappedRuns:    capped,
		PolicyEntries: policyEntries,
		DurationSec:   time.Since(c.start).Seconds(),
		SampleTicks:   ticks,
	}
	if len(ticks) > 0 {
		stats.MinTicks = slices.Min(ticks)
	}
	if winner >= 0 && winner < len(c.results) {
		w := c.results[winner]
		stats.BestTicks = w.Ticks
		stats.Successes = w.Successes
		stats.Failures = w.Failures
		stats.Builds = w.Builds
		stats.Decisions = w.Decisions
	}
	return stats
}
