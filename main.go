package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/gridlife/config"
	"github.com/pthm-cable/gridlife/game"
	"github.com/pthm-cable/gridlife/policy"
	"github.com/pthm-cable/gridlife/storage"
	"github.com/pthm-cable/gridlife/telemetry"
	"github.com/pthm-cable/gridlife/training"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "Master RNG seed (0 = time-based)")
	generations := flag.Int("generations", -1, "Generations to train (-1 = use config)")
	samples := flag.Int("samples", 0, "Samples per generation (0 = use config)")
	mutation := flag.Int("mutation", -1, "Mutation magnitude (-1 = use config)")
	reward := flag.Int("reward", -1, "Reward delta (-1 = use config)")
	maxTicks := flag.Int("max-ticks", 0, "Tick cap per run (0 = use config)")
	workers := flag.Int("workers", -1, "Concurrent samples (-1 = use config, 0 = GOMAXPROCS)")
	inPath := flag.String("in", "", "Policy file to start from (empty = start with an empty table)")
	outPath := flag.String("out", "policy.json", "Policy file to write after training (empty = don't save)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	visualize := flag.Bool("visualize", false, "Replay the trained policy in a window")
	streamAddr := flag.String("stream", "", "Serve replay snapshots over websocket at this address (empty = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	applyOverrides(cfg, overrides{
		generations: *generations,
		samples:     *samples,
		mutation:    *mutation,
		reward:      *reward,
		maxTicks:    *maxTicks,
		workers:     *workers,
		streamAddr:  *streamAddr,
	})
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, rngSeed, fileStore(*inPath), fileStore(*outPath), *outputDir, *visualize); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

type overrides struct {
	generations, samples, mutation, reward, maxTicks, workers int
	streamAddr                                                string
}

// applyOverrides copies set CLI values over the loaded config.
func applyOverrides(cfg *config.Config, o overrides) {
	if o.generations >= 0 {
		cfg.Training.Generations = o.generations
	}
	if o.samples > 0 {
		cfg.Training.Samples = o.samples
	}
	if o.mutation >= 0 {
		cfg.Training.Mutation = uint32(o.mutation)
	}
	if o.reward >= 0 {
		cfg.Training.Reward = uint32(o.reward)
	}
	if o.maxTicks > 0 {
		cfg.Training.MaxTicks = o.maxTicks
	}
	if o.workers >= 0 {
		cfg.Training.Workers = o.workers
	}
	if o.streamAddr != "" {
		cfg.Stream.Addr = o.streamAddr
	}
}

// fileStore returns nil for an empty path.
func fileStore(path string) storage.Store {
	if path == "" {
		return nil
	}
	return storage.NewFileStore(path)
}

func run(ctx context.Context, cfg *config.Config, seed int64, in, out storage.Store, outputDir string, visualize bool) error {
	base, err := loadTable(cfg, in)
	if err != nil {
		return err
	}

	output, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return err
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		return err
	}

	opts := training.OptionsFromConfig(cfg, seed)
	opts.OnGeneration = func(stats telemetry.GenerationStats, results []telemetry.SampleResult) {
		if err := output.WriteGeneration(stats); err != nil {
			slog.Warn("failed to write generation stats", "error", err)
		}
		if err := output.WriteSamples(results); err != nil {
			slog.Warn("failed to write sample results", "error", err)
		}
	}

	slog.Info("starting training",
		"seed", seed,
		"generations", opts.Generations,
		"samples", opts.Samples,
		"mutation", opts.Mutation,
		"reward", opts.Reward,
		"max_ticks", opts.MaxTicks,
		"entries", base.Len(),
	)

	result, err := training.Run(ctx, base, opts)
	if err != nil {
		return err
	}
	slog.Info("training finished",
		"generations", len(result.Generations),
		"best_ticks", result.BestTicks,
		"entries", result.Table.Len(),
	)

	if out != nil {
		if err := out.Save(result.Table); err != nil {
			return err
		}
		slog.Info("saved policy", "entries", result.Table.Len())
	}

	if !visualize && cfg.Stream.Addr == "" {
		return nil
	}
	return replay(ctx, cfg, result.Table, seed, visualize)
}

// loadTable reads the starting table. A nil store gives an empty one; any
// load failure, including a missing file, is returned.
func loadTable(cfg *config.Config, store storage.Store) (*policy.Table, error) {
	empty, err := game.NewPolicyTable(cfg)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return empty, nil
	}

	table, err := store.Load(empty.Defaults(), empty.Perception())
	if err != nil {
		return nil, err
	}
	slog.Info("loaded policy", "entries", table.Len())
	return table, nil
}
