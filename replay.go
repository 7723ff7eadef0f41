package main

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridlife/config"
	"github.com/pthm-cable/gridlife/game"
	"github.com/pthm-cable/gridlife/policy"
	"github.com/pthm-cable/gridlife/renderer"
	"github.com/pthm-cable/gridlife/stream"
)

// replayRun is one replay of the trained table on a fresh world.
type replayRun struct {
	game  *game.Game
	table *policy.Table
}

// newReplay starts a run with its own copy of the table so the trained
// table's log is left alone.
func newReplay(cfg *config.Config, trained *policy.Table, seed int64, observer game.Observer) replayRun {
	table := trained.Clone()
	table.ResetLog()
	g := game.NewGame(game.Options{
		WorldSeed: seed,
		RNG:       rand.New(rand.NewSource(seed + 1)),
		Policy:    table,
		Config:    cfg,
		Observer:  observer,
	})
	return replayRun{game: g, table: table}
}

// replay runs the trained table in a window, over the snapshot stream,
// or both, until the window closes or ctx is done.
func replay(ctx context.Context, cfg *config.Config, trained *policy.Table, seed int64, visualize bool) error {
	var observer game.Observer
	errCh := make(chan error, 1)
	if cfg.Stream.Addr != "" {
		hub := stream.NewHub(cfg.Stream.BufferSize)
		observer = hub
		go func() {
			errCh <- stream.Serve(ctx, cfg.Stream.Addr, hub)
		}()
	}

	if visualize {
		replayWindow(ctx, cfg, trained, seed, observer)
		return nil
	}
	return replayPaced(ctx, cfg, trained, seed, observer, errCh)
}

// replayPaced steps headless runs at the visualizer frame rate, starting a
// new world each time the agent dies.
func replayPaced(ctx context.Context, cfg *config.Config, trained *policy.Table, seed int64, observer game.Observer, errCh <-chan error) error {
	fps := max(cfg.Visualizer.TargetFPS, 1)
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	run := newReplay(cfg, trained, seed, observer)
	for {
		select {
		case <-ctx.Done():
			return <-errCh
		case err := <-errCh:
			return err
		case <-ticker.C:
		}

		for i := 0; i < max(cfg.Visualizer.TicksPerDraw, 1) && run.game.Alive(); i++ {
			run.game.Step()
		}
		if !run.game.Alive() || int(run.game.Tick()) >= cfg.Training.MaxTicks {
			slog.Info("replay finished", "seed", seed, "ticks", run.game.Tick())
			seed++
			run = newReplay(cfg, trained, seed, observer)
		}
	}
}

// replayWindow drives the raylib viewer.
func replayWindow(ctx context.Context, cfg *config.Config, trained *policy.Table, seed int64, observer game.Observer) {
	w, h := renderer.WindowSize(cfg)
	rl.InitWindow(w, h, "gridlife")
	defer rl.CloseWindow()
	rl.SetTargetFPS(cfg.Visualizer.TargetFPS)

	viewer := renderer.NewViewer(cfg, w, h)
	run := newReplay(cfg, trained, seed, observer)

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		state := viewer.Input()
		if state.Restart {
			seed++
			run = newReplay(cfg, trained, seed, observer)
		}
		for i := 0; i < state.TicksThisFrame() && run.game.Alive() && int(run.game.Tick()) < cfg.Training.MaxTicks; i++ {
			run.game.Step()
		}
		viewer.ClearOneShot()

		viewer.Draw(run.game.Snapshot(), run.table)
	}
}
