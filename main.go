package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/profile"

	"github.com/pthm-cable/kinetic/config"
	"github.com/pthm-cable/kinetic/engine"
	"github.com/pthm-cable/kinetic/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	tickRate := flag.Float64("tick-rate", 60, "Target ticks per second")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	profileMode := flag.Bool("profile", false, "Write a CPU profile")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	if *profileMode {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := out.Close(); err != nil {
			slog.Error("failed to close output files", "error", err)
		}
	}()
	if err := out.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	eng := engine.New(engine.Options{Config: cfg, Seed: rngSeed})
	eng.Reset(rngSeed)

	slog.Info("starting simulation",
		"seed", rngSeed,
		"tick_rate", *tickRate,
		"max_ticks", *maxTicks,
		"output_dir", out.Dir(),
	)

	run(eng, cfg, out, *tickRate, *maxTicks, *logStats)
}

// run drives the engine from the wall clock until maxTicks is reached.
func run(eng *engine.Engine, cfg *config.Config, out *telemetry.OutputManager, tickRate float64, maxTicks int64, logStats bool) {
	interval := time.Second / 60
	if tickRate > 0 {
		interval = time.Duration(float64(time.Second) / tickRate)
	}

	start := time.Now()
	statsEvery := cfg.Telemetry.StatsWindow
	nextStats := statsEvery

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for now := range ticker.C {
		elapsed := now.Sub(start)
		eng.Tick(float64(elapsed.Nanoseconds()) / 1e6)

		if elapsed.Seconds() >= nextStats {
			nextStats += statsEvery
			emitStats(eng, out, logStats)
		}

		if maxTicks > 0 && eng.TickCount() >= maxTicks {
			emitStats(eng, out, logStats)
			slog.Info("max ticks reached", "tick", eng.TickCount(), "score", eng.Score())
			return
		}
	}
}

// emitStats writes one telemetry window to the log and the CSV files.
func emitStats(eng *engine.Engine, out *telemetry.OutputManager, logStats bool) {
	stats := eng.WindowStats()
	perf := eng.Perf().Stats()

	if logStats {
		slog.Info("stats", "sim", stats)
		perf.LogStats()
	}

	if err := out.WriteSim(stats); err != nil {
		slog.Error("failed to write sim stats", "error", err)
	}
	if err := out.WritePerf(perf, stats.Tick); err != nil {
		slog.Error("failed to write perf stats", "error", err)
	}
}
