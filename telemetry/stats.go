package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// WindowStats is one row of simulation-level telemetry, emitted once per
// stats window and exported to sim.csv.
type WindowStats struct {
	Tick         int64   `csv:"tick"`
	Entities     int     `csv:"entities"`
	Particles    int     `csv:"particles"`
	Score        int     `csv:"score"`
	Quality      int     `csv:"quality"`
	FPS          float64 `csv:"fps"`
	AvgFrameMS   float64 `csv:"avg_frame_ms"`
	FrameStdDev  float64 `csv:"frame_stddev_ms"`
	WorstFrameMS float64 `csv:"worst_frame_ms"`
}

// BuildWindowStats aggregates governor frame samples with the simulation
// counters supplied by the engine.
func BuildWindowStats(tick int64, entities, particles, score int, g *Governor) WindowStats {
	frames := g.FrameWindow()

	var stddev, worst float64
	if len(frames) > 1 {
		stddev = stat.StdDev(frames, nil)
	}
	for _, f := range frames {
		if f > worst {
			worst = f
		}
	}

	return WindowStats{
		Tick:         tick,
		Entities:     entities,
		Particles:    particles,
		Score:        score,
		Quality:      g.Quality(),
		FPS:          g.FPS(),
		AvgFrameMS:   g.AvgFrameMS(),
		FrameStdDev:  stddev,
		WorstFrameMS: worst,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (w WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("tick", w.Tick),
		slog.Int("entities", w.Entities),
		slog.Int("particles", w.Particles),
		slog.Int("score", w.Score),
		slog.Int("quality", w.Quality),
		slog.Float64("fps", w.FPS),
		slog.Float64("avg_frame_ms", w.AvgFrameMS),
	)
}
