// Package telemetry provides frame timing, adaptive quality governance, and
// structured stats output for the simulation.
package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/kinetic/config"
)

// Quality levels gate simulation cost: level 0 runs the entity pipeline only,
// level 1 adds physics and collision, level 2 adds particles.
const (
	QualityLow    = 0
	QualityMedium = 1
	QualityHigh   = 2
)

// Governor tracks frame timing from caller-supplied monotonic timestamps and
// derives an adaptive quality level with asymmetric hysteresis: quality drops
// react quickly, quality raises wait a longer cooldown.
type Governor struct {
	lastTime float64 // previous timestamp in ms
	hasLast  bool

	frames     []float64 // raw (uncapped) frame times in ms, FIFO
	windowSize int
	avgFrameMS float64

	fpsCounter int
	fpsTimer   float64
	fps        float64

	quality  int
	adaptive bool
	cooldown int

	maxDelta         float32
	decThresholdMS   float64
	incThresholdMS   float64
	decreaseCooldown int
	increaseCooldown int
}

// NewGovernor creates a governor from configuration, starting at high
// quality with adaptive adjustment enabled.
func NewGovernor(cfg *config.Config) *Governor {
	windowSize := cfg.Governor.Window
	if windowSize < 1 {
		windowSize = 60
	}
	return &Governor{
		frames:           make([]float64, 0, windowSize),
		windowSize:       windowSize,
		fps:              60.0,
		avgFrameMS:       cfg.Governor.FrameBudgetMS,
		quality:          QualityHigh,
		adaptive:         true,
		maxDelta:         float32(cfg.Governor.MaxDelta),
		decThresholdMS:   cfg.Derived.DecreaseThresholdMS,
		incThresholdMS:   cfg.Derived.IncreaseThresholdMS,
		decreaseCooldown: cfg.Governor.DecreaseCooldown,
		increaseCooldown: cfg.Derived.IncreaseCooldown,
	}
}

// Update consumes the host's monotonic timestamp in milliseconds and returns
// the capped delta time in seconds for this tick. The uncapped frame time
// feeds the rolling window; the cap bounds how much simulated time one tick
// may advance after a long pause. Negative deltas (a host clock violation)
// are clamped to zero so they never reach the integrator.
func (g *Governor) Update(nowMS float64) float32 {
	var rawSec float64
	if g.hasLast {
		rawSec = (nowMS - g.lastTime) / 1000.0
		if rawSec < 0 {
			rawSec = 0
		}
	}
	g.lastTime = nowMS
	g.hasLast = true

	capped := float32(rawSec)
	if capped > g.maxDelta {
		capped = g.maxDelta
	}

	// Rolling window of raw frame times
	g.frames = append(g.frames, rawSec*1000.0)
	if len(g.frames) > g.windowSize {
		g.frames = g.frames[1:]
	}
	if len(g.frames) > 0 {
		g.avgFrameMS = stat.Mean(g.frames, nil)
	}

	// FPS derived once per accumulated second
	g.fpsCounter++
	g.fpsTimer += rawSec
	if g.fpsTimer >= 1.0 {
		g.fps = float64(g.fpsCounter) / g.fpsTimer
		g.fpsCounter = 0
		g.fpsTimer = 0
	}

	g.adjustQuality()

	if g.cooldown > 0 {
		g.cooldown--
	}

	return capped
}

func (g *Governor) adjustQuality() {
	if !g.adaptive || g.cooldown != 0 {
		return
	}

	if g.avgFrameMS > g.decThresholdMS {
		if g.quality > QualityLow {
			g.quality--
			g.cooldown = g.decreaseCooldown
			slog.Info("quality reduced", "level", g.quality, "avg_frame_ms", g.avgFrameMS)
		}
	} else if g.avgFrameMS < g.incThresholdMS {
		if g.quality < QualityHigh {
			g.quality++
			g.cooldown = g.increaseCooldown
			slog.Info("quality increased", "level", g.quality, "avg_frame_ms", g.avgFrameMS)
		}
	}
}

// SetQuality sets the level manually, clamped to [0,2], and disables
// adaptive adjustment.
func (g *Governor) SetQuality(level int) {
	if level < QualityLow {
		level = QualityLow
	}
	if level > QualityHigh {
		level = QualityHigh
	}
	g.quality = level
	g.adaptive = false
}

// EnableAdaptive toggles adaptive quality adjustment.
func (g *Governor) EnableAdaptive(enabled bool) {
	g.adaptive = enabled
}

// Quality returns the current quality level.
func (g *Governor) Quality() int {
	return g.quality
}

// Adaptive reports whether adaptive adjustment is active.
func (g *Governor) Adaptive() bool {
	return g.adaptive
}

// Cooldown returns the remaining frames before the next adjustment may fire.
func (g *Governor) Cooldown() int {
	return g.cooldown
}

// AvgFrameMS returns the rolling average frame time in milliseconds.
func (g *Governor) AvgFrameMS() float64 {
	return g.avgFrameMS
}

// FPS returns the most recently derived frames-per-second value.
func (g *Governor) FPS() float64 {
	return g.fps
}

// FrameWindow returns the raw frame-time samples currently in the window.
func (g *Governor) FrameWindow() []float64 {
	return g.frames
}

// LogValue implements slog.LogValuer for structured logging.
func (g *Governor) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("avg_frame_ms", g.avgFrameMS),
		slog.Float64("fps", g.fps),
		slog.Int("quality", g.quality),
		slog.Bool("adaptive", g.adaptive),
		slog.Int("cooldown", g.cooldown),
	)
}
