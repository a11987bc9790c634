package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/kinetic/config"
)

func newTestGovernor() *Governor {
	return NewGovernor(config.Default())
}

// ---------- Delta time ----------

func TestGovernor_FirstUpdateYieldsZeroDelta(t *testing.T) {
	g := newTestGovernor()
	if dt := g.Update(1000); dt != 0 {
		t.Errorf("first update should have no delta, got %f", dt)
	}
}

func TestGovernor_DeltaCapped(t *testing.T) {
	g := newTestGovernor()
	g.Update(0)
	dt := g.Update(1000) // a full second of wall time
	if math.Abs(float64(dt-0.033)) > 1e-6 {
		t.Errorf("expected capped delta 0.033, got %f", dt)
	}
}

func TestGovernor_NegativeDeltaClampedToZero(t *testing.T) {
	g := newTestGovernor()
	g.Update(1000)
	if dt := g.Update(500); dt != 0 {
		t.Errorf("backwards clock should clamp to 0, got %f", dt)
	}
}

func TestGovernor_WindowAveragesRawFrames(t *testing.T) {
	g := newTestGovernor()
	g.Update(0)
	g.Update(100)
	g.Update(200)

	// Window holds [0, 100, 100]: the raw frame times, not the capped ones
	want := (0.0 + 100.0 + 100.0) / 3.0
	if math.Abs(g.AvgFrameMS()-want) > 1e-6 {
		t.Errorf("expected average %f, got %f", want, g.AvgFrameMS())
	}
}

func TestGovernor_WindowIsBounded(t *testing.T) {
	g := newTestGovernor()
	for i := 0; i <= 200; i++ {
		g.Update(float64(i) * 16)
	}
	if len(g.FrameWindow()) != 60 {
		t.Errorf("expected window of 60 samples, got %d", len(g.FrameWindow()))
	}
}

// ---------- Adaptive quality ----------

func TestGovernor_QualityDropsUnderLoad(t *testing.T) {
	g := newTestGovernor()

	// 30 ms frames: nearly double the 16.67 ms budget
	for i := 0; i <= 10; i++ {
		g.Update(float64(i) * 30)
	}

	if g.Quality() != QualityMedium {
		t.Errorf("expected one quality drop to %d, got %d", QualityMedium, g.Quality())
	}
	if g.Cooldown() == 0 {
		t.Error("expected cooldown after a quality drop")
	}
}

func TestGovernor_QualityDropsToFloorEventually(t *testing.T) {
	g := newTestGovernor()

	for i := 0; i <= 200; i++ {
		g.Update(float64(i) * 40)
	}

	if g.Quality() != QualityLow {
		t.Errorf("sustained overload should reach quality %d, got %d", QualityLow, g.Quality())
	}
}

func TestGovernor_QualityRecoversWhenFast(t *testing.T) {
	g := newTestGovernor()
	g.SetQuality(QualityLow)
	g.EnableAdaptive(true)

	// 5 ms frames: well under the 0.7x increase threshold
	for i := 0; i <= 5; i++ {
		g.Update(float64(i) * 5)
	}

	if g.Quality() != QualityMedium {
		t.Errorf("expected recovery to %d, got %d", QualityMedium, g.Quality())
	}
	if g.Cooldown() == 0 {
		t.Error("expected the longer increase cooldown to be active")
	}
}

func TestGovernor_CooldownBlocksRaiseAfterDrop(t *testing.T) {
	g := newTestGovernor()

	// Force one drop with 30 ms frames
	now := 0.0
	for i := 0; i < 4; i++ {
		g.Update(now)
		now += 30
	}
	if g.Quality() != QualityMedium {
		t.Fatalf("expected drop to %d, got %d", QualityMedium, g.Quality())
	}

	// Fast frames immediately after: the decrease cooldown must hold the
	// level down even though the average is already below the raise threshold
	for i := 0; i < 30; i++ {
		g.Update(now)
		now += 1
	}
	if g.Quality() != QualityMedium {
		t.Errorf("quality raised during cooldown: %d", g.Quality())
	}

	// Once the cooldown runs out the raise fires
	for i := 0; i < 40; i++ {
		g.Update(now)
		now += 1
	}
	if g.Quality() != QualityHigh {
		t.Errorf("expected recovery to %d after cooldown, got %d", QualityHigh, g.Quality())
	}
}

func TestGovernor_IncreaseCooldownLongerThanDecrease(t *testing.T) {
	cfg := config.Default()
	if cfg.Derived.IncreaseCooldown <= cfg.Governor.DecreaseCooldown {
		t.Errorf("hysteresis requires increase cooldown (%d) > decrease cooldown (%d)",
			cfg.Derived.IncreaseCooldown, cfg.Governor.DecreaseCooldown)
	}
}

func TestGovernor_ManualOverrideDisablesAdaptive(t *testing.T) {
	g := newTestGovernor()

	g.SetQuality(QualityMedium)
	if g.Adaptive() {
		t.Error("manual quality should disable adaptive adjustment")
	}
	if g.Quality() != QualityMedium {
		t.Errorf("expected quality %d, got %d", QualityMedium, g.Quality())
	}

	// Overloaded frames must not change a manually set level
	for i := 0; i <= 20; i++ {
		g.Update(float64(i) * 50)
	}
	if g.Quality() != QualityMedium {
		t.Errorf("manual quality changed under load: %d", g.Quality())
	}
}

func TestGovernor_SetQualityClamps(t *testing.T) {
	g := newTestGovernor()

	g.SetQuality(7)
	if g.Quality() != QualityHigh {
		t.Errorf("expected clamp to %d, got %d", QualityHigh, g.Quality())
	}
	g.SetQuality(-3)
	if g.Quality() != QualityLow {
		t.Errorf("expected clamp to %d, got %d", QualityLow, g.Quality())
	}
}

// ---------- FPS ----------

func TestGovernor_FPSDerivedPerSecond(t *testing.T) {
	g := newTestGovernor()

	// 100 ms frames; after one accumulated second FPS should be ~10
	for i := 0; i <= 11; i++ {
		g.Update(float64(i) * 100)
	}

	if g.FPS() < 9 || g.FPS() > 12 {
		t.Errorf("expected ~10 fps, got %f", g.FPS())
	}
}
