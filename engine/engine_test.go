package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/kinetic/components"
	"github.com/pthm-cable/kinetic/config"
	"github.com/pthm-cable/kinetic/telemetry"
)

func newTestEngine() *Engine {
	return New(Options{Config: config.Default(), Seed: 42})
}

// tickTimes drives the engine at a steady 60 Hz cadence.
func tickTimes(e *Engine, n int) {
	start := e.TickCount()
	for i := int64(0); i < int64(n); i++ {
		e.Tick(float64(start+i) * 16.667)
	}
}

// ---------- Lifecycle ----------

func TestEngine_ResetBuildsScene(t *testing.T) {
	e := newTestEngine()
	e.Reset(42)

	cfg := config.Default()
	assert.Equal(t, cfg.Scene.EnvironmentCount+1, e.EntityCount())
	require.NotZero(t, e.PlayerID())

	player := e.Store().Meta(e.PlayerID())
	require.NotNil(t, player)
	assert.Equal(t, components.TagPlayer, player.Tag)

	phys := e.Store().Physics(e.PlayerID())
	require.NotNil(t, phys)
	assert.False(t, phys.UseGravity)

	tr := e.Store().Transform(e.PlayerID())
	require.NotNil(t, tr)
	assert.Equal(t, float32(cfg.World.Width/2), tr.Position.X)
	assert.Equal(t, float32(cfg.World.Height/2), tr.Position.Y)
}

func TestEngine_ResetIsDeterministic(t *testing.T) {
	a := newTestEngine()
	b := newTestEngine()
	a.Reset(7)
	b.Reset(7)

	assert.Equal(t, a.EntityRenderData(), b.EntityRenderData())
	assert.Equal(t, a.PlayerID(), b.PlayerID())

	// A different seed produces a different scene
	c := newTestEngine()
	c.Reset(8)
	assert.NotEqual(t, a.EntityRenderData(), c.EntityRenderData())
}

func TestEngine_PausedTickMutatesNothing(t *testing.T) {
	e := newTestEngine()
	e.Reset(42)
	e.SetPaused(true)

	before := e.EntityRenderData()
	score := e.Score()

	tickTimes(e, 10)

	assert.Equal(t, before, e.EntityRenderData())
	assert.Equal(t, score, e.Score())
	assert.Equal(t, int64(0), e.TickCount())
}

func TestEngine_TickAdvancesCount(t *testing.T) {
	e := newTestEngine()
	e.Reset(42)

	tickTimes(e, 5)
	assert.Equal(t, int64(5), e.TickCount())
}

// ---------- Input ----------

func TestEngine_KeyInputMovesPlayer(t *testing.T) {
	e := newTestEngine()
	e.Reset(42)
	startX := e.Store().Transform(e.PlayerID()).Position.X

	e.SetKey(KeyD, true)
	tickTimes(e, 10)

	assert.Greater(t, e.Store().Transform(e.PlayerID()).Position.X, startX)

	// Releasing the key stops the force; heavy drag bleeds the speed off
	e.SetKey(KeyD, false)
	vx := e.Store().Transform(e.PlayerID()).Velocity.X
	tickTimes(e, 10)
	assert.Less(t, e.Store().Transform(e.PlayerID()).Velocity.X, vx)
}

func TestEngine_AxisBelowDeadzoneIgnored(t *testing.T) {
	e := newTestEngine()
	e.Reset(42)
	startX := e.Store().Transform(e.PlayerID()).Position.X

	e.SetInputAxis(components.Vec3{X: 0.05})
	tickTimes(e, 10)

	assert.Equal(t, startX, e.Store().Transform(e.PlayerID()).Position.X)
}

// ---------- Events ----------

func TestEngine_PlayerCollisionScoresAndBursts(t *testing.T) {
	e := newTestEngine()
	e.SpawnEntity("p", components.TagPlayer, components.Vec3{X: 100, Y: 100})
	e.SpawnEntity("o", components.TagEnvironment, components.Vec3{X: 110, Y: 100})

	e.Tick(0)

	assert.Equal(t, config.Default().Collision.PlayerScore, e.Score())
	// One midpoint burst at intensity 0.5: 15 particles
	assert.Equal(t, 15, e.ParticleCount())
}

func TestEngine_DeadEntityRemovedWithOneBurst(t *testing.T) {
	e := newTestEngine()
	id := e.SpawnEntity("mortal", components.TagEnvironment, components.Vec3{X: 300, Y: 300})
	e.Store().AddHealth(id, components.NewHealth(10))
	e.Store().Health(id).Damage(100)

	e.Tick(0)

	assert.Equal(t, 0, e.EntityCount())
	// Exactly one death burst at intensity 1: 30 particles
	assert.Equal(t, 30, e.ParticleCount())

	// A second tick must not burst again for the same entity
	e.Tick(16.667)
	assert.Equal(t, 30, e.ParticleCount())
}

func TestEngine_RegenDeactivatesAtZero(t *testing.T) {
	e := newTestEngine()
	id := e.SpawnEntity("decaying", components.TagEnvironment, components.Vec3{X: 300, Y: 300})
	e.Store().AddHealth(id, components.Health{Current: 1, Max: 10, Regen: -100})

	e.Tick(0)      // first tick has zero delta; nothing decays
	e.Tick(33.333) // capped dt 0.033: regen drains the last hit point

	assert.Equal(t, 0, e.EntityCount())
}

// ---------- Quality gating ----------

func TestEngine_LowQualityGatesPhysicsAndCollision(t *testing.T) {
	e := newTestEngine()
	e.SetQuality(telemetry.QualityLow)

	id := e.SpawnEntity("body", components.TagEnvironment, components.Vec3{X: 500, Y: 500})
	e.Store().AddPhysics(id, components.Physics{Mass: 1, UseGravity: true})
	e.SpawnEntity("other", components.TagEnvironment, components.Vec3{X: 510, Y: 500})

	tickTimes(e, 5)

	tr := e.Store().Transform(id)
	assert.Equal(t, components.Vec3{X: 500, Y: 500}, tr.Position)
	assert.Equal(t, components.Vec3{}, tr.Velocity)
	assert.Zero(t, e.Score())
}

func TestEngine_MediumQualityGatesParticles(t *testing.T) {
	e := newTestEngine()
	e.SetQuality(telemetry.QualityMedium)
	e.SpawnExplosion(components.Vec3{X: 100, Y: 100}, 1)

	tickTimes(e, 5)

	// Spawning still works, but the update phase never runs: nothing ages
	assert.Equal(t, 30, e.ParticleCount())
}

// ---------- Telemetry surface ----------

func TestEngine_WindowStatsReflectState(t *testing.T) {
	e := newTestEngine()
	e.Reset(42)
	tickTimes(e, 3)

	stats := e.WindowStats()
	assert.Equal(t, int64(3), stats.Tick)
	assert.Equal(t, e.EntityCount(), stats.Entities)
	assert.Equal(t, e.ParticleCount(), stats.Particles)
	assert.Equal(t, e.Score(), stats.Score)
}

func TestEngine_RenderDataLayout(t *testing.T) {
	e := newTestEngine()
	id := e.SpawnEntity("one", components.TagEnvironment, components.Vec3{X: 10, Y: 20, Z: 30})
	e.Store().Transform(id).Rotation = 45

	data := e.EntityRenderData()
	require.Len(t, data, EntityRenderFloats)
	assert.Equal(t, float32(10), data[0])
	assert.Equal(t, float32(20), data[1])
	assert.Equal(t, float32(30), data[2])
	assert.Equal(t, float32(45), data[3])
	assert.Equal(t, float32(1), data[4]) // default scale

	// Inactive entities drop out of the snapshot immediately
	e.Store().SetActive(id, false)
	assert.Empty(t, e.EntityRenderData())
}
