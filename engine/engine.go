package engine

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/kinetic/components"
	"github.com/pthm-cable/kinetic/config"
	"github.com/pthm-cable/kinetic/systems"
	"github.com/pthm-cable/kinetic/telemetry"
)

// deathBurstIntensity sizes the explosion emitted when an entity is removed.
const deathBurstIntensity = 1.0

// collisionBurstIntensity sizes the feedback explosion at a player contact.
const collisionBurstIntensity = 0.5

// inputDeadzone is the axis magnitude below which input is ignored.
const inputDeadzone = 0.1

// Options configures a new engine.
type Options struct {
	Config *config.Config
	Seed   int64
}

// Engine owns the store, the systems, and the governor, and advances them
// from host-supplied timestamps. One Engine is one simulation; it is not
// safe for concurrent use.
type Engine struct {
	cfg   *config.Config
	rng   *rand.Rand
	store *Store

	integrator *systems.Integrator
	behavior   *systems.Behavior
	collision  *systems.CollisionGrid
	particles  *systems.ParticlePool

	governor *telemetry.Governor
	perf     *telemetry.PerfCollector

	healthFilter *ecs.Filter2[components.Meta, components.Health]

	playerID  uint32
	score     int
	tick      int64
	paused    bool
	timeScale float32

	keys map[int]bool
	axis components.Vec3
}

// New creates an engine with an empty world. Call Reset to populate the
// starting scene.
func New(opts Options) *Engine {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	store := NewStore()
	w := store.World()

	return &Engine{
		cfg:          cfg,
		rng:          rng,
		store:        store,
		integrator:   systems.NewIntegrator(w, cfg),
		behavior:     systems.NewBehavior(w, cfg, rng),
		collision:    systems.NewCollisionGrid(w, cfg),
		particles:    systems.NewParticlePool(cfg, rng),
		governor:     telemetry.NewGovernor(cfg),
		perf:         telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		healthFilter: ecs.NewFilter2[components.Meta, components.Health](w),
		timeScale:    1,
		keys:         make(map[int]bool),
	}
}

// Tick advances the simulation using the host's monotonic timestamp in
// milliseconds. While paused it returns before any state mutation, so a
// paused engine is bit-for-bit idle.
func (e *Engine) Tick(nowMS float64) {
	if e.paused {
		return
	}

	e.perf.StartTick()

	e.perf.StartPhase(telemetry.PhaseGovernor)
	dt := e.governor.Update(nowMS) * e.timeScale
	quality := e.governor.Quality()
	e.tick++

	e.perf.StartPhase(telemetry.PhaseInput)
	e.applyInput()

	e.perf.StartPhase(telemetry.PhaseAI)
	e.behavior.Update(dt)

	if quality >= telemetry.QualityMedium {
		e.perf.StartPhase(telemetry.PhasePhysics)
		e.integrator.Update(dt)

		e.perf.StartPhase(telemetry.PhaseCollision)
		rep := e.collision.Update()
		e.score += rep.Score
		for _, pos := range rep.Bursts {
			e.particles.Explode(pos, collisionBurstIntensity)
		}
	}

	e.perf.StartPhase(telemetry.PhaseHealth)
	e.regenerate(dt)

	if quality >= telemetry.QualityHigh {
		e.perf.StartPhase(telemetry.PhaseParticles)
		e.particles.Update(dt)
	}

	e.perf.StartPhase(telemetry.PhaseCleanup)
	for _, r := range e.store.RemoveInactive() {
		e.particles.Explode(r.Position, deathBurstIntensity)
		slog.Debug("entity removed", "id", r.Meta.ID, "name", r.Meta.Name, "tag", r.Meta.Tag.String())
	}

	e.perf.EndTick()
}

// regenerate applies passive health regeneration and deactivates entities
// whose health ran out. The actual removal happens in the cleanup phase.
func (e *Engine) regenerate(dt float32) {
	query := e.healthFilter.Query()
	for query.Next() {
		meta, h := query.Get()
		if !meta.Active {
			continue
		}
		h.Regenerate(dt)
		if !h.Alive() {
			meta.Active = false
		}
	}
}

// SpawnEntity creates an active entity and returns its ID.
func (e *Engine) SpawnEntity(name string, tag components.Tag, pos components.Vec3) uint32 {
	return e.store.Create(name, tag, pos)
}

// SpawnExplosion triggers a particle burst at pos and returns the number of
// particles actually spawned.
func (e *Engine) SpawnExplosion(pos components.Vec3, intensity float32) int {
	return e.particles.Explode(pos, intensity)
}

// AddEmitter registers a continuous particle emitter.
func (e *Engine) AddEmitter(pos components.Vec3, rate, lifetime float32, ptype systems.ParticleType) {
	e.particles.AddEmitter(pos, rate, lifetime, ptype)
}

// SetPaused pauses or resumes the simulation.
func (e *Engine) SetPaused(paused bool) {
	e.paused = paused
}

// Paused reports whether the simulation is paused.
func (e *Engine) Paused() bool {
	return e.paused
}

// SetTimeScale scales delta time for all systems. Negative values are
// clamped to zero.
func (e *Engine) SetTimeScale(scale float32) {
	if scale < 0 {
		scale = 0
	}
	e.timeScale = scale
}

// SetQuality forces a quality level and disables adaptive adjustment.
func (e *Engine) SetQuality(level int) {
	e.governor.SetQuality(level)
}

// EnableAdaptiveQuality re-enables governor-driven quality adjustment.
func (e *Engine) EnableAdaptiveQuality(enabled bool) {
	e.governor.EnableAdaptive(enabled)
}

// Score returns the accumulated player score.
func (e *Engine) Score() int {
	return e.score
}

// TickCount returns the number of ticks advanced since the last reset.
func (e *Engine) TickCount() int64 {
	return e.tick
}

// EntityCount returns the number of live entities.
func (e *Engine) EntityCount() int {
	return e.store.Count()
}

// ParticleCount returns the number of active particles.
func (e *Engine) ParticleCount() int {
	return e.particles.Count()
}

// PlayerID returns the ID of the designated player entity, 0 before Reset.
func (e *Engine) PlayerID() uint32 {
	return e.playerID
}

// Store exposes the entity store for hosts that manage entities directly.
func (e *Engine) Store() *Store {
	return e.store
}

// Governor exposes the quality governor.
func (e *Engine) Governor() *telemetry.Governor {
	return e.governor
}

// Particles exposes the particle pool.
func (e *Engine) Particles() *systems.ParticlePool {
	return e.particles
}

// Perf exposes the per-phase timing collector.
func (e *Engine) Perf() *telemetry.PerfCollector {
	return e.perf
}

// WindowStats builds a telemetry row from the current engine state.
func (e *Engine) WindowStats() telemetry.WindowStats {
	return telemetry.BuildWindowStats(e.tick, e.store.Count(), e.particles.Count(), e.score, e.governor)
}
