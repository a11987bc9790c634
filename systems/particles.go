package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/kinetic/components"
	"github.com/pthm-cable/kinetic/config"
)

// ParticleType identifies the type of effect particle. Types are cosmetic:
// they select spawn parameters and color, not behavior.
type ParticleType uint8

const (
	ParticleFire ParticleType = iota
	ParticleSmoke
	ParticleSpark
	ParticleExplosion
	ParticleTrail
)

// Particle is one pooled effect particle. Inactive particles keep their slot
// until the next compaction pass but never reach the render snapshot.
type Particle struct {
	Position components.Vec3
	Velocity components.Vec3
	Color    components.Color
	Life     float32 // seconds remaining
	MaxLife  float32
	Size     float32
	Rotation float32
	Spin     float32 // degrees per second
	Type     ParticleType
	Active   bool
}

// Emitter spawns particles at a fixed rate until its lifetime elapses.
type Emitter struct {
	Position components.Vec3
	Rate     float32 // particles per second
	Lifetime float32 // seconds; <= 0 means already expired
	Age      float32
	Type     ParticleType
	Active   bool

	accumulator float32
}

// ParticlePool owns all effect particles and emitters. The pool is
// capacity-bounded: spawns beyond the configured maximum are dropped, and a
// single explosion never spawns more than the burst limit.
type ParticlePool struct {
	particles []Particle
	emitters  []Emitter

	maxCount        int
	burstLimit      int
	gravity         components.Vec3
	wind            components.Vec3
	compactInterval int

	activeCount int
	tickCount   int
	rng         *rand.Rand
}

// NewParticlePool creates a particle pool from configuration.
func NewParticlePool(cfg *config.Config, rng *rand.Rand) *ParticlePool {
	return &ParticlePool{
		particles:  make([]Particle, 0, cfg.Particles.MaxCount),
		maxCount:   cfg.Particles.MaxCount,
		burstLimit: cfg.Particles.BurstLimit,
		gravity:    components.Vec3{Y: float32(cfg.Particles.GravityY)},
		wind: components.Vec3{
			X: float32(cfg.Particles.WindX),
			Y: float32(cfg.Particles.WindY),
			Z: float32(cfg.Particles.WindZ),
		},
		compactInterval: cfg.Particles.CompactInterval,
		rng:             rng,
	}
}

// Explode spawns a radial burst at pos. Intensity scales the particle count;
// the count is truncated to the burst limit and to remaining pool capacity.
func (s *ParticlePool) Explode(pos components.Vec3, intensity float32) int {
	count := int(intensity * 30)
	if count > s.burstLimit {
		count = s.burstLimit
	}
	if remaining := s.maxCount - s.activeCount; count > remaining {
		count = remaining
	}

	for i := 0; i < count; i++ {
		angle := s.rng.Float32() * 2 * math.Pi
		speed := 80 + s.rng.Float32()*120
		life := 1 + s.rng.Float32()

		s.spawn(Particle{
			Position: pos,
			Velocity: components.Vec3{
				X: float32(math.Cos(float64(angle))) * speed,
				Y: float32(math.Sin(float64(angle))) * speed,
			},
			Color:    components.Color{1, 0.4 + s.rng.Float32()*0.3, 0.1, 1},
			Life:     life,
			MaxLife:  life,
			Size:     3 + s.rng.Float32()*4,
			Rotation: s.rng.Float32() * 360,
			Spin:     (s.rng.Float32() - 0.5) * 10,
			Type:     ParticleExplosion,
			Active:   true,
		})
	}
	return count
}

// AddEmitter registers a continuous emitter at pos spawning rate particles
// per second for lifetime seconds.
func (s *ParticlePool) AddEmitter(pos components.Vec3, rate, lifetime float32, ptype ParticleType) {
	if rate <= 0 || lifetime <= 0 {
		return
	}
	s.emitters = append(s.emitters, Emitter{
		Position: pos,
		Rate:     rate,
		Lifetime: lifetime,
		Type:     ptype,
		Active:   true,
	})
}

// Update advances all emitters and particles by dt seconds.
func (s *ParticlePool) Update(dt float32) {
	s.tickCount++

	s.updateEmitters(dt)

	accel := s.gravity.Add(s.wind)
	for i := range s.particles {
		p := &s.particles[i]
		if !p.Active {
			continue
		}

		// Motion first: a particle still moves on the tick that kills it
		p.Velocity = p.Velocity.Add(accel.Scale(dt))
		p.Position = p.Position.Add(p.Velocity.Scale(dt))
		p.Rotation += p.Spin * dt

		p.Life -= dt
		if p.Life <= 0 {
			p.Active = false
			s.activeCount--
			continue
		}

		p.Color[3] = p.Life / p.MaxLife
		p.Size *= 0.995
	}

	if s.compactInterval > 0 && s.tickCount%s.compactInterval == 0 {
		s.compact()
	}
}

func (s *ParticlePool) updateEmitters(dt float32) {
	alive := 0
	for i := range s.emitters {
		em := &s.emitters[i]

		em.Age += dt
		if em.Age >= em.Lifetime {
			em.Active = false
			continue
		}

		em.accumulator += em.Rate * dt
		for em.accumulator >= 1 {
			em.accumulator--
			s.spawnFromEmitter(em)
		}

		s.emitters[alive] = s.emitters[i]
		alive++
	}
	s.emitters = s.emitters[:alive]
}

// spawnFromEmitter spawns one particle with type-specific parameters.
func (s *ParticlePool) spawnFromEmitter(em *Emitter) {
	jitter := components.Vec3{
		X: (s.rng.Float32() - 0.5) * 4,
		Y: (s.rng.Float32() - 0.5) * 4,
	}

	p := Particle{
		Position: em.Position.Add(jitter),
		Life:     1 + s.rng.Float32(),
		Size:     3 + s.rng.Float32()*4,
		Rotation: s.rng.Float32() * 360,
		Spin:     (s.rng.Float32() - 0.5) * 10,
		Type:     em.Type,
		Active:   true,
	}
	p.MaxLife = p.Life

	switch em.Type {
	case ParticleFire:
		p.Velocity = components.Vec3{X: (s.rng.Float32() - 0.5) * 30, Y: 60 + s.rng.Float32()*40}
		p.Color = components.Color{1, 0.5, 0.1, 1}
	case ParticleSmoke:
		p.Velocity = components.Vec3{X: (s.rng.Float32() - 0.5) * 15, Y: 30 + s.rng.Float32()*20}
		p.Color = components.Color{0.4, 0.4, 0.4, 1}
	case ParticleSpark:
		p.Velocity = components.Vec3{X: (s.rng.Float32() - 0.5) * 160, Y: (s.rng.Float32() - 0.5) * 160}
		p.Color = components.Color{1, 0.9, 0.3, 1}
	case ParticleTrail:
		p.Velocity = components.Vec3{}
		p.Color = components.Color{0.6, 0.8, 1, 1}
	default:
		p.Velocity = components.Vec3{X: (s.rng.Float32() - 0.5) * 60, Y: (s.rng.Float32() - 0.5) * 60}
		p.Color = components.Color{1, 0.5, 0.1, 1}
	}

	s.spawn(p)
}

// spawn appends p if the pool has capacity, dropping it otherwise.
func (s *ParticlePool) spawn(p Particle) {
	if s.activeCount >= s.maxCount {
		return
	}
	s.particles = append(s.particles, p)
	s.activeCount++
}

// compact removes inactive slots, preserving the relative order of live
// particles. Runs on the configured interval rather than every tick.
func (s *ParticlePool) compact() {
	alive := 0
	for i := range s.particles {
		if s.particles[i].Active {
			s.particles[alive] = s.particles[i]
			alive++
		}
	}
	s.particles = s.particles[:alive]
}

// Count returns the number of active particles.
func (s *ParticlePool) Count() int {
	return s.activeCount
}

// EmitterCount returns the number of live emitters.
func (s *ParticlePool) EmitterCount() int {
	return len(s.emitters)
}

// Slots returns the current storage length including inactive slots awaiting
// compaction.
func (s *ParticlePool) Slots() int {
	return len(s.particles)
}

// Reset drops all particles and emitters.
func (s *ParticlePool) Reset() {
	s.particles = s.particles[:0]
	s.emitters = s.emitters[:0]
	s.activeCount = 0
	s.tickCount = 0
}

// RenderData appends x, y, z, size, r, g, b, a for every active particle to
// dst and returns the result.
func (s *ParticlePool) RenderData(dst []float32) []float32 {
	for i := range s.particles {
		p := &s.particles[i]
		if !p.Active {
			continue
		}
		dst = append(dst,
			p.Position.X, p.Position.Y, p.Position.Z, p.Size,
			p.Color[0], p.Color[1], p.Color[2], p.Color[3],
		)
	}
	return dst
}
