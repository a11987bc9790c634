// Package systems contains ECS systems for the simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/kinetic/components"
	"github.com/pthm-cable/kinetic/config"
)

// SpinRate is the decorative rotation applied to every active entity, in
// degrees per second.
const SpinRate = 45.0

// minDragSpeed is the speed below which quadratic drag is skipped, both to
// avoid normalizing near-zero vectors and to let entities actually settle.
const minDragSpeed = 0.01

// Bounds represents the simulation world extents.
type Bounds struct {
	Width, Height float32
}

// Integrator advances physics bodies with semi-implicit Euler integration,
// split into fixed substeps for stability. Forces accumulated on an entity's
// Transform.Acceleration since the last tick act for the first sub-step only
// and are reset there; gravity and drag re-accumulate every sub-step.
type Integrator struct {
	bodies ecs.Filter3[components.Meta, components.Transform, components.Physics]
	all    ecs.Filter2[components.Meta, components.Transform]

	bounds     Bounds
	gravity    components.Vec3
	airDensity float32
	substeps   int
}

// NewIntegrator creates an integrator from configuration.
func NewIntegrator(w *ecs.World, cfg *config.Config) *Integrator {
	substeps := cfg.Physics.Substeps
	if substeps < 1 {
		substeps = 1
	}
	return &Integrator{
		bodies: *ecs.NewFilter3[components.Meta, components.Transform, components.Physics](w),
		all:    *ecs.NewFilter2[components.Meta, components.Transform](w),
		bounds: Bounds{
			Width:  float32(cfg.World.Width),
			Height: float32(cfg.World.Height),
		},
		gravity: components.Vec3{
			X: float32(cfg.Physics.GravityX),
			Y: float32(cfg.Physics.GravityY),
			Z: float32(cfg.Physics.GravityZ),
		},
		airDensity: float32(cfg.Physics.AirDensity),
		substeps:   substeps,
	}
}

// Update integrates all physics bodies over dt seconds, then applies the
// decorative spin and boundary wrap to every active entity.
func (s *Integrator) Update(dt float32) {
	if dt > 0 {
		subdt := dt / float32(s.substeps)

		query := s.bodies.Query()
		for query.Next() {
			meta, tr, phys := query.Get()
			if !meta.Active || phys.Kinematic {
				continue
			}
			s.integrate(tr, phys, subdt)
		}
	}

	s.spinAndWrap(dt)
}

// integrate runs the substep loop for one body. Drag is quadratic in speed
// and scaled by inverse mass; friction is a per-second linear velocity decay
// applied after the position update.
func (s *Integrator) integrate(tr *components.Transform, phys *components.Physics, subdt float32) {
	mass := phys.Mass
	if mass <= 0 {
		mass = 1
	}

	for i := 0; i < s.substeps; i++ {
		accel := tr.Acceleration
		if phys.UseGravity {
			accel = accel.Add(s.gravity)
		}

		speed := tr.Velocity.Length()
		if speed > minDragSpeed && phys.Drag > 0 {
			dragMag := 0.5 * s.airDensity * speed * speed * phys.Drag / mass
			accel = accel.Sub(tr.Velocity.Normalized().Scale(dragMag))
		}

		tr.Velocity = tr.Velocity.Add(accel.Scale(subdt))
		tr.Acceleration = components.Vec3{}

		// Frozen axes keep their velocity but never move
		step := tr.Velocity.Scale(subdt)
		if phys.FreezeX {
			step.X = 0
		}
		if phys.FreezeY {
			step.Y = 0
		}
		if phys.FreezeZ {
			step.Z = 0
		}
		tr.Position = tr.Position.Add(step)

		if phys.Friction > 0 {
			tr.Velocity = tr.Velocity.Scale(1 - phys.Friction*subdt)
		}
	}
}

// spinAndWrap applies the constant rotation and wraps positions that left the
// world on X or Y. Z is unbounded.
func (s *Integrator) spinAndWrap(dt float32) {
	query := s.all.Query()
	for query.Next() {
		meta, tr := query.Get()
		if !meta.Active {
			continue
		}

		tr.Rotation += SpinRate * dt
		for tr.Rotation >= 360 {
			tr.Rotation -= 360
		}
		for tr.Rotation < 0 {
			tr.Rotation += 360
		}

		if tr.Position.X < 0 {
			tr.Position.X += s.bounds.Width
		} else if tr.Position.X > s.bounds.Width {
			tr.Position.X -= s.bounds.Width
		}
		if tr.Position.Y < 0 {
			tr.Position.Y += s.bounds.Height
		} else if tr.Position.Y > s.bounds.Height {
			tr.Position.Y -= s.bounds.Height
		}
	}
}
