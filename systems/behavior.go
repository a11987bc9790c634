package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/kinetic/components"
	"github.com/pthm-cable/kinetic/config"
)

// Behavior drives the per-entity steering state machine. Target acquisition
// runs on a fixed decision interval; steering toward (or away from) the
// current target accumulates force into Transform.Acceleration every tick,
// and the integrator consumes it.
//
// All target positions are read from a snapshot taken at the start of the
// update, so the outcome does not depend on entity iteration order.
type Behavior struct {
	agents  ecs.Filter3[components.Meta, components.Transform, components.AI]
	all     ecs.Filter2[components.Meta, components.Transform]
	physMap ecs.Map1[components.Physics]

	bounds           Bounds
	decisionInterval float32
	arrivalThreshold float32
	steerForce       float32

	rng      *rand.Rand
	snapshot map[uint32]components.Vec3
	playerID uint32
}

// NewBehavior creates a behavior system from configuration. The RNG is
// injected so runs with the same seed make the same decisions.
func NewBehavior(w *ecs.World, cfg *config.Config, rng *rand.Rand) *Behavior {
	return &Behavior{
		agents:  *ecs.NewFilter3[components.Meta, components.Transform, components.AI](w),
		all:     *ecs.NewFilter2[components.Meta, components.Transform](w),
		physMap: *ecs.NewMap1[components.Physics](w),
		bounds: Bounds{
			Width:  float32(cfg.World.Width),
			Height: float32(cfg.World.Height),
		},
		decisionInterval: float32(cfg.AI.DecisionInterval),
		arrivalThreshold: float32(cfg.AI.ArrivalThreshold),
		steerForce:       float32(cfg.AI.SteerForce),
		rng:              rng,
		snapshot:         make(map[uint32]components.Vec3),
	}
}

// Update advances decision timers and applies steering forces for dt seconds.
func (s *Behavior) Update(dt float32) {
	s.takeSnapshot()

	query := s.agents.Query()
	for query.Next() {
		meta, tr, ai := query.Get()
		if !meta.Active || !ai.Enabled {
			continue
		}

		ai.DecisionTimer -= dt
		if ai.DecisionTimer <= 0 {
			ai.DecisionTimer = s.decisionInterval
			s.decide(ai)
		}

		s.steer(query.Entity(), tr, ai)
	}
}

// takeSnapshot records the position of every active entity keyed by ID and
// notes the player, which is the implicit target for a zero TargetID.
func (s *Behavior) takeSnapshot() {
	clear(s.snapshot)
	s.playerID = 0
	query := s.all.Query()
	for query.Next() {
		meta, tr := query.Get()
		if !meta.Active {
			continue
		}
		s.snapshot[meta.ID] = tr.Position
		if meta.Tag == components.TagPlayer {
			s.playerID = meta.ID
		}
	}
}

// decide refreshes the agent's target according to its state.
func (s *Behavior) decide(ai *components.AI) {
	switch ai.State {
	case components.StateWander:
		// A new waypoint is only picked once the queued path drains.
		if len(ai.Path) == 0 {
			p := components.Vec3{
				X: s.rng.Float32() * s.bounds.Width,
				Y: s.rng.Float32() * s.bounds.Height,
			}
			ai.Path = append(ai.Path, p)
			ai.Target = p
			ai.HasTarget = true
		}

	case components.StateSeek, components.StateFollow:
		tid := ai.TargetID
		if tid == 0 {
			tid = s.playerID
		}
		pos, ok := s.snapshot[tid]
		if !ok {
			ai.HasTarget = false
			return
		}
		ai.Target = pos
		ai.HasTarget = true

	case components.StateFlee:
		// Flee targets come from the scenario; a decision never acquires one

	default:
		ai.HasTarget = false
	}
}

// steer applies the steering force toward the current goal. Queued path
// waypoints take precedence over the state target and are popped front-first
// on arrival. Only non-kinematic physics entities receive force; everything
// else keeps its target for inspection but does not move.
func (s *Behavior) steer(e ecs.Entity, tr *components.Transform, ai *components.AI) {
	goal, ok := s.currentGoal(ai)
	if !ok {
		return
	}

	to := goal.Sub(tr.Position)
	if to.Length() < s.arrivalThreshold {
		if len(ai.Path) > 0 {
			ai.Path = ai.Path[1:]
		}
		if len(ai.Path) == 0 {
			ai.HasTarget = false
		}
		return
	}

	phys := s.physMap.Get(e)
	if phys == nil || phys.Kinematic {
		return
	}
	mass := phys.Mass
	if mass <= 0 {
		mass = 1
	}

	force := to.Normalized().Scale(s.steerForce / mass)
	if ai.State == components.StateFlee {
		force = force.Scale(-1)
	}
	tr.Acceleration = tr.Acceleration.Add(force)
}

// currentGoal returns the position the agent is steering relative to.
func (s *Behavior) currentGoal(ai *components.AI) (components.Vec3, bool) {
	if len(ai.Path) > 0 {
		return ai.Path[0], true
	}
	if !ai.HasTarget {
		return components.Vec3{}, false
	}
	return ai.Target, true
}
