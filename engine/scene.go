package engine

import (
	"fmt"
	"log/slog"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/kinetic/components"
)

// Reset rebuilds the deterministic starting scene: one player entity at the
// world center plus the configured number of wandering environment entities.
// Entity parameters come from the engine's seeded RNG and a noise field over
// position, so the same seed always produces the same scene.
func (e *Engine) Reset(seed int64) {
	e.store.Reset()
	e.particles.Reset()
	e.score = 0
	e.tick = 0
	e.axis = components.Vec3{}
	clear(e.keys)

	e.rng.Seed(seed)
	noise := opensimplex.NewNormalized(seed)

	w := float32(e.cfg.World.Width)
	h := float32(e.cfg.World.Height)

	e.playerID = e.spawnPlayer(components.Vec3{X: w / 2, Y: h / 2})

	for i := 0; i < e.cfg.Scene.EnvironmentCount; i++ {
		e.spawnEnvironment(i, noise, w, h)
	}

	slog.Info("scene reset",
		"seed", seed,
		"player_id", e.playerID,
		"entities", e.store.Count(),
	)
}

// spawnPlayer creates the input-driven player entity. It ignores gravity and
// carries heavy drag so it stops quickly when input ends.
func (e *Engine) spawnPlayer(pos components.Vec3) uint32 {
	id := e.store.Create("player", components.TagPlayer, pos)

	phys := components.DefaultPhysics()
	phys.UseGravity = false
	phys.Drag = 5
	e.store.AddPhysics(id, phys)

	e.store.AddHealth(id, components.NewHealth(100))

	if meta := e.store.Meta(id); meta != nil {
		meta.Color = components.Color{0, 1, 1, 1}
	}
	return id
}

// spawnEnvironment creates one wandering environment entity. Mass and scale
// are modulated by the noise field so nearby entities look related.
func (e *Engine) spawnEnvironment(i int, noise opensimplex.Noise, w, h float32) {
	pos := components.Vec3{
		X: e.rng.Float32() * w,
		Y: e.rng.Float32() * h,
	}

	ns := e.cfg.Scene.NoiseScale
	n := float32(noise.Eval2(float64(pos.X)*ns, float64(pos.Y)*ns))

	id := e.store.Create(fmt.Sprintf("env-%d", i), components.TagEnvironment, pos)

	phys := components.DefaultPhysics()
	phys.Mass = 0.5 + n*2
	phys.Bounciness = 0.2 + e.rng.Float32()*0.6
	phys.Drag = 0.01 + e.rng.Float32()*0.05
	phys.UseGravity = false
	e.store.AddPhysics(id, phys)

	e.store.AddAI(id, components.NewAI(components.StateWander))
	e.store.AddHealth(id, components.NewHealth(50))

	if tr := e.store.Transform(id); tr != nil {
		tr.Scale = 0.5 + n
	}
	if meta := e.store.Meta(id); meta != nil {
		meta.Color = components.Color{
			0.3 + e.rng.Float32()*0.7,
			0.3 + e.rng.Float32()*0.7,
			0.3 + e.rng.Float32()*0.7,
			1,
		}
	}
}
