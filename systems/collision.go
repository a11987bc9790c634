package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/kinetic/components"
	"github.com/pthm-cable/kinetic/config"
)

// Report carries the side effects of one collision pass. Resolution mutates
// transforms directly; scoring and visual feedback are returned as data so
// the engine decides what to do with them.
type Report struct {
	Score  int
	Bursts []components.Vec3
}

// candidate is a body snapshot taken during the broad phase.
type candidate struct {
	e      ecs.Entity
	tag    components.Tag
	pos    components.Vec3
	radius float32
	bounce float32
}

// pair indexes two overlapping candidates, collected during detection and
// resolved afterwards so resolution order never affects detection.
type pair struct {
	a, b int
}

// CollisionGrid is the circle-vs-circle broad+narrow phase. Bodies are binned
// into a uniform grid and only bodies sharing a cell are pair-tested: the
// cell size must stay at or above the largest expected radius sum, otherwise
// near-boundary contacts are missed.
type CollisionGrid struct {
	filter  ecs.Filter2[components.Meta, components.Transform]
	trMap   ecs.Map1[components.Transform]
	physMap ecs.Map1[components.Physics]

	cellSize      float32
	defaultRadius float32
	bounceScale   float32
	playerScore   int

	cells      map[int64][]int
	candidates []candidate
	pairs      []pair
}

// NewCollisionGrid creates a collision grid from configuration.
func NewCollisionGrid(w *ecs.World, cfg *config.Config) *CollisionGrid {
	return &CollisionGrid{
		filter:        *ecs.NewFilter2[components.Meta, components.Transform](w),
		trMap:         *ecs.NewMap1[components.Transform](w),
		physMap:       *ecs.NewMap1[components.Physics](w),
		cellSize:      float32(cfg.Collision.CellSize),
		defaultRadius: float32(cfg.Collision.DefaultRadius),
		bounceScale:   float32(cfg.Collision.BounceScale),
		playerScore:   cfg.Collision.PlayerScore,
		cells:         make(map[int64][]int),
	}
}

// Update runs one detection and resolution pass and reports side effects.
func (s *CollisionGrid) Update() Report {
	s.bin()
	s.detect()
	return s.resolve()
}

// bin snapshots all active bodies into grid cells.
func (s *CollisionGrid) bin() {
	s.candidates = s.candidates[:0]
	for k := range s.cells {
		delete(s.cells, k)
	}

	query := s.filter.Query()
	for query.Next() {
		meta, tr := query.Get()
		if !meta.Active {
			continue
		}

		c := candidate{
			e:      query.Entity(),
			tag:    meta.Tag,
			pos:    tr.Position,
			radius: s.defaultRadius,
			bounce: 0,
		}
		if phys := s.physMap.Get(c.e); phys != nil {
			c.radius = phys.Radius
			c.bounce = phys.Bounciness
		}

		idx := len(s.candidates)
		s.candidates = append(s.candidates, c)

		key := cellKey(c.pos.X, c.pos.Y, s.cellSize)
		s.cells[key] = append(s.cells[key], idx)
	}
}

// detect collects overlapping same-cell pairs.
func (s *CollisionGrid) detect() {
	s.pairs = s.pairs[:0]
	for _, bucket := range s.cells {
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				a := &s.candidates[bucket[i]]
				b := &s.candidates[bucket[j]]

				d := b.pos.Sub(a.pos)
				minDist := a.radius + b.radius
				if d.X*d.X+d.Y*d.Y+d.Z*d.Z < minDist*minDist {
					s.pairs = append(s.pairs, pair{bucket[i], bucket[j]})
				}
			}
		}
	}
}

// resolve pushes each pair apart symmetrically and applies an
// equal-and-opposite bounce impulse along the contact normal. Geometry comes
// from the positions captured at detection, so resolving one pair never
// reshapes or hides another detected in the same pass; only the write-back
// touches the live transforms.
func (s *CollisionGrid) resolve() Report {
	var rep Report

	for _, p := range s.pairs {
		a := &s.candidates[p.a]
		b := &s.candidates[p.b]

		trA := s.trMap.Get(a.e)
		trB := s.trMap.Get(b.e)
		if trA == nil || trB == nil {
			continue
		}

		d := b.pos.Sub(a.pos)
		dist := d.Length()

		normal := d.Normalized()
		if normal == (components.Vec3{}) {
			// Coincident centers; pick an arbitrary axis
			normal = components.Vec3{X: 1}
		}

		overlap := a.radius + b.radius - dist
		trA.Position = trA.Position.Sub(normal.Scale(overlap * 0.5))
		trB.Position = trB.Position.Add(normal.Scale(overlap * 0.5))

		impulse := s.bounceScale * (a.bounce + b.bounce) * 0.5
		trA.Velocity = trA.Velocity.Sub(normal.Scale(impulse))
		trB.Velocity = trB.Velocity.Add(normal.Scale(impulse))

		if a.tag == components.TagPlayer || b.tag == components.TagPlayer {
			rep.Score += s.playerScore
			mid := a.pos.Add(b.pos).Scale(0.5)
			rep.Bursts = append(rep.Bursts, mid)
		}
	}

	return rep
}

// cellKey packs the cell coordinates of a world position into one map key.
func cellKey(x, y, cellSize float32) int64 {
	cx := int32(math.Floor(float64(x / cellSize)))
	cy := int32(math.Floor(float64(y / cellSize)))
	return int64(cx)<<32 | int64(uint32(cy))
}
