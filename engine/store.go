// Package engine wires the component store, systems, and governor into the
// simulation driven by Tick.
package engine

import (
	"github.com/kamstrup/intmap"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/kinetic/components"
)

// Store owns the entity world. Every entity carries Meta and Transform;
// capability blocks are attached per entity through the Add* methods.
//
// IDs are assigned monotonically starting at 1 and never reused, so a stale
// ID held by a host across a removal can never alias a newer entity.
type Store struct {
	world *ecs.World

	base       *ecs.Map2[components.Meta, components.Transform]
	baseFilter *ecs.Filter2[components.Meta, components.Transform]

	physMap   *ecs.Map1[components.Physics]
	healthMap *ecs.Map1[components.Health]
	aiMap     *ecs.Map1[components.AI]
	netMap    *ecs.Map1[components.Network]

	byID   *intmap.Map[uint32, ecs.Entity]
	nextID uint32
}

// NewStore creates an empty store.
func NewStore() *Store {
	world := ecs.NewWorld()
	return &Store{
		world:      world,
		base:       ecs.NewMap2[components.Meta, components.Transform](world),
		baseFilter: ecs.NewFilter2[components.Meta, components.Transform](world),
		physMap:    ecs.NewMap1[components.Physics](world),
		healthMap:  ecs.NewMap1[components.Health](world),
		aiMap:      ecs.NewMap1[components.AI](world),
		netMap:     ecs.NewMap1[components.Network](world),
		byID:       intmap.New[uint32, ecs.Entity](256),
		nextID:     1,
	}
}

// World returns the underlying ECS world for system construction.
func (s *Store) World() *ecs.World {
	return s.world
}

// Create spawns an active entity at pos and returns its ID.
func (s *Store) Create(name string, tag components.Tag, pos components.Vec3) uint32 {
	id := s.nextID
	s.nextID++

	meta := components.Meta{
		ID:     id,
		Name:   name,
		Tag:    tag,
		Active: true,
		Color:  components.Color{1, 1, 1, 1},
	}
	tr := components.Transform{
		Position: pos,
		Scale:    1,
	}

	e := s.base.NewEntity(&meta, &tr)
	s.byID.Put(id, e)
	return id
}

// Entity resolves an ID to its ECS entity. A missing or removed ID returns
// false; callers treat that as a normal outcome, not an error.
func (s *Store) Entity(id uint32) (ecs.Entity, bool) {
	e, ok := s.byID.Get(id)
	if !ok || !s.world.Alive(e) {
		return ecs.Entity{}, false
	}
	return e, true
}

// Meta returns the meta block for id, or nil if the entity is gone.
func (s *Store) Meta(id uint32) *components.Meta {
	e, ok := s.Entity(id)
	if !ok {
		return nil
	}
	meta, _ := s.base.Get(e)
	return meta
}

// Transform returns the transform block for id, or nil if the entity is gone.
func (s *Store) Transform(id uint32) *components.Transform {
	e, ok := s.Entity(id)
	if !ok {
		return nil
	}
	_, tr := s.base.Get(e)
	return tr
}

// AddPhysics attaches a physics block to id.
func (s *Store) AddPhysics(id uint32, phys components.Physics) bool {
	e, ok := s.Entity(id)
	if !ok {
		return false
	}
	s.physMap.Add(e, &phys)
	return true
}

// AddHealth attaches a health block to id.
func (s *Store) AddHealth(id uint32, h components.Health) bool {
	e, ok := s.Entity(id)
	if !ok {
		return false
	}
	s.healthMap.Add(e, &h)
	return true
}

// AddAI attaches an AI block to id.
func (s *Store) AddAI(id uint32, ai components.AI) bool {
	e, ok := s.Entity(id)
	if !ok {
		return false
	}
	s.aiMap.Add(e, &ai)
	return true
}

// AddNetwork attaches a network block to id.
func (s *Store) AddNetwork(id uint32, net components.Network) bool {
	e, ok := s.Entity(id)
	if !ok {
		return false
	}
	s.netMap.Add(e, &net)
	return true
}

// Physics returns the physics block for id, or nil.
func (s *Store) Physics(id uint32) *components.Physics {
	e, ok := s.Entity(id)
	if !ok {
		return nil
	}
	return s.physMap.Get(e)
}

// Health returns the health block for id, or nil.
func (s *Store) Health(id uint32) *components.Health {
	e, ok := s.Entity(id)
	if !ok {
		return nil
	}
	return s.healthMap.Get(e)
}

// AI returns the AI block for id, or nil.
func (s *Store) AI(id uint32) *components.AI {
	e, ok := s.Entity(id)
	if !ok {
		return nil
	}
	return s.aiMap.Get(e)
}

// Network returns the network block for id, or nil.
func (s *Store) Network(id uint32) *components.Network {
	e, ok := s.Entity(id)
	if !ok {
		return nil
	}
	return s.netMap.Get(e)
}

// SetActive marks id active or inactive. Inactive entities are skipped by
// every system and destroyed at the next cleanup pass.
func (s *Store) SetActive(id uint32, active bool) bool {
	meta := s.Meta(id)
	if meta == nil {
		return false
	}
	meta.Active = active
	return true
}

// Removed records an entity destroyed by RemoveInactive, with its last
// position so the caller can place removal effects.
type Removed struct {
	Meta     components.Meta
	Position components.Vec3
}

// RemoveInactive destroys every entity that is inactive or whose health has
// run out. It is the single point where entities leave the world; removals
// are collected during the query and applied after, so iteration never sees
// a half-removed world.
func (s *Store) RemoveInactive() []Removed {
	type removal struct {
		e ecs.Entity
		r Removed
	}
	var dead []removal

	query := s.baseFilter.Query()
	for query.Next() {
		meta, tr := query.Get()
		if meta.Active {
			if h := s.healthMap.Get(query.Entity()); h == nil || h.Alive() {
				continue
			}
		}
		dead = append(dead, removal{
			e: query.Entity(),
			r: Removed{Meta: *meta, Position: tr.Position},
		})
	}

	if len(dead) == 0 {
		return nil
	}

	removed := make([]Removed, 0, len(dead))
	for _, d := range dead {
		s.world.RemoveEntity(d.e)
		s.byID.Del(d.r.Meta.ID)
		removed = append(removed, d.r)
	}
	return removed
}

// Count returns the number of live entities.
func (s *Store) Count() int {
	return s.byID.Len()
}

// Reset destroys all entities. The ID sequence keeps counting: a reset never
// re-issues an ID that was handed out before.
func (s *Store) Reset() {
	var all []ecs.Entity
	query := s.baseFilter.Query()
	for query.Next() {
		all = append(all, query.Entity())
	}
	for _, e := range all {
		s.world.RemoveEntity(e)
	}
	s.byID.Clear()
}
