// Package components defines the data blocks entities are composed of.
// Every entity carries Meta and Transform; the remaining blocks are optional
// capabilities attached per entity.
package components

// Tag classifies an entity for gameplay rules (scoring, AI targeting).
type Tag uint8

const (
	TagUntagged Tag = iota
	TagPlayer
	TagEnvironment
	TagPickup
	TagProjectile
)

// String returns the tag name used in logs and telemetry.
func (t Tag) String() string {
	switch t {
	case TagPlayer:
		return "player"
	case TagEnvironment:
		return "environment"
	case TagPickup:
		return "pickup"
	case TagProjectile:
		return "projectile"
	default:
		return "untagged"
	}
}

// Color is an RGBA color with components in [0,1].
type Color [4]float32

// Meta holds identity and lifecycle state shared by all entities.
// ID is assigned monotonically by the store and never reused.
type Meta struct {
	ID     uint32
	Name   string
	Tag    Tag
	Active bool
	Color  Color
}

// Transform holds an entity's kinematic state. Rotation is a single scalar
// in degrees and Scale is uniform; both feed straight into the render
// snapshot without further interpretation by the core.
type Transform struct {
	Position     Vec3
	Velocity     Vec3
	Acceleration Vec3
	Rotation     float32
	Scale        float32
}

// Network marks an entity as replicated by an external host layer. The
// simulation passes it through opaquely.
type Network struct {
	OwnerID   int32
	Authority bool
}
