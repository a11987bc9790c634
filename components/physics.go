package components

// Physics grants an entity participation in integration and collision.
type Physics struct {
	Mass        float32
	Drag        float32 // quadratic drag coefficient
	AngularDrag float32
	Friction    float32 // per-second exponential velocity decay
	Bounciness  float32
	Radius      float32 // collision radius in world units

	Kinematic  bool // excluded from integration; transform still mutable by other systems
	UseGravity bool

	FreezeX bool
	FreezeY bool
	FreezeZ bool
}

// DefaultPhysics returns the baseline physics block used when a caller
// attaches physics without overriding parameters.
func DefaultPhysics() Physics {
	return Physics{
		Mass:       1.0,
		Drag:       0.02,
		Friction:   0.1,
		Bounciness: 0.5,
		Radius:     16.0,
		UseGravity: true,
	}
}
