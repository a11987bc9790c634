package components

// AIState enumerates the behavior state machine.
type AIState uint8

const (
	StateIdle AIState = iota
	StateWander
	StateSeek
	StateFlee
	StateFollow
)

// String returns the state name used in logs.
func (s AIState) String() string {
	switch s {
	case StateWander:
		return "wander"
	case StateSeek:
		return "seek"
	case StateFlee:
		return "flee"
	case StateFollow:
		return "follow"
	default:
		return "idle"
	}
}

// AI grants an entity steering behavior. Target acquisition runs on the
// decision timer; steering toward the current target runs every tick.
type AI struct {
	State         AIState
	Target        Vec3
	HasTarget     bool
	TargetID      uint32 // entity consulted by Seek/Follow; 0 = designated player
	Path          []Vec3 // pending waypoints, popped front-first on arrival
	DecisionTimer float32
	Enabled       bool
}

// NewAI returns an enabled AI block in the given state.
func NewAI(state AIState) AI {
	return AI{State: state, Enabled: true}
}
