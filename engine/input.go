package engine

import "github.com/pthm-cable/kinetic/components"

// Host key codes understood by SetKey. The codes match the common browser
// and desktop keyCode values so hosts can forward raw key events.
const (
	KeyW     = 87
	KeyS     = 83
	KeyA     = 65
	KeyD     = 68
	KeyUp    = 38
	KeyDown  = 40
	KeyLeft  = 37
	KeyRight = 39
)

// SetKey records a key press or release. Unknown codes are stored but have
// no effect on movement.
func (e *Engine) SetKey(code int, pressed bool) {
	if pressed {
		e.keys[code] = true
	} else {
		delete(e.keys, code)
	}
}

// SetInputAxis sets a direct movement axis, for hosts that resolve input
// themselves (gamepads, touch). It combines additively with key state.
func (e *Engine) SetInputAxis(axis components.Vec3) {
	e.axis = axis
}

// inputAxis resolves the effective movement axis from keys and the direct
// axis. The result is not normalized; diagonals move faster, matching the
// raw key semantics hosts expect.
func (e *Engine) inputAxis() components.Vec3 {
	axis := e.axis

	if e.keys[KeyW] || e.keys[KeyUp] {
		axis.Y += 1
	}
	if e.keys[KeyS] || e.keys[KeyDown] {
		axis.Y -= 1
	}
	if e.keys[KeyA] || e.keys[KeyLeft] {
		axis.X -= 1
	}
	if e.keys[KeyD] || e.keys[KeyRight] {
		axis.X += 1
	}

	return axis
}

// applyInput accumulates the movement force on the player entity. Below the
// deadzone the input contributes nothing.
func (e *Engine) applyInput() {
	axis := e.inputAxis()
	if axis.Length() <= inputDeadzone {
		return
	}

	tr := e.store.Transform(e.playerID)
	if tr == nil {
		return
	}
	tr.Acceleration = tr.Acceleration.Add(axis.Scale(float32(e.cfg.Physics.MoveSpeed)))
}
