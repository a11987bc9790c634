package components

// Health grants an entity hit points, passive regeneration, and damage
// mitigation. Current is clamped to [0, Max] after every mutation.
type Health struct {
	Current      float32
	Max          float32
	Regen        float32 // hit points per second; may be negative (decay)
	Armor        float32 // fraction of incoming damage absorbed, in [0,1]
	Invulnerable bool
}

// NewHealth returns a health block at full hit points.
func NewHealth(max float32) Health {
	return Health{Current: max, Max: max}
}

// Damage applies amount reduced by armor. No-op while invulnerable.
func (h *Health) Damage(amount float32) {
	if h.Invulnerable || amount <= 0 {
		return
	}
	h.Current -= amount * (1 - h.Armor)
	h.clamp()
}

// Heal restores amount up to Max.
func (h *Health) Heal(amount float32) {
	if amount <= 0 {
		return
	}
	h.Current += amount
	h.clamp()
}

// Regenerate applies Regen over dt seconds.
func (h *Health) Regenerate(dt float32) {
	if h.Regen == 0 {
		return
	}
	h.Current += h.Regen * dt
	h.clamp()
}

// Alive reports whether the entity still has hit points.
func (h *Health) Alive() bool {
	return h.Current > 0
}

func (h *Health) clamp() {
	if h.Current < 0 {
		h.Current = 0
	}
	if h.Current > h.Max {
		h.Current = h.Max
	}
}
