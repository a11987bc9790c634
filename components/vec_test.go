package components

import (
	"math"
	"testing"
)

func TestVec3_Length(t *testing.T) {
	v := Vec3{X: 3, Y: 4}
	if math.Abs(float64(v.Length()-5)) > 1e-6 {
		t.Errorf("expected length 5, got %f", v.Length())
	}
}

func TestVec3_NormalizedUnit(t *testing.T) {
	v := Vec3{X: 10, Y: 0, Z: 0}.Normalized()
	if math.Abs(float64(v.X-1)) > 1e-6 || v.Y != 0 || v.Z != 0 {
		t.Errorf("expected unit x, got %+v", v)
	}
}

func TestVec3_NormalizedZeroSafe(t *testing.T) {
	// Vectors below the epsilon normalize to zero instead of blowing up
	v := Vec3{X: 1e-4, Y: 1e-4}.Normalized()
	if v != (Vec3{}) {
		t.Errorf("expected zero vector for tiny input, got %+v", v)
	}
}

func TestVec3_Arithmetic(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: 4, Y: 5, Z: 6}

	if got := a.Add(b); got != (Vec3{X: 5, Y: 7, Z: 9}) {
		t.Errorf("Add: got %+v", got)
	}
	if got := b.Sub(a); got != (Vec3{X: 3, Y: 3, Z: 3}) {
		t.Errorf("Sub: got %+v", got)
	}
	if got := a.Scale(2); got != (Vec3{X: 2, Y: 4, Z: 6}) {
		t.Errorf("Scale: got %+v", got)
	}
}
