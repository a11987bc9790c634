package components

import "math"

// Vec3 is a float32 3-component vector. The simulation treats Z as an
// optional depth axis; 2D scenes simply leave it at zero.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Length returns the Euclidean magnitude of v.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Normalized returns the unit vector in the direction of v. Vectors shorter
// than 1e-3 normalize to the zero vector instead of dividing by zero.
func (v Vec3) Normalized() Vec3 {
	mag := v.Length()
	if mag > 1e-3 {
		return v.Scale(1 / mag)
	}
	return Vec3{}
}
