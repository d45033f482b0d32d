// pkg/physics/vector.go
package physics

import "math"

// Vector3 represents a 3D vector with x, y and z components
type Vector3 struct {
	X float64
	Y float64
	Z float64
}

// Add returns the sum of two vectors
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Sub returns the difference between two vectors
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{
		X: v.X - other.X,
		Y: v.Y - other.Y,
		Z: v.Z - other.Z,
	}
}

// Scale multiplies the vector by a scalar value
func (v Vector3) Scale(factor float64) Vector3 {
	return Vector3{
		X: v.X * factor,
		Y: v.Y * factor,
		Z: v.Z * factor,
	}
}

// Length returns the magnitude of the vector
func (v Vector3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LengthSquared returns magnitude squared (optimization for comparisons)
func (v Vector3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalize returns a unit vector in the same direction.
// A zero-length vector normalizes to the zero vector; callers treat that
// as "no aim contribution" rather than an error.
func (v Vector3) Normalize() Vector3 {
	length := v.Length()
	if length == 0 {
		return Vector3{}
	}
	return Vector3{
		X: v.X / length,
		Y: v.Y / length,
		Z: v.Z / length,
	}
}

// Distance returns the distance between two vectors
func (v Vector3) Distance(other Vector3) float64 {
	return v.Sub(other).Length()
}

// Dot returns the dot product of two vectors
func (v Vector3) Dot(other Vector3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// HorizontalDistance returns the distance between two vectors ignoring
// the vertical (Y) component.
func (v Vector3) HorizontalDistance(other Vector3) float64 {
	dx := v.X - other.X
	dz := v.Z - other.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// FromYawPitch creates a unit direction vector from a yaw angle around the
// vertical axis and a pitch angle above the horizontal plane.
func FromYawPitch(yaw, pitch float64) Vector3 {
	cosPitch := math.Cos(pitch)
	return Vector3{
		X: math.Cos(yaw) * cosPitch,
		Y: math.Sin(pitch),
		Z: math.Sin(yaw) * cosPitch,
	}
}

// Clamp constrains a scalar to the range [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp linearly interpolates between a and b by t
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
