package hrsf

import (
	"github.com/chewxy/math32"
)

// Vector is a 3-component float32 vector. It is used for positions,
// directions and linear-space colors throughout the scene format.
type Vector struct {
	X, Y, Z float32
}

// V is shorthand for constructing a Vector.
func V(x, y, z float32) Vector {
	return Vector{x, y, z}
}

// Splat returns a vector with all three components set to s.
func Splat(s float32) Vector {
	return Vector{s, s, s}
}

// Add returns a + b.
func (a Vector) Add(b Vector) Vector {
	return Vector{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns a - b.
func (a Vector) Sub(b Vector) Vector {
	return Vector{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Mul returns the component-wise product of a and b.
func (a Vector) Mul(b Vector) Vector {
	return Vector{a.X * b.X, a.Y * b.Y, a.Z * b.Z}
}

// MulScalar returns a scaled by s.
func (a Vector) MulScalar(s float32) Vector {
	return Vector{a.X * s, a.Y * s, a.Z * s}
}

// DivScalar returns a divided by s.
func (a Vector) DivScalar(s float32) Vector {
	return Vector{a.X / s, a.Y / s, a.Z / s}
}

// Dot returns the dot product of a and b.
func (a Vector) Dot(b Vector) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Length returns the euclidean length of a.
func (a Vector) Length() float32 {
	return math32.Sqrt(a.Dot(a))
}

// Normalize returns a scaled to unit length. The zero vector is
// returned unchanged.
func (a Vector) Normalize() Vector {
	l := a.Length()
	if l == 0 {
		return a
	}
	return a.DivScalar(l)
}

// Lerp linearly interpolates from a to b by t.
func (a Vector) Lerp(b Vector, t float32) Vector {
	return a.Add(b.Sub(a).MulScalar(t))
}

// IsZero reports whether all components are exactly zero.
func (a Vector) IsZero() bool {
	return a.X == 0 && a.Y == 0 && a.Z == 0
}

// NearEqual reports whether a and b differ by less than eps in every
// component.
func (a Vector) NearEqual(b Vector, eps float32) bool {
	return math32.Abs(a.X-b.X) < eps &&
		math32.Abs(a.Y-b.Y) < eps &&
		math32.Abs(a.Z-b.Z) < eps
}
