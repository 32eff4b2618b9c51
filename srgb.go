package hrsf

import (
	"github.com/chewxy/math32"
)

// Colors live in linear space in memory and in sRGB space in the JSON
// files; conversion happens once at the serialization boundary.

// ToSrgb converts a linear color channel to sRGB.
func ToSrgb(value float32) float32 {
	if value >= 1 {
		return 1
	}
	if value <= 0 {
		return 0
	}
	if value <= 0.0031308 {
		return 12.92 * value
	}
	return 1.055*math32.Pow(value, 0.41666) - 0.055
}

// FromSrgb converts an sRGB color channel to linear space.
func FromSrgb(value float32) float32 {
	if value <= 0 {
		return 0
	}
	if value <= 0.04045 {
		return value / 12.92
	}
	return math32.Pow((value+0.055)/1.055, 2.4)
}

// ToSrgbVec converts a linear color vector to sRGB.
func ToSrgbVec(v Vector) Vector {
	return Vector{ToSrgb(v.X), ToSrgb(v.Y), ToSrgb(v.Z)}
}

// FromSrgbVec converts an sRGB color vector to linear space.
func FromSrgbVec(v Vector) Vector {
	return Vector{FromSrgb(v.X), FromSrgb(v.Y), FromSrgb(v.Z)}
}
