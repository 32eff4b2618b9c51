package hrsf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSrgbEndpoints(t *testing.T) {
	assert.Equal(t, float32(0), ToSrgb(0))
	assert.Equal(t, float32(1), ToSrgb(1))
	assert.Equal(t, float32(0), ToSrgb(-0.5))
	assert.Equal(t, float32(1), ToSrgb(2))
	assert.Equal(t, float32(0), FromSrgb(0))
	assert.Equal(t, float32(0), FromSrgb(-1))
}

func TestSrgbLinearSegment(t *testing.T) {
	// below the knee both directions are linear
	assert.InDelta(t, 12.92*0.002, ToSrgb(0.002), 1e-6)
	assert.InDelta(t, 0.02/12.92, FromSrgb(0.02), 1e-6)
}

func TestSrgbRoundTrip(t *testing.T) {
	for _, v := range []float32{0.001, 0.01, 0.1, 0.18, 0.5, 0.73, 0.99} {
		assert.InDelta(t, v, FromSrgb(ToSrgb(v)), 1e-3, "value %v", v)
	}
}

func TestSrgbVec(t *testing.T) {
	v := V(0.2, 0.5, 0.8)
	s := ToSrgbVec(v)
	assert.Equal(t, ToSrgb(0.2), s.X)
	assert.Equal(t, ToSrgb(0.5), s.Y)
	assert.Equal(t, ToSrgb(0.8), s.Z)

	back := FromSrgbVec(s)
	assertVecNear(t, v, back, 1e-3)
}
