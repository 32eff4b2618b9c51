package hrsf

import (
	"errors"
	"fmt"
)

// ErrInvalidPathSection is reported by Path.Verify when a section has a
// non-positive duration.
var ErrInvalidPathSection = errors.New("invalid path section")

// PathSection is one control point of an animation path: the time in
// seconds to travel from the previous section's position to this one.
type PathSection struct {
	Time     float32
	Position Vector
}

// Path animates a 3D point along a time-parameterized spline over its
// section list. The owning scene entity (camera, light) drives it with
// Update once per simulation tick and then samples Position or LookAt.
//
// A path is circular when its last section returns to the origin; the
// spline then wraps around the section list instead of flattening at
// the endpoints. Circularity affects spatial interpolation only: the
// section clock always loops, circular or not.
//
// The zero value is a static path that stays at the origin.
type Path struct {
	sections []PathSection
	scale    float32

	current  int
	elapsed  float32
	circular bool
}

// NewPath constructs a path from its sections and a uniform scale that
// is applied to every control point. The sections are not validated
// here; call Verify before animating loaded data.
func NewPath(sections []PathSection, scale float32) Path {
	n := len(sections)
	return Path{
		sections: sections,
		scale:    scale,
		circular: n > 0 && sections[n-1].Position.IsZero(),
	}
}

// IsStatic reports whether the path has no sections. Static paths are
// placeholders for entities without animation and are skipped when
// serializing.
func (p *Path) IsStatic() bool {
	return len(p.sections) == 0
}

// IsCircular reports whether the control polygon closes on itself.
func (p *Path) IsCircular() bool {
	return p.circular
}

// Sections returns the underlying section list. Callers must not
// mutate it.
func (p *Path) Sections() []PathSection {
	return p.sections
}

// Scale returns the uniform scale applied to control points.
func (p *Path) Scale() float32 {
	return p.scale
}

// Verify checks that every section has a positive duration. It never
// mutates the path and may be called at any time.
func (p *Path) Verify() error {
	for i, s := range p.sections {
		if s.Time <= 0 {
			return fmt.Errorf("%w: section %d has time %v", ErrInvalidPathSection, i, s.Time)
		}
	}
	return nil
}

// Update advances the section clock by dt seconds. A dt spanning
// several sections resolves fully in one call; a dt exactly equal to
// the remaining section time lands at the start of the next section.
// Cost is O(dt / min section time) for a single huge dt.
func (p *Path) Update(dt float32) {
	if len(p.sections) == 0 {
		return
	}
	p.elapsed += dt
	for p.elapsed >= p.sections[p.current].Time {
		// Non-positive section times would spin forever; Verify is the
		// gate for those, Update just stays total.
		if p.sections[p.current].Time <= 0 {
			return
		}
		p.elapsed -= p.sections[p.current].Time
		p.current = (p.current + 1) % len(p.sections)
	}
}

// Position returns the scaled spline position at the current clock.
func (p *Path) Position() Vector {
	switch len(p.sections) {
	case 0:
		return Vector{}
	case 1:
		// Straight line from the implicit origin anchor.
		f := p.elapsed / p.sections[0].Time
		return p.sections[0].Position.MulScalar(p.scale * f)
	}

	cur := p.current
	preLeft := p.anchor(cur - 1)
	left := p.anchor(cur)
	right := p.anchor(cur + 1)
	postRight := p.anchor(cur + 2)

	t := p.elapsed / p.sections[cur].Time
	return splineSegment(preLeft, left, right, postRight, t)
}

// LookAt returns the scaled gaze target at the current clock. Look-at
// paths always wrap: a gaze cycles through its targets regardless of
// whether the position polygon closes.
func (p *Path) LookAt() Vector {
	switch len(p.sections) {
	case 0:
		return Vector{}
	case 1:
		// A single target is a fixed, unscaled gaze point.
		return p.sections[0].Position
	}

	cur := p.current
	preLeft := p.lookAtAnchor(cur - 2)
	left := p.lookAtAnchor(cur - 1)
	right := p.lookAtAnchor(cur)
	postRight := p.lookAtAnchor(cur + 1)

	t := p.elapsed / p.sections[cur].Time
	return splineSegment(preLeft, left, right, postRight, t)
}

// anchor resolves a position anchor. Anchors are 1-based over the
// section list with anchor 0 being the implicit origin start point.
// Circular paths wrap; clamped paths pin everything before the start
// to the origin and everything past the end to the last section, which
// flattens the spline at both endpoints.
func (p *Path) anchor(i int) Vector {
	n := len(p.sections)
	if p.circular {
		return p.sections[wrapIndex(i-1, n)].Position.MulScalar(p.scale)
	}
	if i <= 0 {
		return Vector{}
	}
	if i > n {
		i = n
	}
	return p.sections[i-1].Position.MulScalar(p.scale)
}

// lookAtAnchor resolves a gaze anchor. Gaze anchors are 0-based and
// always wrap; there is no implicit origin in a look-at polygon.
func (p *Path) lookAtAnchor(i int) Vector {
	return p.sections[wrapIndex(i, len(p.sections))].Position.MulScalar(p.scale)
}

// splineSegment evaluates the curve between left and right at t in
// [0,1]. Control points are derived Catmull-Rom style from the outer
// anchors, then blended as a cubic Bezier.
func splineSegment(preLeft, left, right, postRight Vector, t float32) Vector {
	cp1 := left.Add(right.Sub(preLeft).DivScalar(6))
	cp2 := right.Add(left.Sub(postRight).DivScalar(6))

	u := 1 - t
	a := u * u * u
	b := 3 * t * u * u
	c := 3 * t * t * u
	d := t * t * t
	return left.MulScalar(a).
		Add(cp1.MulScalar(b)).
		Add(cp2.MulScalar(c)).
		Add(right.MulScalar(d))
}

// wrapIndex maps i into [0,n) with floored (always non-negative)
// modulo semantics.
func wrapIndex(i, n int) int {
	return ((i % n) + n) % n
}
