package hrsf

// LightGeometry is the tagged variant for the shape of a light source.
// Exactly one concrete geometry applies to a given light, so point
// positions and directional directions cannot be confused.
type LightGeometry interface {
	lightGeometry()
}

// PointLight emits from a position with a falloff radius.
type PointLight struct {
	Position Vector
	Radius   float32
}

// DirectionalLight emits parallel rays along a direction.
type DirectionalLight struct {
	Direction Vector
}

func (PointLight) lightGeometry()       {}
func (DirectionalLight) lightGeometry() {}

// Light is one scene light source. Color is linear in memory and sRGB
// in the JSON file.
type Light struct {
	Geometry LightGeometry
	Color    Vector

	// Optional animation of the light position.
	Path Path
}

// Verify checks the light's animation path.
func (l *Light) Verify() error {
	return l.Path.Verify()
}
