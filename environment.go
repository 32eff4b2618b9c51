package hrsf

// Environment describes the scene background and ambient lighting.
// Color multiplies the environment map, or is the plain background
// color when no map is set.
type Environment struct {
	Color       Vector
	AmbientUp   Vector
	AmbientDown Vector

	Map     string // environment map file, optional
	Ambient string // ambient environment map file, optional
}

// DefaultEnvironment returns the values assumed for absent JSON fields.
func DefaultEnvironment() Environment {
	return Environment{
		Color: V(1, 1, 1),
	}
}
