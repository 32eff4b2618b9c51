package hrsf

// MaterialFlags are renderer hints stored as a bitset.
type MaterialFlags int

const (
	// Reflection marks a mirror-reflective material.
	Reflection MaterialFlags = 1 << iota
	// Transparent marks a material with alpha blending.
	Transparent
)

// MaterialTextures holds texture file paths. Empty means unused. Paths
// are absolute in memory and made relative to the JSON root on save.
type MaterialTextures struct {
	Ambient   string
	Diffuse   string
	Specular  string
	Occlusion string
}

// MaterialData is the shading portion of a material. Colors are linear
// in memory and sRGB in the JSON file.
type MaterialData struct {
	Ambient   Vector
	Roughness float32
	Diffuse   Vector
	Occlusion float32
	Specular  Vector
	Gloss     float32
	Emission  Vector
	Flags     MaterialFlags
}

// Material is one named scene material.
type Material struct {
	Name     string
	Textures MaterialTextures
	Data     MaterialData
}

// DefaultMaterialData returns the values assumed for absent JSON
// fields; matching fields are elided again on save.
func DefaultMaterialData() MaterialData {
	return MaterialData{
		Ambient:   V(1, 1, 1),
		Roughness: 1,
		Diffuse:   V(0.5, 0.5, 0.5),
		Occlusion: 1,
		Specular:  V(0, 0, 0),
		Gloss:     1,
		Emission:  V(0, 0, 0),
		Flags:     0,
	}
}
