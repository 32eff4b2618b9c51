package hrsf

// CameraType selects the projection model.
type CameraType int

const (
	// Pinhole is the only projection currently defined by the format.
	Pinhole CameraType = iota
)

// Default camera clipping and orientation, filled in when the JSON
// omits the fields and elided again on save.
var (
	DefaultCameraNear = float32(0.1)
	DefaultCameraFar  = float32(10000)
	DefaultCameraUp   = V(0, 1, 0)
)

// Camera describes the scene viewpoint.
type Camera struct {
	Type      CameraType
	Position  Vector
	Direction Vector
	Fov       float32 // field of view in radians
	Near      float32 // near plane distance
	Far       float32 // far plane distance
	Up        Vector

	// Optional animation. A static path leaves the camera fixed.
	PositionPath Path
	LookAtPath   Path
}

// DefaultCamera returns a camera at the origin looking down +Z with
// the default clip planes.
func DefaultCamera() Camera {
	return Camera{
		Type:      Pinhole,
		Direction: V(0, 0, 1),
		Fov:       1.5708,
		Near:      DefaultCameraNear,
		Far:       DefaultCameraFar,
		Up:        DefaultCameraUp,
	}
}

// Verify checks the camera's animation paths.
func (c *Camera) Verify() error {
	if err := c.PositionPath.Verify(); err != nil {
		return err
	}
	return c.LookAtPath.Verify()
}
