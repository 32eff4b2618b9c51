package hrsf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScene() *Scene {
	cam := DefaultCamera()
	cam.Fov = 1.4
	cam.Far = 1
	cam.Position = V(10, 20, 30)
	cam.Direction = V(0, 0, -1)
	cam.LookAtPath = NewPath([]PathSection{
		{Time: 2, Position: V(1, 0, 0)},
		{Time: 3, Position: V(0, 1, 0)},
	}, 1)

	lights := []Light{
		{
			Geometry: PointLight{Position: V(0, 30, 0), Radius: 10},
			Color:    V(1, 0, 0),
			Path: NewPath([]PathSection{
				{Time: 1, Position: V(5, 0, 0)},
				{Time: 1, Position: V(0, 0, 0)},
			}, 2),
		},
		{
			Geometry: DirectionalLight{Direction: V(0.1, -1, 0)},
			Color:    V(1, 0.8, 1),
		},
	}

	materials := []Material{
		{Name: "default", Data: DefaultMaterialData()},
		{Name: "spec", Data: DefaultMaterialData()},
	}
	materials[1].Data.Flags = Reflection
	materials[1].Data.Specular = V(1, 0, 1)

	env := DefaultEnvironment()
	env.Color = V(0.4, 0.6, 1)

	return NewScene(testMesh(), cam, lights, materials, env)
}

func assertSceneRoundTrip(t *testing.T, singleFile bool) {
	t.Helper()
	dir := t.TempDir()
	name := filepath.Join(dir, "test")

	scene := testScene()
	require.NoError(t, scene.Verify())
	require.NoError(t, scene.Save(name, singleFile))

	got, err := Load(name)
	require.NoError(t, err)

	// materials
	require.Len(t, got.Materials, len(scene.Materials))
	assert.Equal(t, "default", got.Materials[0].Name)
	assert.Equal(t, "spec", got.Materials[1].Name)
	assert.Equal(t, Reflection, got.Materials[1].Data.Flags)
	assertVecNear(t, V(1, 0, 1), got.Materials[1].Data.Specular, 1e-3)
	assertVecNear(t, scene.Materials[0].Data.Ambient, got.Materials[0].Data.Ambient, 1e-3)

	// camera
	assertVecNear(t, V(10, 20, 30), got.Camera.Position, 1e-4)
	assert.InDelta(t, 1.4, got.Camera.Fov, 1e-5)
	assert.InDelta(t, 1, got.Camera.Far, 1e-5)
	assert.InDelta(t, DefaultCameraNear, got.Camera.Near, 1e-6)

	// camera path survives with sections and scale intact
	require.False(t, got.Camera.LookAtPath.IsStatic())
	assert.Equal(t, scene.Camera.LookAtPath.Sections(), got.Camera.LookAtPath.Sections())
	assert.Equal(t, float32(1), got.Camera.LookAtPath.Scale())
	assert.True(t, got.Camera.PositionPath.IsStatic())

	// lights
	require.Len(t, got.Lights, 2)
	point, ok := got.Lights[0].Geometry.(PointLight)
	require.True(t, ok)
	assertVecNear(t, V(0, 30, 0), point.Position, 1e-4)
	assert.InDelta(t, 10, point.Radius, 1e-5)
	assertVecNear(t, V(1, 0, 0), got.Lights[0].Color, 1e-3)

	require.False(t, got.Lights[0].Path.IsStatic())
	assert.True(t, got.Lights[0].Path.IsCircular())
	assert.Equal(t, float32(2), got.Lights[0].Path.Scale())

	directional, ok := got.Lights[1].Geometry.(DirectionalLight)
	require.True(t, ok)
	assertVecNear(t, V(0.1, -1, 0), directional.Direction, 1e-4)
	assert.True(t, got.Lights[1].Path.IsStatic())

	// environment
	assertVecNear(t, V(0.4, 0.6, 1), got.Environment.Color, 1e-3)

	// mesh
	assert.NoError(t, got.Mesh.Verify())
	assert.Equal(t, scene.Mesh.Attributes, got.Mesh.Attributes)
	assert.Equal(t, scene.Mesh.Vertices, got.Mesh.Vertices)
	assert.Equal(t, scene.Mesh.Indices, got.Mesh.Indices)
	assert.Equal(t, scene.Mesh.Shapes, got.Mesh.Shapes)

	assert.NoError(t, got.Verify())
}

func TestSceneRoundTripSingleFile(t *testing.T) {
	assertSceneRoundTrip(t, true)
}

func TestSceneRoundTripSidecars(t *testing.T) {
	assertSceneRoundTrip(t, false)

	// sidecar mode actually writes the component files
	dir := t.TempDir()
	name := filepath.Join(dir, "scene")
	require.NoError(t, testScene().Save(name, false))
	for _, suffix := range []string{".json", ".bmf", "_camera.json", "_light.json", "_material.json", "_env.json"} {
		_, err := os.Stat(name + suffix)
		assert.NoError(t, err, "missing %s", suffix)
	}
}

func TestSceneVersionMismatch(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "scene")
	require.NoError(t, testScene().Save(name, true))

	data, err := os.ReadFile(name + ".json")
	require.NoError(t, err)
	require.Contains(t, string(data), `"version": 1`)
	tampered := strings.Replace(string(data), `"version": 1`, `"version": 99`, 1)
	require.NoError(t, os.WriteFile(name+".json", []byte(tampered), 0o644))

	_, err = Load(name)
	assert.ErrorIs(t, err, ErrVersionMismatch)
}

func TestRemoveUnusedMaterials(t *testing.T) {
	vertices := []float32{
		0, 0, 0,
		1, 0, 1,
		0, 1, 0,
	}
	indices := []uint32{0, 1, 2}
	shapes := []Shape{
		{IndexOffset: 0, IndexCount: 3, MaterialID: 0},
		{IndexOffset: 0, IndexCount: 3, MaterialID: 1},
		{IndexOffset: 0, IndexCount: 3, MaterialID: 3},
	}
	mesh := NewBinaryMesh(Position, vertices, indices, shapes)
	require.NoError(t, mesh.Verify())

	materials := make([]Material, 5)
	for i := range materials {
		materials[i] = Material{Name: fmt.Sprintf("mat%d", i), Data: DefaultMaterialData()}
	}

	scene := NewScene(mesh, DefaultCamera(), nil, materials, DefaultEnvironment())
	require.NoError(t, scene.Verify())

	scene.RemoveUnusedMaterials()

	require.Len(t, scene.Materials, 3)
	assert.Equal(t, "mat0", scene.Materials[0].Name)
	assert.Equal(t, "mat1", scene.Materials[1].Name)
	assert.Equal(t, "mat3", scene.Materials[2].Name)

	assert.Equal(t, uint32(0), scene.Mesh.Shapes[0].MaterialID)
	assert.Equal(t, uint32(1), scene.Mesh.Shapes[1].MaterialID)
	assert.Equal(t, uint32(2), scene.Mesh.Shapes[2].MaterialID)
}

func TestRemoveUnusedMaterialsNoop(t *testing.T) {
	scene := testScene()
	scene.RemoveUnusedMaterials()
	assert.Len(t, scene.Materials, 2)
}

func TestSceneVerifyFailsOnBadMaterialID(t *testing.T) {
	scene := testScene()
	scene.Mesh.Shapes[1].MaterialID = 7
	assert.Error(t, scene.Verify())
}

func TestSceneVerifyFailsOnBadPath(t *testing.T) {
	scene := testScene()
	scene.Lights[0].Path = NewPath([]PathSection{{Time: -1, Position: V(1, 0, 0)}}, 1)
	err := scene.Verify()
	assert.ErrorIs(t, err, ErrInvalidPathSection)
}

func TestPathSidecarRoundTrip(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "orbit")

	path := NewPath([]PathSection{
		{Time: 2, Position: V(1, 0, 0)},
		{Time: 3, Position: Splat(4)},
	}, 0.5)
	require.NoError(t, SavePath(name, &path))

	got, err := LoadPath(name)
	require.NoError(t, err)
	assert.Equal(t, path.Sections(), got.Sections())
	assert.Equal(t, float32(0.5), got.Scale())
	assert.False(t, got.IsCircular())
}

func TestPathScaleElidedWhenOne(t *testing.T) {
	path := NewPath([]PathSection{{Time: 1, Position: V(1, 2, 3)}}, 1)
	j := pathJSON(&path)
	_, hasScale := j["scale"]
	assert.False(t, hasScale)

	scaled := NewPath(path.Sections(), 2)
	j = pathJSON(&scaled)
	assert.Equal(t, float32(2), j["scale"])
}

func TestCameraSidecarRoundTrip(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "cam")

	cam := DefaultCamera()
	cam.Fov = 0.9
	cam.Position = V(1, 2, 3)
	require.NoError(t, SaveCamera(name, &cam))

	got, err := LoadCamera(name)
	require.NoError(t, err)
	assertVecNear(t, cam.Position, got.Position, 1e-5)
	assert.InDelta(t, 0.9, got.Fov, 1e-6)
	assert.Equal(t, DefaultCameraUp, got.Up)
}

func TestLoadSceneWithPathSidecarReference(t *testing.T) {
	dir := t.TempDir()

	// a light whose path lives in its own file
	path := NewPath([]PathSection{{Time: 1, Position: V(0, 5, 0)}}, 1)
	require.NoError(t, SavePath(filepath.Join(dir, "hover"), &path))

	lightsDoc := `[{"type": "Point", "position": [0, 1, 0], "radius": 2,
		"color": 1, "path": "hover.json"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "l.json"), []byte(lightsDoc), 0o644))

	lights, err := LoadLights(filepath.Join(dir, "l"))
	require.NoError(t, err)
	require.Len(t, lights, 1)
	require.False(t, lights[0].Path.IsStatic())
	assert.Equal(t, path.Sections(), lights[0].Path.Sections())
}
