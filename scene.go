package hrsf

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FormatVersion is the scene JSON format version written and required
// by this package.
const FormatVersion = 1

// ErrVersionMismatch is reported when a scene file was written with a
// different format version.
var ErrVersionMismatch = errors.New("scene format version mismatch")

// Scene is a complete renderer scene: one binary mesh, the camera, the
// light list, the material list and the environment. On disk it is a
// JSON file next to a .bmf mesh blob; camera, lights, materials and
// environment may live inline or in their own sidecar JSON files.
type Scene struct {
	Mesh        BinaryMesh
	Camera      Camera
	Lights      []Light
	Materials   []Material
	Environment Environment
}

// NewScene bundles the given components into a scene.
func NewScene(mesh BinaryMesh, camera Camera, lights []Light, materials []Material, env Environment) *Scene {
	return &Scene{
		Mesh:        mesh,
		Camera:      camera,
		Lights:      lights,
		Materials:   materials,
		Environment: env,
	}
}

// MaterialData returns just the shading data of all materials, in
// order, for upload to a renderer.
func (s *Scene) MaterialData() []MaterialData {
	res := make([]MaterialData, len(s.Materials))
	for i, m := range s.Materials {
		res[i] = m.Data
	}
	return res
}

// Verify validates the whole scene: mesh buffers, shape material
// references and every animation path.
func (s *Scene) Verify() error {
	if err := s.Mesh.Verify(); err != nil {
		return err
	}

	for i, shape := range s.Mesh.Shapes {
		if int(shape.MaterialID) >= len(s.Materials) {
			return fmt.Errorf("shape %d: material id out of bound: %d", i, shape.MaterialID)
		}
	}

	for i := range s.Lights {
		if err := s.Lights[i].Verify(); err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
	}
	if err := s.Camera.Verify(); err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	return nil
}

// RemoveUnusedMaterials drops materials no shape references and
// rewrites the shape material ids to the compacted list.
func (s *Scene) RemoveUnusedMaterials() {
	isUsed := make([]bool, len(s.Materials))
	for _, shape := range s.Mesh.Shapes {
		isUsed[shape.MaterialID] = true
	}

	allUsed := true
	for _, used := range isUsed {
		allUsed = allUsed && used
	}
	if allUsed {
		return
	}

	// lookup[a] = b: material id a becomes b
	lookup := make([]uint32, len(s.Materials))
	cur := uint32(0)
	for i, used := range isUsed {
		if used {
			lookup[i] = cur
			cur++
		}
	}

	for i := range s.Mesh.Shapes {
		s.Mesh.Shapes[i].MaterialID = lookup[s.Mesh.Shapes[i].MaterialID]
	}

	materials := make([]Material, 0, len(s.Materials))
	for i, used := range isUsed {
		if used {
			materials = append(materials, s.Materials[i])
		}
	}
	s.Materials = materials
}

// Load reads a scene from filename (a .json or .bmf extension is
// ignored): the scene JSON, the referenced .bmf mesh blob and any
// sidecar component files.
func Load(filename string) (*Scene, error) {
	base := trimSceneExt(filename)
	obj, err := openJSON(base)
	if err != nil {
		return nil, err
	}

	version, err := getFloat(obj, "version")
	if err != nil {
		return nil, err
	}
	if int(version) != FormatVersion {
		return nil, fmt.Errorf("%s: %w: got %d, want %d",
			filename, ErrVersionMismatch, int(version), FormatVersion)
	}

	dir, err := filepath.Abs(filepath.Dir(base))
	if err != nil {
		return nil, err
	}

	binaryName, err := getString(obj, "scene")
	if err != nil {
		return nil, err
	}
	mesh, err := LoadBinaryMesh(absolutePath(dir, binaryName))
	if err != nil {
		return nil, err
	}

	camera, err := requireNode(obj, "camera", dir, decodeCamera)
	if err != nil {
		return nil, err
	}
	env, err := requireNode(obj, "environment", dir, decodeEnvironment)
	if err != nil {
		return nil, err
	}
	materials, err := requireNode(obj, "materials", dir, decodeMaterials)
	if err != nil {
		return nil, err
	}
	lights, err := requireNode(obj, "lights", dir, decodeLights)
	if err != nil {
		return nil, err
	}

	return NewScene(mesh, camera, lights, materials, env), nil
}

// requireNode decodes a mandatory top-level scene node.
func requireNode[T any](obj jsonObject, key, dir string, decode func(json.RawMessage, string) (T, error)) (T, error) {
	var zero T
	raw, ok := obj[key]
	if !ok {
		return zero, fmt.Errorf("missing field %q", key)
	}
	v, err := decode(raw, dir)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

// Save writes the scene as filename.json plus filename.bmf. With
// singleFile all components are stored inline; otherwise camera,
// lights, materials and environment go to filename_camera.json,
// filename_light.json, filename_material.json and filename_env.json
// and the scene JSON references them by name.
func (s *Scene) Save(filename string, singleFile bool) error {
	base := trimSceneExt(filename)
	binaryName := base + ".bmf"
	root := filepath.Dir(base)

	if err := SaveBinaryMesh(&s.Mesh, binaryName); err != nil {
		return err
	}

	j := make(map[string]any)
	j["version"] = FormatVersion
	j["scene"] = filepath.Base(binaryName)

	materials, err := materialsJSON(s.Materials, root)
	if err != nil {
		return err
	}
	lights, err := lightsJSON(s.Lights)
	if err != nil {
		return err
	}
	camera, err := cameraJSON(&s.Camera)
	if err != nil {
		return err
	}
	env, err := environmentJSON(&s.Environment, root)
	if err != nil {
		return err
	}

	if singleFile {
		j["materials"] = materials
		j["lights"] = lights
		j["camera"] = camera
		j["environment"] = env
	} else {
		// components go to their own files first
		if err := saveJSON(materials, base+"_material"); err != nil {
			return err
		}
		if err := saveJSON(lights, base+"_light"); err != nil {
			return err
		}
		if err := saveJSON(camera, base+"_camera"); err != nil {
			return err
		}
		if err := saveJSON(env, base+"_env"); err != nil {
			return err
		}

		bareName := filepath.Base(base)
		j["materials"] = bareName + "_material.json"
		j["lights"] = bareName + "_light.json"
		j["camera"] = bareName + "_camera.json"
		j["environment"] = bareName + "_env.json"
	}

	return saveJSON(j, base)
}

// trimSceneExt drops a trailing .json or .bmf extension so callers may
// pass either the bare scene name or one of its files.
func trimSceneExt(filename string) string {
	switch ext := filepath.Ext(filename); ext {
	case ".json", ".bmf":
		return filename[:len(filename)-len(ext)]
	}
	return filename
}

// LoadCamera reads a standalone camera sidecar file.
func LoadCamera(filename string) (Camera, error) {
	return loadComponent(filename, decodeCamera)
}

// LoadMaterials reads a standalone material list sidecar file.
func LoadMaterials(filename string) ([]Material, error) {
	return loadComponent(filename, decodeMaterials)
}

// LoadLights reads a standalone light list sidecar file.
func LoadLights(filename string) ([]Light, error) {
	return loadComponent(filename, decodeLights)
}

// LoadEnvironment reads a standalone environment sidecar file.
func LoadEnvironment(filename string) (Environment, error) {
	return loadComponent(filename, decodeEnvironment)
}

// LoadPath reads a standalone animation path sidecar file.
func LoadPath(filename string) (Path, error) {
	return loadComponent(filename, decodePath)
}

func loadComponent[T any](filename string, decode func(json.RawMessage, string) (T, error)) (T, error) {
	var zero T
	data, err := os.ReadFile(forceExt(filename, ".json"))
	if err != nil {
		return zero, err
	}
	dir, err := filepath.Abs(filepath.Dir(filename))
	if err != nil {
		return zero, err
	}
	return decode(data, dir)
}

// SaveCamera writes a standalone camera sidecar file.
func SaveCamera(filename string, camera *Camera) error {
	j, err := cameraJSON(camera)
	if err != nil {
		return err
	}
	return saveJSON(j, filename)
}

// SaveMaterials writes a standalone material list sidecar file.
func SaveMaterials(filename string, materials []Material) error {
	j, err := materialsJSON(materials, filepath.Dir(filename))
	if err != nil {
		return err
	}
	return saveJSON(j, filename)
}

// SaveLights writes a standalone light list sidecar file.
func SaveLights(filename string, lights []Light) error {
	j, err := lightsJSON(lights)
	if err != nil {
		return err
	}
	return saveJSON(j, filename)
}

// SaveEnvironment writes a standalone environment sidecar file.
func SaveEnvironment(filename string, env *Environment) error {
	j, err := environmentJSON(env, filepath.Dir(filename))
	if err != nil {
		return err
	}
	return saveJSON(j, filename)
}

// SavePath writes a standalone animation path sidecar file.
func SavePath(filename string, path *Path) error {
	return saveJSON(pathJSON(path), filename)
}
