package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/netisu/hrsf"
)

// Recipe describes how to assemble a scene from loose assets. It is
// the yaml file consumed by `hrsftool convert`.
type Recipe struct {
	Mesh           string           `yaml:"mesh"` // .obj, .gltf or .glb
	SingleFile     bool             `yaml:"single_file"`
	TextureDir     string           `yaml:"texture_dir"`      // repack textures here, optional
	TextureMaxSize int              `yaml:"texture_max_size"` // downsample limit, optional
	Camera         CameraRecipe     `yaml:"camera"`
	Environment    EnvRecipe        `yaml:"environment"`
	Lights         []LightRecipe    `yaml:"lights"`
	Materials      []MaterialRecipe `yaml:"materials"`
}

type CameraRecipe struct {
	Position  [3]float32 `yaml:"position"`
	Direction [3]float32 `yaml:"direction"`
	Fov       float32    `yaml:"fov"`
	Near      *float32   `yaml:"near"`
	Far       *float32   `yaml:"far"`
}

type EnvRecipe struct {
	Color [3]float32 `yaml:"color"`
	Map   string     `yaml:"map"`
}

type LightRecipe struct {
	Type      string     `yaml:"type"` // point or directional
	Position  [3]float32 `yaml:"position"`
	Direction [3]float32 `yaml:"direction"`
	Radius    float32    `yaml:"radius"`
	Color     [3]float32 `yaml:"color"`
}

type MaterialRecipe struct {
	Name       string     `yaml:"name"`
	Diffuse    [3]float32 `yaml:"diffuse"`
	DiffuseTex string     `yaml:"diffuse_tex"`
	Roughness  *float32   `yaml:"roughness"`
	Emission   [3]float32 `yaml:"emission"`
}

// LoadRecipe reads and parses a recipe yaml file.
func LoadRecipe(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if r.Mesh == "" {
		return nil, fmt.Errorf("%s: recipe needs a mesh", path)
	}
	return &r, nil
}

func vec(a [3]float32) hrsf.Vector {
	return hrsf.V(a[0], a[1], a[2])
}

// BuildScene assembles a Scene from the recipe and the imported mesh.
func (r *Recipe) BuildScene(mesh hrsf.BinaryMesh) *hrsf.Scene {
	camera := hrsf.DefaultCamera()
	camera.Position = vec(r.Camera.Position)
	if dir := vec(r.Camera.Direction); !dir.IsZero() {
		camera.Direction = dir.Normalize()
	}
	if r.Camera.Fov != 0 {
		camera.Fov = r.Camera.Fov
	}
	if r.Camera.Near != nil {
		camera.Near = *r.Camera.Near
	}
	if r.Camera.Far != nil {
		camera.Far = *r.Camera.Far
	}

	env := hrsf.DefaultEnvironment()
	if c := vec(r.Environment.Color); !c.IsZero() {
		env.Color = hrsf.FromSrgbVec(c)
	}
	env.Map = r.Environment.Map

	lights := make([]hrsf.Light, 0, len(r.Lights))
	for _, l := range r.Lights {
		light := hrsf.Light{Color: hrsf.FromSrgbVec(vec(l.Color))}
		switch l.Type {
		case "directional":
			light.Geometry = hrsf.DirectionalLight{Direction: vec(l.Direction).Normalize()}
		default:
			light.Geometry = hrsf.PointLight{Position: vec(l.Position), Radius: l.Radius}
		}
		lights = append(lights, light)
	}

	materials := make([]hrsf.Material, 0, len(r.Materials))
	for _, m := range r.Materials {
		mat := hrsf.Material{Name: m.Name, Data: hrsf.DefaultMaterialData()}
		mat.Data.Diffuse = hrsf.FromSrgbVec(vec(m.Diffuse))
		mat.Data.Emission = hrsf.FromSrgbVec(vec(m.Emission))
		if m.Roughness != nil {
			mat.Data.Roughness = *m.Roughness
		}
		mat.Textures.Diffuse = m.DiffuseTex
		materials = append(materials, mat)
	}
	if len(materials) == 0 {
		materials = append(materials, hrsf.Material{
			Name: "default",
			Data: hrsf.DefaultMaterialData(),
		})
	}

	return hrsf.NewScene(mesh, camera, lights, materials, env)
}
