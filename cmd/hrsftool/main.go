package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/netisu/hrsf"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  hrsftool convert -recipe scene.yaml -o out/scene
  hrsftool info <scene>
  hrsftool simplify -factor 0.5 -o out/scene <scene>`)
	os.Exit(2)
}

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "convert":
		runConvert(os.Args[2:])
	case "info":
		runInfo(os.Args[2:])
	case "simplify":
		runSimplify(os.Args[2:])
	default:
		usage()
	}
}

func runConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	recipePath := fs.String("recipe", "", "scene recipe yaml")
	output := fs.String("o", "scene", "output scene name (without extension)")
	fs.Parse(args)

	if *recipePath == "" {
		log.Fatal("convert: -recipe is required")
	}
	recipe, err := LoadRecipe(*recipePath)
	if err != nil {
		log.Fatal(err)
	}

	mesh, err := importMesh(resolveAgainst(*recipePath, recipe.Mesh))
	if err != nil {
		log.Fatal(err)
	}

	scene := recipe.BuildScene(mesh)
	padMaterials(scene)
	if err := scene.Verify(); err != nil {
		log.Fatal(err)
	}
	scene.RemoveUnusedMaterials()

	if recipe.TextureDir != "" || recipe.TextureMaxSize > 0 {
		dir := recipe.TextureDir
		if dir == "" {
			dir = filepath.Dir(*output)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal(err)
		}
		if err := hrsf.RepackSceneTextures(scene, dir, recipe.TextureMaxSize); err != nil {
			log.Fatal(err)
		}
	}

	if err := scene.Save(*output, recipe.SingleFile); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s.json (%d vertices, %d triangles, %d materials)",
		*output, scene.Mesh.VertexCount(), len(scene.Mesh.Indices)/3, len(scene.Materials))
}

func runInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		usage()
	}

	scene, err := hrsf.Load(fs.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("mesh:      %d vertices, %d triangles, %d shapes\n",
		scene.Mesh.VertexCount(), len(scene.Mesh.Indices)/3, len(scene.Mesh.Shapes))
	fmt.Printf("camera:    pos %v dir %v fov %.3f\n",
		scene.Camera.Position, scene.Camera.Direction, scene.Camera.Fov)
	fmt.Printf("lights:    %d\n", len(scene.Lights))
	for i, l := range scene.Lights {
		switch g := l.Geometry.(type) {
		case hrsf.PointLight:
			fmt.Printf("  %d: point at %v radius %.2f\n", i, g.Position, g.Radius)
		case hrsf.DirectionalLight:
			fmt.Printf("  %d: directional %v\n", i, g.Direction)
		}
		if !l.Path.IsStatic() {
			fmt.Printf("     animated, %d sections, circular=%v\n",
				len(l.Path.Sections()), l.Path.IsCircular())
		}
	}
	fmt.Printf("materials: %d\n", len(scene.Materials))
	for i, m := range scene.Materials {
		fmt.Printf("  %d: %s\n", i, m.Name)
	}
	if scene.Environment.Map != "" {
		fmt.Printf("env map:   %s\n", scene.Environment.Map)
	}

	if err := scene.Verify(); err != nil {
		log.Fatalf("verify failed: %v", err)
	}
	fmt.Println("verify:    ok")
}

func runSimplify(args []string) {
	fs := flag.NewFlagSet("simplify", flag.ExitOnError)
	factor := fs.Float64("factor", 0.5, "target triangle ratio in (0,1]")
	output := fs.String("o", "", "output scene name (default: overwrite input)")
	fs.Parse(args)
	if fs.NArg() != 1 {
		usage()
	}

	scene, err := hrsf.Load(fs.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	before := len(scene.Mesh.Indices) / 3
	simplified, err := scene.Mesh.Simplify(*factor)
	if err != nil {
		log.Fatal(err)
	}
	scene.Mesh = simplified

	out := *output
	if out == "" {
		out = fs.Arg(0)
	}
	if err := scene.Save(out, false); err != nil {
		log.Fatal(err)
	}
	log.Printf("simplified %d -> %d triangles", before, len(scene.Mesh.Indices)/3)
}

// padMaterials appends default materials until every shape's material
// id resolves; glTF meshes may reference more materials than the
// recipe lists.
func padMaterials(scene *hrsf.Scene) {
	maxID := uint32(0)
	for _, shape := range scene.Mesh.Shapes {
		if shape.MaterialID > maxID {
			maxID = shape.MaterialID
		}
	}
	for uint32(len(scene.Materials)) <= maxID {
		scene.Materials = append(scene.Materials, hrsf.Material{
			Name: fmt.Sprintf("material%d", len(scene.Materials)),
			Data: hrsf.DefaultMaterialData(),
		})
	}
}

// importMesh dispatches on the mesh file extension.
func importMesh(path string) (hrsf.BinaryMesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return hrsf.LoadOBJ(path)
	case ".gltf", ".glb":
		return hrsf.LoadGLTF(path)
	case ".bmf":
		return hrsf.LoadBinaryMesh(path)
	}
	return hrsf.BinaryMesh{}, fmt.Errorf("unsupported mesh format: %s", path)
}

// resolveAgainst resolves p relative to the directory of base.
func resolveAgainst(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(base), p)
}
