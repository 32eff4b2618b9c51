package hrsf

import (
	"encoding/json"
	"fmt"
)

// JSON mapping for every scene component. Each decode function accepts
// the raw node, resolves an eventual sidecar reference once, then does
// plain field copies; each encode function builds the map that
// json.MarshalIndent writes out. Color fields convert between linear
// and sRGB here, and fields holding their default value are elided.

func decodePath(raw json.RawMessage, dir string) (Path, error) {
	data, _, err := resolveNode(raw, dir)
	if err != nil {
		return Path{}, err
	}
	obj, err := decodeObject(data)
	if err != nil {
		return Path{}, err
	}

	scale, err := getFloatOrDefault(obj, "scale", 1)
	if err != nil {
		return Path{}, err
	}

	var sections []PathSection
	if rawSections, ok := obj["sections"]; ok {
		var list []jsonObject
		if err := json.Unmarshal(rawSections, &list); err != nil {
			return Path{}, fmt.Errorf("sections must be an array: %w", err)
		}
		sections = make([]PathSection, 0, len(list))
		for i, s := range list {
			section, err := decodePathSection(s)
			if err != nil {
				return Path{}, fmt.Errorf("section %d: %w", i, err)
			}
			sections = append(sections, section)
		}
	}

	return NewPath(sections, scale), nil
}

func decodePathSection(obj jsonObject) (PathSection, error) {
	time, err := getFloat(obj, "time")
	if err != nil {
		return PathSection{}, err
	}
	pos, err := getVec3(obj, "pos")
	if err != nil {
		return PathSection{}, err
	}
	return PathSection{Time: time, Position: pos}, nil
}

// decodePathField reads an optional animation path field; absence
// yields a static path.
func decodePathField(obj jsonObject, key, dir string) (Path, error) {
	raw, ok := obj[key]
	if !ok {
		return Path{}, nil
	}
	return decodePath(raw, dir)
}

func pathJSON(p *Path) map[string]any {
	j := make(map[string]any)
	if p.Scale() != 1 {
		j["scale"] = p.Scale()
	}
	sections := make([]map[string]any, 0, len(p.Sections()))
	for _, s := range p.Sections() {
		sections = append(sections, map[string]any{
			"time": s.Time,
			"pos":  vec3JSON(s.Position),
		})
	}
	j["sections"] = sections
	return j
}

func decodeCamera(raw json.RawMessage, dir string) (Camera, error) {
	data, dir, err := resolveNode(raw, dir)
	if err != nil {
		return Camera{}, err
	}
	obj, err := decodeObject(data)
	if err != nil {
		return Camera{}, err
	}

	var cam Camera
	strType, err := getString(obj, "type")
	if err != nil {
		return Camera{}, err
	}
	switch strType {
	case "Pinhole":
		cam.Type = Pinhole
	default:
		return Camera{}, fmt.Errorf("unknown camera type %q", strType)
	}

	if cam.Position, err = getVec3(obj, "position"); err != nil {
		return Camera{}, err
	}
	if cam.Direction, err = getVec3(obj, "direction"); err != nil {
		return Camera{}, err
	}
	if cam.Fov, err = getFloat(obj, "fov"); err != nil {
		return Camera{}, err
	}
	if cam.Near, err = getFloatOrDefault(obj, "near", DefaultCameraNear); err != nil {
		return Camera{}, err
	}
	if cam.Far, err = getFloatOrDefault(obj, "far", DefaultCameraFar); err != nil {
		return Camera{}, err
	}
	if cam.Up, err = getVec3OrDefault(obj, "up", DefaultCameraUp); err != nil {
		return Camera{}, err
	}

	if cam.PositionPath, err = decodePathField(obj, "positionPath", dir); err != nil {
		return Camera{}, err
	}
	if cam.LookAtPath, err = decodePathField(obj, "lookAtPath", dir); err != nil {
		return Camera{}, err
	}

	return cam, nil
}

func cameraJSON(c *Camera) (map[string]any, error) {
	j := make(map[string]any)
	switch c.Type {
	case Pinhole:
		j["type"] = "Pinhole"
	default:
		return nil, fmt.Errorf("invalid camera type %d", c.Type)
	}

	j["position"] = vec3JSON(c.Position)
	j["direction"] = vec3JSON(c.Direction)
	j["fov"] = c.Fov
	if !nearEqual(c.Near, DefaultCameraNear) {
		j["near"] = c.Near
	}
	if !nearEqual(c.Far, DefaultCameraFar) {
		j["far"] = c.Far
	}
	if !nearEqualVec(c.Up, DefaultCameraUp) {
		j["up"] = vec3JSON(c.Up)
	}

	if !c.PositionPath.IsStatic() {
		j["positionPath"] = pathJSON(&c.PositionPath)
	}
	if !c.LookAtPath.IsStatic() {
		j["lookAtPath"] = pathJSON(&c.LookAtPath)
	}

	return j, nil
}

func decodeLights(raw json.RawMessage, dir string) ([]Light, error) {
	data, dir, err := resolveNode(raw, dir)
	if err != nil {
		return nil, err
	}
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("lights must be an array: %w", err)
	}

	lights := make([]Light, 0, len(list))
	for i, rawLight := range list {
		l, err := decodeLight(rawLight, dir)
		if err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
		lights = append(lights, l)
	}
	return lights, nil
}

func decodeLight(raw json.RawMessage, dir string) (Light, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return Light{}, err
	}

	var l Light
	strType, err := getString(obj, "type")
	if err != nil {
		return Light{}, err
	}
	switch strType {
	case "Point":
		var p PointLight
		if p.Position, err = getVec3(obj, "position"); err != nil {
			return Light{}, err
		}
		if p.Radius, err = getFloat(obj, "radius"); err != nil {
			return Light{}, err
		}
		l.Geometry = p
	case "Directional":
		var d DirectionalLight
		if d.Direction, err = getVec3(obj, "direction"); err != nil {
			return Light{}, err
		}
		l.Geometry = d
	default:
		return Light{}, fmt.Errorf("invalid light type %q", strType)
	}

	color, err := getVec3(obj, "color")
	if err != nil {
		return Light{}, err
	}
	l.Color = FromSrgbVec(color)

	if l.Path, err = decodePathField(obj, "path", dir); err != nil {
		return Light{}, err
	}

	return l, nil
}

func lightsJSON(lights []Light) ([]map[string]any, error) {
	res := make([]map[string]any, 0, len(lights))
	for i, l := range lights {
		j := make(map[string]any)
		switch g := l.Geometry.(type) {
		case PointLight:
			j["type"] = "Point"
			j["position"] = vec3JSON(g.Position)
			j["radius"] = g.Radius
		case DirectionalLight:
			j["type"] = "Directional"
			j["direction"] = vec3JSON(g.Direction)
		default:
			return nil, fmt.Errorf("light %d: invalid geometry %T", i, l.Geometry)
		}

		j["color"] = vec3JSON(ToSrgbVec(l.Color))

		if !l.Path.IsStatic() {
			j["path"] = pathJSON(&l.Path)
		}
		res = append(res, j)
	}
	return res, nil
}

func decodeMaterials(raw json.RawMessage, dir string) ([]Material, error) {
	data, dir, err := resolveNode(raw, dir)
	if err != nil {
		return nil, err
	}
	var list []jsonObject
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("materials must be an array: %w", err)
	}

	materials := make([]Material, 0, len(list))
	for i, obj := range list {
		m, err := decodeMaterial(obj, dir)
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		materials = append(materials, m)
	}
	return materials, nil
}

func decodeMaterial(obj jsonObject, dir string) (Material, error) {
	var mat Material
	var err error

	if mat.Name, err = getString(obj, "name"); err != nil {
		return Material{}, err
	}

	if mat.Textures.Diffuse, err = getFilename(obj, "diffuseTex", dir); err != nil {
		return Material{}, err
	}
	if mat.Textures.Ambient, err = getFilename(obj, "ambientTex", dir); err != nil {
		return Material{}, err
	}
	if mat.Textures.Specular, err = getFilename(obj, "specularTex", dir); err != nil {
		return Material{}, err
	}
	if mat.Textures.Occlusion, err = getFilename(obj, "occlusionTex", dir); err != nil {
		return Material{}, err
	}

	def := DefaultMaterialData()
	diffuse, err := getVec3(obj, "diffuse")
	if err != nil {
		return Material{}, err
	}
	mat.Data.Diffuse = FromSrgbVec(diffuse)

	if mat.Data.Ambient, err = getSrgbVec3OrDefault(obj, "ambient", def.Ambient); err != nil {
		return Material{}, err
	}
	if mat.Data.Roughness, err = getFloatOrDefault(obj, "roughness", def.Roughness); err != nil {
		return Material{}, err
	}
	if mat.Data.Occlusion, err = getFloatOrDefault(obj, "occlusion", def.Occlusion); err != nil {
		return Material{}, err
	}
	if mat.Data.Specular, err = getSrgbVec3OrDefault(obj, "specular", def.Specular); err != nil {
		return Material{}, err
	}
	if mat.Data.Gloss, err = getFloatOrDefault(obj, "gloss", def.Gloss); err != nil {
		return Material{}, err
	}
	if mat.Data.Emission, err = getSrgbVec3OrDefault(obj, "emission", def.Emission); err != nil {
		return Material{}, err
	}

	reflection, err := getBoolOrDefault(obj, "reflection", def.Flags&Reflection != 0)
	if err != nil {
		return Material{}, err
	}
	if reflection {
		mat.Data.Flags |= Reflection
	}
	transparent, err := getBoolOrDefault(obj, "transparent", def.Flags&Transparent != 0)
	if err != nil {
		return Material{}, err
	}
	if transparent {
		mat.Data.Flags |= Transparent
	}

	return mat, nil
}

func materialsJSON(materials []Material, root string) ([]map[string]any, error) {
	def := DefaultMaterialData()
	res := make([]map[string]any, 0, len(materials))
	for _, m := range materials {
		j := make(map[string]any)
		j["name"] = m.Name

		textures := []struct {
			key  string
			path string
		}{
			{"diffuseTex", m.Textures.Diffuse},
			{"ambientTex", m.Textures.Ambient},
			{"specularTex", m.Textures.Specular},
			{"occlusionTex", m.Textures.Occlusion},
		}
		for _, t := range textures {
			if t.path == "" {
				continue
			}
			rel, err := relativePath(root, t.path)
			if err != nil {
				return nil, err
			}
			j[t.key] = rel
		}

		// diffuse is always written
		j["diffuse"] = vec3JSON(ToSrgbVec(m.Data.Diffuse))
		if !nearEqualVec(m.Data.Ambient, def.Ambient) {
			j["ambient"] = vec3JSON(ToSrgbVec(m.Data.Ambient))
		}
		if !nearEqual(m.Data.Roughness, def.Roughness) {
			j["roughness"] = m.Data.Roughness
		}
		if !nearEqual(m.Data.Occlusion, def.Occlusion) {
			j["occlusion"] = m.Data.Occlusion
		}
		if !nearEqualVec(m.Data.Specular, def.Specular) {
			j["specular"] = vec3JSON(ToSrgbVec(m.Data.Specular))
		}
		if !nearEqual(m.Data.Gloss, def.Gloss) {
			j["gloss"] = m.Data.Gloss
		}
		if !nearEqualVec(m.Data.Emission, def.Emission) {
			j["emission"] = vec3JSON(ToSrgbVec(m.Data.Emission))
		}

		if reflection := m.Data.Flags&Reflection != 0; reflection != (def.Flags&Reflection != 0) {
			j["reflection"] = reflection
		}
		if transparent := m.Data.Flags&Transparent != 0; transparent != (def.Flags&Transparent != 0) {
			j["transparent"] = transparent
		}

		res = append(res, j)
	}
	return res, nil
}

func decodeEnvironment(raw json.RawMessage, dir string) (Environment, error) {
	data, dir, err := resolveNode(raw, dir)
	if err != nil {
		return Environment{}, err
	}
	obj, err := decodeObject(data)
	if err != nil {
		return Environment{}, err
	}

	def := DefaultEnvironment()
	var env Environment
	color, err := getVec3(obj, "color")
	if err != nil {
		return Environment{}, err
	}
	env.Color = FromSrgbVec(color)

	if env.AmbientUp, err = getSrgbVec3OrDefault(obj, "ambientUp", def.AmbientUp); err != nil {
		return Environment{}, err
	}
	if env.AmbientDown, err = getSrgbVec3OrDefault(obj, "ambientDown", def.AmbientDown); err != nil {
		return Environment{}, err
	}

	if env.Map, err = getFilename(obj, "map", dir); err != nil {
		return Environment{}, err
	}
	if env.Ambient, err = getFilename(obj, "ambient", dir); err != nil {
		return Environment{}, err
	}

	return env, nil
}

func environmentJSON(env *Environment, root string) (map[string]any, error) {
	def := DefaultEnvironment()
	j := make(map[string]any)
	j["color"] = vec3JSON(ToSrgbVec(env.Color))

	if !nearEqualVec(env.AmbientUp, def.AmbientUp) {
		j["ambientUp"] = vec3JSON(ToSrgbVec(env.AmbientUp))
	}
	if !nearEqualVec(env.AmbientDown, def.AmbientDown) {
		j["ambientDown"] = vec3JSON(ToSrgbVec(env.AmbientDown))
	}

	if env.Map != "" {
		rel, err := relativePath(root, env.Map)
		if err != nil {
			return nil, err
		}
		j["map"] = rel
	}
	if env.Ambient != "" {
		rel, err := relativePath(root, env.Ambient)
		if err != nil {
			return nil, err
		}
		j["ambient"] = rel
	}

	return j, nil
}
