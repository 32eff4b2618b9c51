package hrsf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/beorn7/floats"
)

// The scene JSON uses two small conventions everywhere: vec3 fields
// collapse to a single number when all components are equal, and most
// nodes may be either inline JSON or a string naming a sidecar file.
// Both are handled here, once.

// elisionEps is the tolerance for treating a value as its default when
// deciding whether to write a field at all.
const elisionEps = 1e-7

type jsonObject map[string]json.RawMessage

func decodeObject(data []byte) (jsonObject, error) {
	var obj jsonObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// isJSONString reports whether raw holds a JSON string literal.
func isJSONString(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b == '"'
	}
	return false
}

// resolveNode is the single indirection step for inline-or-filename
// polymorphism: a string node is read from the named sidecar file
// (resolved against dir, .json extension implied) and the node's base
// directory moves to that file's parent; anything else is returned
// as-is.
func resolveNode(raw json.RawMessage, dir string) (data []byte, baseDir string, err error) {
	if !isJSONString(raw) {
		return raw, dir, nil
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return nil, "", err
	}
	filename := forceExt(absolutePath(dir, name), ".json")
	data, err = os.ReadFile(filename)
	if err != nil {
		return nil, "", err
	}
	return data, filepath.Dir(filename), nil
}

// vec3FromJSON parses a vec3 node: a bare number or one-element array
// splats to all components, a three-element array maps directly.
func vec3FromJSON(raw json.RawMessage) (Vector, error) {
	var s float32
	if err := json.Unmarshal(raw, &s); err == nil {
		return Splat(s), nil
	}
	var arr []float32
	if err := json.Unmarshal(raw, &arr); err != nil {
		return Vector{}, fmt.Errorf("expected number or array for vec3: %w", err)
	}
	switch len(arr) {
	case 1:
		return Splat(arr[0]), nil
	case 3:
		return Vector{arr[0], arr[1], arr[2]}, nil
	}
	return Vector{}, fmt.Errorf("expected array with 3 or 1 elements but got %d", len(arr))
}

// vec3JSON emits a vec3 node, collapsing to a single number when all
// components are equal.
func vec3JSON(v Vector) any {
	if v.X == v.Y && v.Y == v.Z {
		return v.X
	}
	return [3]float32{v.X, v.Y, v.Z}
}

func getVec3(obj jsonObject, key string) (Vector, error) {
	raw, ok := obj[key]
	if !ok {
		return Vector{}, fmt.Errorf("missing field %q", key)
	}
	v, err := vec3FromJSON(raw)
	if err != nil {
		return Vector{}, fmt.Errorf("field %q: %w", key, err)
	}
	return v, nil
}

func getVec3OrDefault(obj jsonObject, key string, def Vector) (Vector, error) {
	if _, ok := obj[key]; !ok {
		return def, nil
	}
	return getVec3(obj, key)
}

// getSrgbVec3OrDefault reads an sRGB color field into linear space.
// The default is linear already and is returned untouched when the
// field is absent.
func getSrgbVec3OrDefault(obj jsonObject, key string, def Vector) (Vector, error) {
	if _, ok := obj[key]; !ok {
		return def, nil
	}
	v, err := getVec3(obj, key)
	if err != nil {
		return Vector{}, err
	}
	return FromSrgbVec(v), nil
}

func getFloat(obj jsonObject, key string) (float32, error) {
	raw, ok := obj[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	var f float32
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("field %q: %w", key, err)
	}
	return f, nil
}

func getFloatOrDefault(obj jsonObject, key string, def float32) (float32, error) {
	if _, ok := obj[key]; !ok {
		return def, nil
	}
	return getFloat(obj, key)
}

func getBoolOrDefault(obj jsonObject, key string, def bool) (bool, error) {
	raw, ok := obj[key]
	if !ok {
		return def, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, fmt.Errorf("field %q: %w", key, err)
	}
	return b, nil
}

func getString(obj jsonObject, key string) (string, error) {
	raw, ok := obj[key]
	if !ok {
		return "", fmt.Errorf("missing field %q", key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("field %q: %w", key, err)
	}
	return s, nil
}

// getFilename reads an optional file reference field, resolved to an
// absolute path against root. Absent fields give the empty string.
func getFilename(obj jsonObject, key, root string) (string, error) {
	if _, ok := obj[key]; !ok {
		return "", nil
	}
	name, err := getString(obj, key)
	if err != nil {
		return "", err
	}
	return absolutePath(root, name), nil
}

// nearEqual reports whether two scalars match within the elision
// tolerance.
func nearEqual(a, b float32) bool {
	return floats.AlmostEqual(float64(a), float64(b), elisionEps)
}

// nearEqualVec reports whether two vectors match within the elision
// tolerance.
func nearEqualVec(a, b Vector) bool {
	return nearEqual(a.X, b.X) && nearEqual(a.Y, b.Y) && nearEqual(a.Z, b.Z)
}

// relativePath rewrites p relative to root for storage in a JSON
// file. Already-relative paths pass through.
func relativePath(root, p string) (string, error) {
	if !filepath.IsAbs(p) {
		return p, nil
	}
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return "", fmt.Errorf("could not form relative path: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

// absolutePath resolves p against root unless it is absolute already.
func absolutePath(root, p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// forceExt replaces or appends the extension of p.
func forceExt(p, ext string) string {
	if old := filepath.Ext(p); old != "" {
		p = p[:len(p)-len(old)]
	}
	return p + ext
}

// saveJSON writes v indented to filename, forcing a .json extension.
func saveJSON(v any, filename string) error {
	data, err := json.MarshalIndent(v, "", "   ")
	if err != nil {
		return err
	}
	return os.WriteFile(forceExt(filename, ".json"), data, 0o644)
}

// openJSON reads the object at filename, forcing a .json extension.
func openJSON(filename string) (jsonObject, error) {
	data, err := os.ReadFile(forceExt(filename, ".json"))
	if err != nil {
		return nil, err
	}
	return decodeObject(data)
}
