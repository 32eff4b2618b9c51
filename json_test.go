package hrsf

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVec3FromJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Vector
		wantErr bool
	}{
		{"scalar", `2.5`, Splat(2.5), false},
		{"one element", `[3]`, Splat(3), false},
		{"three elements", `[1, 2, 3]`, V(1, 2, 3), false},
		{"two elements", `[1, 2]`, Vector{}, true},
		{"object", `{"x": 1}`, Vector{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := vec3FromJSON(json.RawMessage(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVec3JSONCollapses(t *testing.T) {
	assert.Equal(t, float32(2), vec3JSON(Splat(2)))
	assert.Equal(t, [3]float32{1, 2, 3}, vec3JSON(V(1, 2, 3)))

	// collapse and splat cancel out
	data, err := json.Marshal(vec3JSON(Splat(0.25)))
	require.NoError(t, err)
	got, err := vec3FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, Splat(0.25), got)
}

func TestResolveNodeInline(t *testing.T) {
	raw := json.RawMessage(`{"fov": 1.5}`)
	data, dir, err := resolveNode(raw, "/tmp/scenes")
	require.NoError(t, err)
	assert.Equal(t, []byte(raw), data)
	assert.Equal(t, "/tmp/scenes", dir)
}

func TestResolveNodeFileReference(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "parts")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "cam.json"), []byte(`{"fov": 2}`), 0o644))

	data, base, err := resolveNode(json.RawMessage(`"parts/cam.json"`), dir)
	require.NoError(t, err)
	assert.JSONEq(t, `{"fov": 2}`, string(data))
	// nested references resolve against the sidecar's own directory
	assert.Equal(t, sub, base)
}

func TestResolveNodeMissingFile(t *testing.T) {
	_, _, err := resolveNode(json.RawMessage(`"nope.json"`), t.TempDir())
	assert.Error(t, err)
}

func TestForceExt(t *testing.T) {
	assert.Equal(t, "scene.json", forceExt("scene", ".json"))
	assert.Equal(t, "scene.json", forceExt("scene.bmf", ".json"))
	assert.Equal(t, filepath.Join("a", "b.json"), forceExt(filepath.Join("a", "b"), ".json"))
}

func TestRelativePath(t *testing.T) {
	rel, err := relativePath("/scenes", "already/relative.png")
	require.NoError(t, err)
	assert.Equal(t, "already/relative.png", rel)

	root := t.TempDir()
	abs := filepath.Join(root, "tex", "wood.png")
	rel, err = relativePath(root, abs)
	require.NoError(t, err)
	assert.Equal(t, "tex/wood.png", rel)

	assert.Equal(t, abs, absolutePath(root, "tex/wood.png"))
	assert.Equal(t, abs, absolutePath("/elsewhere", abs))
}
