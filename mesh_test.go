package hrsf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testMesh builds the two-shape mesh used across the IO tests:
// positions + texcoords, four vertices, two triangles.
func testMesh() BinaryMesh {
	vertices := []float32{
		0, 0, 0, 0, 0,
		1, 0, 1, 0.1, 0.2,
		0, 1, 0, 0.5, 0.6,
		1, 0, 2, 0.7, 0.9,
	}
	indices := []uint32{0, 1, 2, 1, 2, 3}
	shapes := []Shape{
		{IndexOffset: 0, IndexCount: 3, MaterialID: 0},
		{IndexOffset: 3, IndexCount: 3, MaterialID: 1},
	}
	return NewBinaryMesh(Position|Texcoord0, vertices, indices, shapes)
}

func TestMeshStrideAndCount(t *testing.T) {
	m := testMesh()
	assert.Equal(t, 5, m.Stride())
	assert.Equal(t, 4, m.VertexCount())

	full := NewBinaryMesh(Position|Normal|Texcoord0, nil, nil, nil)
	assert.Equal(t, 8, full.Stride())
}

func TestMeshVerify(t *testing.T) {
	m := testMesh()
	assert.NoError(t, m.Verify())

	noPos := NewBinaryMesh(Texcoord0, []float32{0, 0}, nil, nil)
	assert.ErrorIs(t, noPos.Verify(), ErrInvalidMesh)

	ragged := testMesh()
	ragged.Vertices = ragged.Vertices[:len(ragged.Vertices)-1]
	assert.ErrorIs(t, ragged.Verify(), ErrInvalidMesh)

	outOfRange := testMesh()
	outOfRange.Indices[0] = 99
	assert.ErrorIs(t, outOfRange.Verify(), ErrInvalidMesh)

	badShape := testMesh()
	badShape.Shapes[1].IndexCount = 6
	assert.ErrorIs(t, badShape.Verify(), ErrInvalidMesh)

	notTriangles := testMesh()
	notTriangles.Indices = notTriangles.Indices[:5]
	assert.ErrorIs(t, notTriangles.Verify(), ErrInvalidMesh)
}

func TestMeshPositions(t *testing.T) {
	m := testMesh()
	positions := m.Positions()
	require.Len(t, positions, 4)
	assert.Equal(t, V(0, 0, 0), positions[0])
	assert.Equal(t, V(1, 0, 1), positions[1])
	assert.Equal(t, V(0, 1, 0), positions[2])
	assert.Equal(t, V(1, 0, 2), positions[3])
}

func TestMeshBinaryRoundTrip(t *testing.T) {
	m := testMesh()

	var buf bytes.Buffer
	require.NoError(t, WriteBinaryMesh(&m, &buf))

	got, err := ReadBinaryMesh(&buf)
	require.NoError(t, err)

	assert.Equal(t, m.Attributes, got.Attributes)
	assert.Equal(t, m.Vertices, got.Vertices)
	assert.Equal(t, m.Indices, got.Indices)
	assert.Equal(t, m.Shapes, got.Shapes)
	assert.NoError(t, got.Verify())
}

func TestMeshBinaryRejectsGarbage(t *testing.T) {
	_, err := ReadBinaryMesh(bytes.NewReader([]byte("not a mesh file")))
	assert.ErrorIs(t, err, ErrBadMeshFile)
}

func TestSimplifyKeepsMaterials(t *testing.T) {
	m := testMesh()

	// factor 1 keeps all triangles; the result is position-only
	got, err := m.Simplify(1)
	require.NoError(t, err)
	assert.Equal(t, Position, got.Attributes)
	require.Len(t, got.Shapes, 2)
	assert.Equal(t, uint32(0), got.Shapes[0].MaterialID)
	assert.Equal(t, uint32(1), got.Shapes[1].MaterialID)
	assert.NoError(t, got.Verify())
}
