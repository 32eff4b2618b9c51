package hrsf

import (
	"errors"
	"fmt"

	"github.com/fogleman/simplify"
)

// Attribute is a bitset describing which vertex attributes a mesh
// carries. Attributes are interleaved per vertex in declaration order.
type Attribute uint32

const (
	Position Attribute = 1 << iota
	Normal
	Tangent
	Texcoord0
	Texcoord1
	VertexColor
)

// attributeSizes lists the float count of each attribute in
// declaration order.
var attributeSizes = []struct {
	attr Attribute
	size int
}{
	{Position, 3},
	{Normal, 3},
	{Tangent, 3},
	{Texcoord0, 2},
	{Texcoord1, 2},
	{VertexColor, 4},
}

// ErrInvalidMesh is reported by BinaryMesh.Verify for inconsistent
// buffers.
var ErrInvalidMesh = errors.New("invalid mesh")

// Shape is a contiguous index range drawn with one material.
type Shape struct {
	IndexOffset uint32
	IndexCount  uint32
	MaterialID  uint32
}

// BinaryMesh is the geometry blob of a scene: one interleaved vertex
// buffer, one triangle index buffer and the shape list that assigns
// materials to index ranges. It is stored next to the scene JSON as a
// .bmf file.
type BinaryMesh struct {
	Attributes Attribute
	Vertices   []float32
	Indices    []uint32
	Shapes     []Shape
}

// NewBinaryMesh bundles the given buffers into a mesh.
func NewBinaryMesh(attributes Attribute, vertices []float32, indices []uint32, shapes []Shape) BinaryMesh {
	return BinaryMesh{
		Attributes: attributes,
		Vertices:   vertices,
		Indices:    indices,
		Shapes:     shapes,
	}
}

// Stride returns the number of floats per vertex.
func (m *BinaryMesh) Stride() int {
	stride := 0
	for _, a := range attributeSizes {
		if m.Attributes&a.attr != 0 {
			stride += a.size
		}
	}
	return stride
}

// VertexCount returns the number of vertices in the buffer.
func (m *BinaryMesh) VertexCount() int {
	stride := m.Stride()
	if stride == 0 {
		return 0
	}
	return len(m.Vertices) / stride
}

// attributeOffset returns the float offset of attr within a vertex, or
// -1 if the mesh does not carry it.
func (m *BinaryMesh) attributeOffset(attr Attribute) int {
	if m.Attributes&attr == 0 {
		return -1
	}
	offset := 0
	for _, a := range attributeSizes {
		if a.attr == attr {
			return offset
		}
		if m.Attributes&a.attr != 0 {
			offset += a.size
		}
	}
	return -1
}

// Verify checks buffer consistency: a position attribute, a vertex
// buffer that is a whole number of vertices, triangle indices in range
// and shape ranges inside the index buffer.
func (m *BinaryMesh) Verify() error {
	if m.Attributes&Position == 0 {
		return fmt.Errorf("%w: missing position attribute", ErrInvalidMesh)
	}
	stride := m.Stride()
	if len(m.Vertices)%stride != 0 {
		return fmt.Errorf("%w: vertex buffer size %d is not a multiple of stride %d",
			ErrInvalidMesh, len(m.Vertices), stride)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: index count %d is not a multiple of 3", ErrInvalidMesh, len(m.Indices))
	}
	count := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= count {
			return fmt.Errorf("%w: index %d at %d out of bounds (%d vertices)",
				ErrInvalidMesh, idx, i, count)
		}
	}
	for i, s := range m.Shapes {
		if s.IndexCount%3 != 0 {
			return fmt.Errorf("%w: shape %d index count %d is not a multiple of 3",
				ErrInvalidMesh, i, s.IndexCount)
		}
		if uint64(s.IndexOffset)+uint64(s.IndexCount) > uint64(len(m.Indices)) {
			return fmt.Errorf("%w: shape %d range [%d,%d) exceeds index buffer",
				ErrInvalidMesh, i, s.IndexOffset, s.IndexOffset+s.IndexCount)
		}
	}
	return nil
}

// PositionAt returns the position of vertex i.
func (m *BinaryMesh) PositionAt(i int) Vector {
	base := i*m.Stride() + m.attributeOffset(Position)
	return Vector{m.Vertices[base], m.Vertices[base+1], m.Vertices[base+2]}
}

// Positions deinterleaves the position attribute.
func (m *BinaryMesh) Positions() []Vector {
	count := m.VertexCount()
	out := make([]Vector, count)
	for i := 0; i < count; i++ {
		out[i] = m.PositionAt(i)
	}
	return out
}

// Simplify decimates the mesh to roughly factor of its triangles,
// shape by shape, so material assignment survives. The result carries
// positions only: decimation invalidates normals and texture
// coordinates.
func (m *BinaryMesh) Simplify(factor float64) (BinaryMesh, error) {
	if err := m.Verify(); err != nil {
		return BinaryMesh{}, err
	}

	var vertices []float32
	var indices []uint32
	var shapes []Shape

	for _, shape := range m.Shapes {
		var triangles []*simplify.Triangle
		for i := shape.IndexOffset; i < shape.IndexOffset+shape.IndexCount; i += 3 {
			v1 := m.PositionAt(int(m.Indices[i]))
			v2 := m.PositionAt(int(m.Indices[i+1]))
			v3 := m.PositionAt(int(m.Indices[i+2]))
			triangles = append(triangles, simplify.NewTriangle(
				simplify.Vector{X: float64(v1.X), Y: float64(v1.Y), Z: float64(v1.Z)},
				simplify.Vector{X: float64(v2.X), Y: float64(v2.Y), Z: float64(v2.Z)},
				simplify.Vector{X: float64(v3.X), Y: float64(v3.Y), Z: float64(v3.Z)},
			))
		}

		decimated := simplify.NewMesh(triangles).Simplify(factor)

		offset := uint32(len(indices))
		lookup := make(map[Vector]uint32)
		for _, t := range decimated.Triangles {
			for _, v := range []simplify.Vector{t.V1, t.V2, t.V3} {
				p := Vector{float32(v.X), float32(v.Y), float32(v.Z)}
				idx, ok := lookup[p]
				if !ok {
					idx = uint32(len(vertices) / 3)
					lookup[p] = idx
					vertices = append(vertices, p.X, p.Y, p.Z)
				}
				indices = append(indices, idx)
			}
		}
		shapes = append(shapes, Shape{
			IndexOffset: offset,
			IndexCount:  uint32(len(indices)) - offset,
			MaterialID:  shape.MaterialID,
		})
	}

	return NewBinaryMesh(Position, vertices, indices, shapes), nil
}
