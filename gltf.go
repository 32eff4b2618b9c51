package hrsf

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGLTF reads a .gltf or .glb file into a BinaryMesh. Every
// triangle primitive becomes one shape; its material id is the glTF
// material index (0 when unset), so the caller's material list should
// mirror the glTF document's.
func LoadGLTF(path string) (BinaryMesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return BinaryMesh{}, err
	}

	var vertices []float32
	var indices []uint32
	var shapes []Shape

	// Vertices are interleaved as position, normal, texcoord; missing
	// attributes are zero-filled so every shape shares one layout.
	const stride = 3 + 3 + 2

	for _, mesh := range doc.Meshes {
		for _, primitive := range mesh.Primitives {
			if primitive.Mode != gltf.PrimitiveTriangles {
				continue
			}

			posIdx, ok := primitive.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return BinaryMesh{}, err
			}

			var normals [][3]float32
			if normIdx, ok := primitive.Attributes[gltf.NORMAL]; ok {
				normals, _ = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
			}

			var texCoords [][2]float32
			if texIdx, ok := primitive.Attributes[gltf.TEXCOORD_0]; ok {
				texCoords, _ = modeler.ReadTextureCoord(doc, doc.Accessors[texIdx], nil)
			}

			var primIndices []uint32
			if primitive.Indices != nil {
				primIndices, err = modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], nil)
				if err != nil {
					return BinaryMesh{}, err
				}
			} else {
				primIndices = make([]uint32, len(positions))
				for k := range primIndices {
					primIndices[k] = uint32(k)
				}
			}

			vertexBase := uint32(len(vertices) / stride)
			for i := range positions {
				vertices = append(vertices, positions[i][0], positions[i][1], positions[i][2])
				if i < len(normals) {
					vertices = append(vertices, normals[i][0], normals[i][1], normals[i][2])
				} else {
					vertices = append(vertices, 0, 0, 0)
				}
				if i < len(texCoords) {
					vertices = append(vertices, texCoords[i][0], texCoords[i][1])
				} else {
					vertices = append(vertices, 0, 0)
				}
			}

			indexOffset := uint32(len(indices))
			for _, idx := range primIndices {
				indices = append(indices, vertexBase+idx)
			}

			materialID := uint32(0)
			if primitive.Material != nil {
				materialID = uint32(*primitive.Material)
			}
			shapes = append(shapes, Shape{
				IndexOffset: indexOffset,
				IndexCount:  uint32(len(primIndices)),
				MaterialID:  materialID,
			})
		}
	}

	if len(indices) == 0 {
		return BinaryMesh{}, fmt.Errorf("no triangles found in %s", path)
	}

	return NewBinaryMesh(Position|Normal|Texcoord0, vertices, indices, shapes), nil
}
