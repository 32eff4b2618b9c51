package hrsf

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"
)

// objVertex is one unique position/texcoord/normal combination
// encountered while reading faces.
type objVertex struct {
	v, vt, vn int
}

// LoadOBJ reads a Wavefront OBJ file into a BinaryMesh with a single
// shape on material 0. Faces are fan-triangulated; negative indices
// are supported.
func LoadOBJ(path string) (BinaryMesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return BinaryMesh{}, err
	}
	defer file.Close()
	return LoadOBJFromReader(file)
}

// LoadOBJFromBytes reads OBJ data from a byte slice.
func LoadOBJFromBytes(b []byte) (BinaryMesh, error) {
	return LoadOBJFromReader(bytes.NewReader(b))
}

// LoadOBJFromReader reads OBJ data from r.
func LoadOBJFromReader(r io.Reader) (BinaryMesh, error) {
	vs := make([][3]float32, 1, 1024)
	vts := make([][2]float32, 1, 1024)
	vns := make([][3]float32, 1, 1024)

	hasNormals := false
	hasTexcoords := false

	var faces []objVertex
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 2 || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			vs = append(vs, [3]float32{pf(fields[1]), pf(fields[2]), pf(fields[3])})
		case "vt":
			vts = append(vts, [2]float32{pf(fields[1]), pf(fields[2])})
		case "vn":
			vns = append(vns, [3]float32{pf(fields[1]), pf(fields[2]), pf(fields[3])})
		case "f":
			args := fields[1:]
			fvs := make([]int, len(args))
			fvts := make([]int, len(args))
			fvns := make([]int, len(args))

			for i, arg := range args {
				vertex := strings.Split(arg+"//", "/")
				fvs[i] = fixIndex(vertex[0], len(vs))
				fvts[i] = fixIndex(vertex[1], len(vts))
				fvns[i] = fixIndex(vertex[2], len(vns))
			}

			for i := 1; i < len(fvs)-1; i++ {
				for _, k := range []int{0, i, i + 1} {
					faces = append(faces, objVertex{fvs[k], fvts[k], fvns[k]})
					if fvts[k] > 0 {
						hasTexcoords = true
					}
					if fvns[k] > 0 {
						hasNormals = true
					}
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return BinaryMesh{}, err
	}

	attributes := Position
	if hasNormals {
		attributes |= Normal
	}
	if hasTexcoords {
		attributes |= Texcoord0
	}

	var vertices []float32
	var indices []uint32
	lookup := make(map[objVertex]uint32)
	count := uint32(0)

	for _, f := range faces {
		idx, ok := lookup[f]
		if !ok {
			idx = count
			count++
			lookup[f] = idx
			vertices = append(vertices, vs[f.v][0], vs[f.v][1], vs[f.v][2])
			if hasNormals {
				var n [3]float32
				if f.vn > 0 {
					n = vns[f.vn]
				}
				vertices = append(vertices, n[0], n[1], n[2])
			}
			if hasTexcoords {
				var t [2]float32
				if f.vt > 0 {
					t = vts[f.vt]
				}
				vertices = append(vertices, t[0], t[1])
			}
		}
		indices = append(indices, idx)
	}

	shapes := []Shape{{IndexOffset: 0, IndexCount: uint32(len(indices)), MaterialID: 0}}
	return NewBinaryMesh(attributes, vertices, indices, shapes), nil
}

// pf parses a float field, ignoring errors for speed.
func pf(s string) float32 {
	f, _ := strconv.ParseFloat(s, 32)
	return float32(f)
}

// fixIndex resolves an OBJ index, handling the 1-based and negative
// (relative) forms.
func fixIndex(value string, length int) int {
	if value == "" {
		return 0
	}
	parsed, _ := strconv.Atoi(value)
	if parsed < 0 {
		return parsed + length
	}
	return parsed
}
