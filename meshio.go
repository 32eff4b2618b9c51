package hrsf

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// .bmf on-disk layout, little endian:
//
//	magic "HBMF" | uint32 version | uint32 attributes
//	uint32 vertex float count | floats
//	uint32 index count        | uint32 indices
//	uint32 shape count        | 3x uint32 per shape

var bmfMagic = [4]byte{'H', 'B', 'M', 'F'}

const bmfVersion = uint32(1)

// ErrBadMeshFile is reported when a .bmf blob has the wrong magic or
// version.
var ErrBadMeshFile = errors.New("bad mesh file")

// SaveBinaryMesh writes the mesh to filename in the .bmf layout.
func SaveBinaryMesh(m *BinaryMesh, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := WriteBinaryMesh(m, w); err != nil {
		return err
	}
	return w.Flush()
}

// WriteBinaryMesh writes the mesh to w in the .bmf layout.
func WriteBinaryMesh(m *BinaryMesh, w io.Writer) error {
	if _, err := w.Write(bmfMagic[:]); err != nil {
		return err
	}
	header := []uint32{bmfVersion, uint32(m.Attributes)}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(m.Vertices))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, m.Vertices); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(m.Indices))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, m.Indices); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(m.Shapes))); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, m.Shapes)
}

// LoadBinaryMesh reads a .bmf blob from filename.
func LoadBinaryMesh(filename string) (BinaryMesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return BinaryMesh{}, err
	}
	defer file.Close()

	m, err := ReadBinaryMesh(bufio.NewReader(file))
	if err != nil {
		return BinaryMesh{}, fmt.Errorf("%s: %w", filename, err)
	}
	return m, nil
}

// ReadBinaryMesh reads a .bmf blob from r.
func ReadBinaryMesh(r io.Reader) (BinaryMesh, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return BinaryMesh{}, err
	}
	if magic != bmfMagic {
		return BinaryMesh{}, fmt.Errorf("%w: magic %q", ErrBadMeshFile, magic[:])
	}

	var version, attributes uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return BinaryMesh{}, err
	}
	if version != bmfVersion {
		return BinaryMesh{}, fmt.Errorf("%w: version %d, want %d", ErrBadMeshFile, version, bmfVersion)
	}
	if err := binary.Read(r, binary.LittleEndian, &attributes); err != nil {
		return BinaryMesh{}, err
	}

	var m BinaryMesh
	m.Attributes = Attribute(attributes)

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return BinaryMesh{}, err
	}
	m.Vertices = make([]float32, count)
	if err := binary.Read(r, binary.LittleEndian, m.Vertices); err != nil {
		return BinaryMesh{}, err
	}

	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return BinaryMesh{}, err
	}
	m.Indices = make([]uint32, count)
	if err := binary.Read(r, binary.LittleEndian, m.Indices); err != nil {
		return BinaryMesh{}, err
	}

	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return BinaryMesh{}, err
	}
	m.Shapes = make([]Shape, count)
	if err := binary.Read(r, binary.LittleEndian, m.Shapes); err != nil {
		return BinaryMesh{}, err
	}

	return m, nil
}
