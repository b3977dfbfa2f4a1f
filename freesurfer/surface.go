package freesurfer

import (
	"bufio"
	"fmt"
	"os"

	"github.com/neurofs/go-freesurfer/internal/xdr"
)

// Magic numbers of binary surf files, stored as 24-bit big-endian
// integers in the first three bytes of the file.
const (
	// TriangleMagic marks a triangle-mesh surf file.
	TriangleMagic int32 = 16777214

	// TriangleMagicAlt is an alternative magic number also found in
	// triangle-mesh surf files.
	TriangleMagicAlt int32 = 16777215
)

// SurfaceHeader is the fixed-position header of a surf file.
type SurfaceHeader struct {
	Magic       [3]byte
	InfoLine    string // free text, terminated by two linefeeds (included)
	NumVertices int32
	NumFaces    int32
}

// Mesh is a triangular brain surface mesh. Both slices are flat:
// Vertices holds 3 floats per vertex (x, y, z), Faces holds 3 vertex
// indices per triangle.
//
// Face indices are not validated against the vertex count at decode
// time; files written by the reconstruction pipeline are well-formed and
// the reference behavior is to trust them. Callers that need the
// invariant can run CheckFaces.
type Mesh struct {
	Vertices []float32
	Faces    []int32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int {
	return len(m.Faces) / 3
}

// Vertex returns the coordinates of vertex i.
func (m *Mesh) Vertex(i int) (x, y, z float32) {
	return m.Vertices[3*i], m.Vertices[3*i+1], m.Vertices[3*i+2]
}

// Face returns the three vertex indices of triangle i.
func (m *Mesh) Face(i int) (a, b, c int32) {
	return m.Faces[3*i], m.Faces[3*i+1], m.Faces[3*i+2]
}

// CheckFaces verifies that every face index lies in [0, VertexCount).
func (m *Mesh) CheckFaces() error {
	n := int32(m.VertexCount())
	for i, idx := range m.Faces {
		if idx < 0 || idx >= n {
			return fmt.Errorf("freesurfer: face %d references vertex %d, out of range [0, %d)", i/3, idx, n)
		}
	}
	return nil
}

// Surface is a decoded surf file: its header and the mesh it carries.
type Surface struct {
	Header SurfaceHeader
	Mesh   Mesh
}

// NewSurface builds a Surface around existing geometry, filling in the
// header counts and a standard info line. The slices are used directly,
// not copied.
func NewSurface(vertices []float32, faces []int32) *Surface {
	return &Surface{
		Header: SurfaceHeader{
			Magic:       [3]byte{255, 255, 254},
			InfoLine:    "created by go-freesurfer\n\n",
			NumVertices: int32(len(vertices) / 3),
			NumFaces:    int32(len(faces) / 3),
		},
		Mesh: Mesh{Vertices: vertices, Faces: faces},
	}
}

// ReadSurface reads a brain surface mesh from a surf file. A .gz name
// suffix selects transparent decompression.
func ReadSurface(path string) (*Surface, error) {
	rc, err := xdr.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	s, err := decodeSurface(xdr.NewReader(rc))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func decodeSurface(r *xdr.Reader) (*Surface, error) {
	var hdr SurfaceHeader
	magic, err := r.ReadBytes(3)
	if err != nil {
		return nil, err
	}
	copy(hdr.Magic[:], magic)
	if m := xdr.Int24(magic[0], magic[1], magic[2]); m != TriangleMagic && m != TriangleMagicAlt {
		return nil, ErrInvalidSurfaceFormat
	}

	if hdr.InfoLine, err = r.ReadLineString(); err != nil {
		return nil, err
	}
	if hdr.NumVertices, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if hdr.NumFaces, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if hdr.NumVertices < 0 || hdr.NumFaces < 0 {
		return nil, ErrInvalidSurfaceFormat
	}

	mesh := Mesh{
		Vertices: make([]float32, 3*int(hdr.NumVertices)),
		Faces:    make([]int32, 3*int(hdr.NumFaces)),
	}
	for i := range mesh.Vertices {
		if mesh.Vertices[i], err = r.ReadFloat32(); err != nil {
			return nil, err
		}
	}
	for i := range mesh.Faces {
		if mesh.Faces[i], err = r.ReadInt32(); err != nil {
			return nil, err
		}
	}
	return &Surface{Header: hdr, Mesh: mesh}, nil
}

// WriteSurface writes a brain surface mesh as an uncompressed surf file,
// the exact byte inverse of ReadSurface. The header's info line is
// written verbatim; the caller is responsible for terminating it with two
// linefeeds.
func WriteSurface(path string, s *Surface) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := encodeSurface(xdr.NewWriter(bw), s); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodeSurface(w *xdr.Writer, s *Surface) error {
	if err := w.WriteBytes(s.Header.Magic[:]); err != nil {
		return err
	}
	if err := w.WriteString(s.Header.InfoLine); err != nil {
		return err
	}
	if err := w.WriteInt32(s.Header.NumVertices); err != nil {
		return err
	}
	if err := w.WriteInt32(s.Header.NumFaces); err != nil {
		return err
	}
	for _, v := range s.Mesh.Vertices {
		if err := w.WriteFloat32(v); err != nil {
			return err
		}
	}
	for _, idx := range s.Mesh.Faces {
		if err := w.WriteInt32(idx); err != nil {
			return err
		}
	}
	return nil
}
