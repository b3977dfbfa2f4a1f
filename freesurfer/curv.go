package freesurfer

import (
	"bufio"
	"fmt"
	"os"

	"github.com/neurofs/go-freesurfer/internal/xdr"
)

// CurvMagic is the 24-bit magic number of new-format curv files,
// stored as the three bytes 0xFF 0xFF 0xFF.
const CurvMagic int32 = 16777215

// CurvHeader is the fixed-position header of a curv file.
type CurvHeader struct {
	Magic           [3]byte
	NumVertices     int32
	NumFaces        int32 // face count of the originating mesh
	ValuesPerVertex int32 // always 1 in files produced by the pipeline
}

// Curv is a per-vertex scalar field, one 32-bit float per vertex of the
// mesh it was computed on. Values associate with mesh vertices by
// position; no cross-reference is stored.
type Curv struct {
	Header CurvHeader
	Data   []float32
}

// NewCurv builds a Curv around existing per-vertex data, filling in the
// header. The slice is used directly, not copied.
func NewCurv(data []float32, numFaces int32) *Curv {
	return &Curv{
		Header: CurvHeader{
			Magic:           [3]byte{255, 255, 255},
			NumVertices:     int32(len(data)),
			NumFaces:        numFaces,
			ValuesPerVertex: 1,
		},
		Data: data,
	}
}

// ReadCurv reads per-vertex morphometry data from a curv file. A .gz
// name suffix selects transparent decompression.
func ReadCurv(path string) (*Curv, error) {
	rc, err := xdr.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	c, err := decodeCurv(xdr.NewReader(rc))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func decodeCurv(r *xdr.Reader) (*Curv, error) {
	var hdr CurvHeader
	magic, err := r.ReadBytes(3)
	if err != nil {
		return nil, err
	}
	copy(hdr.Magic[:], magic)
	if xdr.Int24(magic[0], magic[1], magic[2]) != CurvMagic {
		return nil, ErrInvalidCurvFormat
	}

	if hdr.NumVertices, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if hdr.NumFaces, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if hdr.ValuesPerVertex, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if hdr.NumVertices < 0 {
		return nil, ErrInvalidCurvFormat
	}

	data := make([]float32, int(hdr.NumVertices))
	for i := range data {
		if data[i], err = r.ReadFloat32(); err != nil {
			return nil, err
		}
	}
	return &Curv{Header: hdr, Data: data}, nil
}

// WriteCurv writes per-vertex morphometry data as an uncompressed curv
// file, the exact byte inverse of ReadCurv.
func WriteCurv(path string, c *Curv) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := encodeCurv(xdr.NewWriter(bw), c); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodeCurv(w *xdr.Writer, c *Curv) error {
	if err := w.WriteBytes(c.Header.Magic[:]); err != nil {
		return err
	}
	if err := w.WriteInt32(c.Header.NumVertices); err != nil {
		return err
	}
	if err := w.WriteInt32(c.Header.NumFaces); err != nil {
		return err
	}
	if err := w.WriteInt32(c.Header.ValuesPerVertex); err != nil {
		return err
	}
	for _, v := range c.Data {
		if err := w.WriteFloat32(v); err != nil {
			return err
		}
	}
	return nil
}
