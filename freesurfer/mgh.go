package freesurfer

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/neurofs/go-freesurfer/internal/xdr"
)

// MghVersion is the only supported MGH format version.
const MghVersion int32 = 1

// MghDataStart is the byte offset at which the voxel payload begins.
// The header occupies a fixed 284-byte region regardless of whether the
// optional RAS calibration fields are present.
const MghDataStart = 284

// MGH data type tags, selecting the element type of the voxel payload.
const (
	MriUchar int32 = 0 // unsigned 8-bit
	MriInt   int32 = 1 // signed 32-bit
	MriFloat int32 = 3 // 32-bit float
	MriShort int32 = 4 // signed 16-bit
)

// MghHeader is the fixed-position header of an MGH volume file.
//
// Dims holds the three spatial dimensions followed by the frame (time)
// dimension. Delta, Mdc and PxyzC describe the voxel-to-physical-space
// calibration and are meaningful only when RasGood equals 1.
type MghHeader struct {
	Version int32
	Dims    [4]int32
	Dtype   int32
	Dof     int32
	RasGood int16
	Delta   [3]float32 // voxel spacing along the three spatial axes
	Mdc     [9]float32 // direction-cosine matrix, row-major 3x3
	PxyzC   [3]float32 // physical coordinate of the volume's center voxel
}

// MghData is the typed voxel payload of an MGH volume. Exactly one of
// the four slices is non-nil, selected by the header's data type tag.
// Samples are stored flat in disk order: the first spatial dimension
// varies fastest, the frame dimension slowest.
type MghData struct {
	Uchar []uint8
	Int   []int32
	Float []float32
	Short []int16
}

// Mgh is a decoded MGH or MGZ volume file.
type Mgh struct {
	Header MghHeader
	Data   MghData
}

// ReadMghHeader reads only the header of an MGH or MGZ file. An .mgz or
// .gz name suffix selects transparent decompression.
func ReadMghHeader(path string) (*MghHeader, error) {
	rc, err := xdr.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	hdr, err := decodeMghHeader(xdr.NewReader(rc))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return hdr, nil
}

// ReadMgh reads a voxel volume from an MGH or MGZ file. An .mgz or .gz
// name suffix selects transparent decompression.
func ReadMgh(path string) (*Mgh, error) {
	rc, err := xdr.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	mgh, err := decodeMgh(xdr.NewReader(rc))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mgh, nil
}

func decodeMghHeader(r *xdr.Reader) (*MghHeader, error) {
	var hdr MghHeader
	var err error

	if hdr.Version, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if hdr.Version != MghVersion {
		return nil, ErrInvalidMghFormat
	}

	for i := range hdr.Dims {
		if hdr.Dims[i], err = r.ReadInt32(); err != nil {
			return nil, err
		}
		if hdr.Dims[i] < 0 {
			return nil, ErrInvalidMghFormat
		}
	}
	if hdr.Dtype, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if hdr.Dof, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if hdr.RasGood, err = r.ReadInt16(); err != nil {
		return nil, err
	}

	if hdr.RasGood == 1 {
		for i := range hdr.Delta {
			if hdr.Delta[i], err = r.ReadFloat32(); err != nil {
				return nil, err
			}
		}
		for i := range hdr.Mdc {
			if hdr.Mdc[i], err = r.ReadFloat32(); err != nil {
				return nil, err
			}
		}
		for i := range hdr.PxyzC {
			if hdr.PxyzC[i], err = r.ReadFloat32(); err != nil {
				return nil, err
			}
		}
	}
	return &hdr, nil
}

func decodeMgh(r *xdr.Reader) (*Mgh, error) {
	hdr, err := decodeMghHeader(r)
	if err != nil {
		return nil, err
	}

	// The payload starts at a fixed offset; the bytes between the last
	// header field and MghDataStart are reserved and skipped. The stream
	// may be gzip-wrapped, so skip by reading rather than seeking.
	if err := r.Skip(MghDataStart - int(r.Pos())); err != nil {
		return nil, err
	}

	n := int(hdr.Dims[0]) * int(hdr.Dims[1]) * int(hdr.Dims[2]) * int(hdr.Dims[3])
	mgh := &Mgh{Header: *hdr}

	switch hdr.Dtype {
	case MriUchar:
		data := make([]uint8, n)
		for i := range data {
			if data[i], err = r.ReadUint8(); err != nil {
				return nil, err
			}
		}
		mgh.Data.Uchar = data
	case MriInt:
		data := make([]int32, n)
		for i := range data {
			if data[i], err = r.ReadInt32(); err != nil {
				return nil, err
			}
		}
		mgh.Data.Int = data
	case MriFloat:
		data := make([]float32, n)
		for i := range data {
			if data[i], err = r.ReadFloat32(); err != nil {
				return nil, err
			}
		}
		mgh.Data.Float = data
	case MriShort:
		data := make([]int16, n)
		for i := range data {
			if data[i], err = r.ReadInt16(); err != nil {
				return nil, err
			}
		}
		mgh.Data.Short = data
	default:
		return nil, fmt.Errorf("%w: tag %d", ErrUnsupportedMghDataType, hdr.Dtype)
	}
	return mgh, nil
}

// Dim returns the four dimension lengths of the volume.
func (m *Mgh) Dim() [4]int {
	return [4]int{int(m.Header.Dims[0]), int(m.Header.Dims[1]), int(m.Header.Dims[2]), int(m.Header.Dims[3])}
}

// NumVoxels returns the total sample count, the product of the four
// dimensions.
func (m *Mgh) NumVoxels() int {
	d := m.Dim()
	return d[0] * d[1] * d[2] * d[3]
}

// At returns the sample at voxel index (i, j, k) in frame f, converted
// to float64. The flat payload index is i + d1*(j + d2*(k + d3*f)).
func (m *Mgh) At(i, j, k, f int) float64 {
	d := m.Dim()
	idx := i + d[0]*(j+d[1]*(k+d[2]*f))
	switch {
	case m.Data.Uchar != nil:
		return float64(m.Data.Uchar[idx])
	case m.Data.Int != nil:
		return float64(m.Data.Int[idx])
	case m.Data.Float != nil:
		return float64(m.Data.Float[idx])
	case m.Data.Short != nil:
		return float64(m.Data.Short[idx])
	}
	panic("freesurfer: MGH volume has no payload")
}

// DtypeName returns the FreeSurfer name of a data type tag, e.g.
// "MRI_UCHAR" for tag 0, or the empty string for an unknown tag.
func DtypeName(dtype int32) string {
	switch dtype {
	case MriUchar:
		return "MRI_UCHAR"
	case MriInt:
		return "MRI_INT"
	case MriFloat:
		return "MRI_FLOAT"
	case MriShort:
		return "MRI_SHORT"
	}
	return ""
}

// Vox2Ras derives the 4x4 affine transform mapping homogeneous voxel
// indices (i, j, k, 1) to physical RAS coordinates.
//
// The direction cosines scaled by the voxel spacing give S = Mdc * diag(Delta);
// the transform applies S transposed and translates so that the volume's
// center voxel (Dims/2, integer division) lands exactly on the stored
// center coordinate PxyzC. Fails with ErrNoRasInformation when the
// header's RAS-good flag is not set.
func (h *MghHeader) Vox2Ras() (*mat.Dense, error) {
	if h.RasGood != 1 {
		return nil, ErrNoRasInformation
	}

	d := mat.NewDiagDense(3, []float64{
		float64(h.Delta[0]), float64(h.Delta[1]), float64(h.Delta[2]),
	})
	mdc := mat.NewDense(3, 3, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			mdc.Set(r, c, float64(h.Mdc[3*r+c]))
		}
	}

	var s mat.Dense
	s.Mul(mdc, d)

	centerVoxel := mat.NewVecDense(3, []float64{
		float64(h.Dims[0] / 2), float64(h.Dims[1] / 2), float64(h.Dims[2] / 2),
	})
	var offset mat.VecDense
	offset.MulVec(s.T(), centerVoxel)

	vox2ras := mat.NewDense(4, 4, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			vox2ras.Set(r, c, s.At(c, r))
		}
		vox2ras.Set(r, 3, float64(h.PxyzC[r])-offset.AtVec(r))
	}
	vox2ras.Set(3, 3, 1)
	return vox2ras, nil
}
