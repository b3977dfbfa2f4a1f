package freesurfer

import (
	"bufio"
	"fmt"
	"os"

	"github.com/neurofs/go-freesurfer/internal/xdr"
)

// Annot colortable framing constants. The flag value marks that a
// colortable follows the per-vertex data; the negative sentinel in the
// following count field encodes the colortable format version.
const (
	annotColortableFlag   int32 = 1
	annotVersion2Sentinel int32 = -2
)

// ColorRegion is one entry of an annot colortable: a named brain region
// with its display color. Label is derived from the color components as
// R + G*2^8 + B*2^16 + A*2^24 and is the value used in Annot.VertexLabels
// to assign vertices to this region (the ID field is not).
type ColorRegion struct {
	ID         int32
	Name       string
	R, G, B, A int32
	Label      int32
}

// ColorTable is the catalogue of brain regions referenced by a
// parcellation.
type ColorTable struct {
	Regions []ColorRegion
}

// Annot is a brain surface parcellation read from an annot file. It
// assigns each mesh vertex to exactly one region of its colortable, by
// matching the vertex's label value against the regions' derived labels.
// VertexIndices holds the stored per-vertex indices, which are redundant
// (they equal the position) and kept only for completeness.
type Annot struct {
	VertexIndices []int32
	VertexLabels  []int32
	ColorTable    ColorTable
}

// ReadAnnot reads a brain surface parcellation from an annot file.
//
// Only annot files carrying a version 2 colortable are supported; other
// variants fail with ErrUnsupportedAnnotVersion.
func ReadAnnot(path string) (*Annot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	a, err := decodeAnnot(xdr.NewReader(bufio.NewReader(f)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

func decodeAnnot(r *xdr.Reader) (*Annot, error) {
	numVertices, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if numVertices < 0 {
		return nil, fmt.Errorf("%w: negative vertex count %d", ErrUnsupportedAnnotVersion, numVertices)
	}

	a := &Annot{
		VertexIndices: make([]int32, int(numVertices)),
		VertexLabels:  make([]int32, int(numVertices)),
	}
	for i := range a.VertexIndices {
		if a.VertexIndices[i], err = r.ReadInt32(); err != nil {
			return nil, err
		}
		if a.VertexLabels[i], err = r.ReadInt32(); err != nil {
			return nil, err
		}
	}

	flag, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if flag != annotColortableFlag {
		return nil, ErrUnsupportedAnnotVersion
	}

	// A negative count encodes the colortable format version as its
	// absolute value. Only version 2 is supported; for it, the next
	// integer holds the actual entry count (which the table body repeats).
	count, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if count != annotVersion2Sentinel {
		return nil, ErrUnsupportedAnnotVersion
	}
	if _, err := r.ReadInt32(); err != nil {
		return nil, err
	}

	if a.ColorTable, err = decodeColorTable(r); err != nil {
		return nil, err
	}
	return a, nil
}

func decodeColorTable(r *xdr.Reader) (ColorTable, error) {
	// Length-prefixed name of the file the table was generated from.
	// Stored but of no further use.
	nameLen, err := r.ReadInt32()
	if err != nil {
		return ColorTable{}, err
	}
	if _, err := r.ReadFixedString(int(nameLen)); err != nil {
		return ColorTable{}, err
	}

	numEntries, err := r.ReadInt32()
	if err != nil {
		return ColorTable{}, err
	}
	if numEntries < 0 {
		return ColorTable{}, fmt.Errorf("%w: negative colortable entry count %d", ErrUnsupportedAnnotVersion, numEntries)
	}

	regions := make([]ColorRegion, int(numEntries))
	for i := range regions {
		if regions[i], err = decodeColorRegion(r); err != nil {
			return ColorTable{}, err
		}
	}
	return ColorTable{Regions: regions}, nil
}

func decodeColorRegion(r *xdr.Reader) (ColorRegion, error) {
	var reg ColorRegion
	var err error
	if reg.ID, err = r.ReadInt32(); err != nil {
		return reg, err
	}
	nameLen, err := r.ReadInt32()
	if err != nil {
		return reg, err
	}
	if reg.Name, err = r.ReadFixedString(int(nameLen)); err != nil {
		return reg, err
	}
	if reg.R, err = r.ReadInt32(); err != nil {
		return reg, err
	}
	if reg.G, err = r.ReadInt32(); err != nil {
		return reg, err
	}
	if reg.B, err = r.ReadInt32(); err != nil {
		return reg, err
	}
	if reg.A, err = r.ReadInt32(); err != nil {
		return reg, err
	}
	reg.Label = reg.R + reg.G<<8 + reg.B<<16 + reg.A<<24
	return reg, nil
}

// Regions returns the region names in colortable order.
func (a *Annot) Regions() []string {
	names := make([]string, len(a.ColorTable.Regions))
	for i, reg := range a.ColorTable.Regions {
		names[i] = reg.Name
	}
	return names
}

// NumRegions returns the number of regions in the colortable.
func (a *Annot) NumRegions() int {
	return len(a.ColorTable.Regions)
}

// RegionVertices returns the indices of all vertices assigned to the
// named region. The result is empty (but not an error) when the region
// exists and simply has no vertices.
func (a *Annot) RegionVertices(region string) ([]int, error) {
	var label int32
	found := false
	for _, reg := range a.ColorTable.Regions {
		if reg.Name == region {
			label = reg.Label
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("freesurfer: no region %q in annot colortable", region)
	}

	var verts []int
	for i, vlabel := range a.VertexLabels {
		if vlabel == label {
			verts = append(verts, i)
		}
	}
	return verts, nil
}

// VertexRegions returns the region name for every vertex, in vertex
// order. Vertices whose label matches no region get an empty string.
func (a *Annot) VertexRegions() []string {
	names := make([]string, len(a.VertexLabels))
	for _, reg := range a.ColorTable.Regions {
		for i, vlabel := range a.VertexLabels {
			if vlabel == reg.Label {
				names[i] = reg.Name
			}
		}
	}
	return names
}

// vertexTableIndices returns, for every vertex, the colortable index of
// its region. Vertices whose label matches no region get
// unmatchedRegionIndex, which is typically 0: the "unknown" region sits
// at the start of standard colortables. The index is used as supplied;
// an out-of-range value is the caller's contract violation.
func (a *Annot) vertexTableIndices(unmatchedRegionIndex int) []int {
	indices := make([]int, 0, len(a.VertexLabels))
	for _, vlabel := range a.VertexLabels {
		found := false
		for ri, reg := range a.ColorTable.Regions {
			if vlabel == reg.Label {
				indices = append(indices, ri)
				found = true
				break
			}
		}
		if !found {
			indices = append(indices, unmatchedRegionIndex)
		}
	}
	return indices
}

// VertexColors returns the display color of every vertex as a flat byte
// sequence in vertex order: 4 bytes per vertex (RGBA) when alpha is true,
// 3 bytes per vertex (RGB) otherwise.
//
// Vertices whose label matches no region take the color of the region at
// unmatchedRegionIndex. Supplying an index outside the colortable is a
// programming error and panics.
func (a *Annot) VertexColors(alpha bool, unmatchedRegionIndex int) []byte {
	stride := 3
	if alpha {
		stride = 4
	}
	colors := make([]byte, 0, stride*len(a.VertexLabels))
	for _, ri := range a.vertexTableIndices(unmatchedRegionIndex) {
		reg := a.ColorTable.Regions[ri]
		colors = append(colors, byte(reg.R), byte(reg.G), byte(reg.B))
		if alpha {
			colors = append(colors, byte(reg.A))
		}
	}
	return colors
}
