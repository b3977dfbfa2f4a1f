package freesurfer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LabelEntry is one member of a label: a vertex (or voxel) index, the
// member's spatial coordinates, and a scalar value. The coordinates are
// redundant with the mesh geometry and kept for provenance.
type LabelEntry struct {
	Index   int32
	X, Y, Z float32
	Value   float32
}

// Label is a sparse group of vertices or voxels read from a text label
// file, e.g. all vertices belonging to one brain region. Nothing requires
// the members to form a spatially adjacent patch.
type Label struct {
	Entries []LabelEntry
}

// ReadLabel reads a surface or volume label from a text label file.
//
// The format is line-oriented: the first line is a free comment, the
// second holds the decimal entry count, and each following line holds the
// five whitespace-separated fields of one entry.
func ReadLabel(path string) (*Label, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	label, err := decodeLabel(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return label, nil
}

func decodeLabel(src io.Reader) (*Label, error) {
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	declared := -1
	label := &Label{}
	for lineno := 0; sc.Scan(); lineno++ {
		line := sc.Text()
		switch {
		case lineno == 0:
			// Comment line, discarded.
		case lineno == 1:
			n, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil {
				return nil, fmt.Errorf("%w: bad entry count %q", ErrMalformedLabel, line)
			}
			declared = n
		default:
			e, err := parseLabelEntry(line)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedLabel, lineno+1, err)
			}
			label.Entries = append(label.Entries, e)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if declared != len(label.Entries) {
		return nil, fmt.Errorf("%w: header declares %d entries, file has %d",
			ErrMalformedLabel, declared, len(label.Entries))
	}
	return label, nil
}

func parseLabelEntry(line string) (LabelEntry, error) {
	fields := strings.Fields(line)
	if len(fields) != 5 {
		return LabelEntry{}, fmt.Errorf("expected 5 fields, got %d", len(fields))
	}
	idx, err := strconv.ParseInt(fields[0], 10, 32)
	if err != nil {
		return LabelEntry{}, err
	}
	var coords [4]float32
	for i, s := range fields[1:] {
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return LabelEntry{}, err
		}
		coords[i] = float32(v)
	}
	return LabelEntry{
		Index: int32(idx),
		X:     coords[0],
		Y:     coords[1],
		Z:     coords[2],
		Value: coords[3],
	}, nil
}

// Len returns the number of entries.
func (l *Label) Len() int {
	return len(l.Entries)
}

// IsBinary reports whether every entry carries the same value. This is a
// heuristic for membership-only labels, not a format guarantee.
func (l *Label) IsBinary() bool {
	if len(l.Entries) == 0 {
		return true
	}
	for _, e := range l.Entries[1:] {
		if e.Value != l.Entries[0].Value {
			return false
		}
	}
	return true
}

// Mask returns a membership mask over a vertex or voxel space of the
// given total size, true at each entry's index.
//
// Every entry index must lie in [0, total); supplying a total smaller
// than the label's index space is a programming error and panics.
func (l *Label) Mask(total int) []bool {
	if total < len(l.Entries) {
		panic(fmt.Sprintf("freesurfer: label mask size %d smaller than entry count %d", total, len(l.Entries)))
	}
	mask := make([]bool, total)
	for _, e := range l.Entries {
		mask[e.Index] = true
	}
	return mask
}

// Values returns a dense per-vertex value array of the given total size,
// holding each entry's value at its index and fill everywhere else.
//
// Every entry index must lie in [0, total); a total too small for the
// label's index space is a programming error and panics.
func (l *Label) Values(total int, fill float32) []float32 {
	if total < len(l.Entries) {
		panic(fmt.Sprintf("freesurfer: label value array size %d smaller than entry count %d", total, len(l.Entries)))
	}
	vals := make([]float32, total)
	for i := range vals {
		vals[i] = fill
	}
	for _, e := range l.Entries {
		vals[e.Index] = e.Value
	}
	return vals
}
