// Package fsutil provides convenience operations over decoded FreeSurfer
// structures: descriptive statistics of per-vertex morphometry data,
// optionally restricted to a label's members, and per-region aggregation
// driven by a parcellation.
package fsutil

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/neurofs/go-freesurfer/freesurfer"
)

// Summary holds descriptive statistics of a scalar sample.
type Summary struct {
	N      int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d min=%.4f max=%.4f mean=%.4f sd=%.4f", s.N, s.Min, s.Max, s.Mean, s.StdDev)
}

func summarize(sample []float64) Summary {
	return Summary{
		N:      len(sample),
		Min:    floats.Min(sample),
		Max:    floats.Max(sample),
		Mean:   stat.Mean(sample, nil),
		StdDev: stat.StdDev(sample, nil),
	}
}

// Describe computes descriptive statistics over all values.
//
// Calling it with an empty sample is a programming error and panics
// (there is no minimum of nothing); callers should check first.
func Describe(data []float32) Summary {
	if len(data) == 0 {
		panic("fsutil: describe of empty sample")
	}
	sample := make([]float64, len(data))
	for i, v := range data {
		sample[i] = float64(v)
	}
	return summarize(sample)
}

// DescribeMasked computes descriptive statistics over the values whose
// mask position is true. A common use is restricting cortical thickness
// to the cortex label's membership mask, excluding the medial wall.
//
// The mask must not be shorter than the data and must select at least one
// value; violating either is a programming error and panics.
func DescribeMasked(data []float32, mask []bool) Summary {
	if len(mask) < len(data) {
		panic("fsutil: mask shorter than data")
	}
	var sample []float64
	for i, v := range data {
		if mask[i] {
			sample = append(sample, float64(v))
		}
	}
	if len(sample) == 0 {
		panic("fsutil: mask selects no values")
	}
	return summarize(sample)
}

// LabelMean returns the mean of the curv values at the label's member
// indices. Entry indices must be valid positions in the curv data.
func LabelMean(curv *freesurfer.Curv, label *freesurfer.Label) float64 {
	sample := make([]float64, 0, label.Len())
	for _, e := range label.Entries {
		sample = append(sample, float64(curv.Data[e.Index]))
	}
	return stat.Mean(sample, nil)
}

// RegionMeans returns, for every parcellation region that has at least
// one vertex, the mean of the per-vertex data over that region's
// vertices. The data associates with vertices by position and must cover
// every vertex the annot assigns.
func RegionMeans(annot *freesurfer.Annot, data []float32) map[string]float64 {
	means := make(map[string]float64)
	for _, reg := range annot.ColorTable.Regions {
		var sum float64
		var n int
		for i, vlabel := range annot.VertexLabels {
			if vlabel == reg.Label {
				sum += float64(data[i])
				n++
			}
		}
		if n > 0 {
			means[reg.Name] = sum / float64(n)
		}
	}
	return means
}
