package fsutil

import (
	"math"
	"testing"

	"github.com/neurofs/go-freesurfer/freesurfer"
)

func TestDescribe(t *testing.T) {
	s := Describe([]float32{1, 2, 3, 4})
	if s.N != 4 {
		t.Errorf("N = %d, want 4", s.N)
	}
	if s.Min != 1 || s.Max != 4 {
		t.Errorf("min, max = %g, %g, want 1, 4", s.Min, s.Max)
	}
	if s.Mean != 2.5 {
		t.Errorf("mean = %g, want 2.5", s.Mean)
	}
	// Sample standard deviation of 1..4.
	if math.Abs(s.StdDev-1.2909944487) > 1e-9 {
		t.Errorf("sd = %g", s.StdDev)
	}
}

func TestDescribeEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for empty sample")
		}
	}()
	Describe(nil)
}

func TestDescribeMasked(t *testing.T) {
	data := []float32{10, 20, 30, 40}
	mask := []bool{true, false, true, false}
	s := DescribeMasked(data, mask)
	if s.N != 2 {
		t.Errorf("N = %d, want 2", s.N)
	}
	if s.Mean != 20 {
		t.Errorf("mean = %g, want 20", s.Mean)
	}
	if s.Min != 10 || s.Max != 30 {
		t.Errorf("min, max = %g, %g", s.Min, s.Max)
	}
}

func TestDescribeMaskedEmptySelection(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic when mask selects nothing")
		}
	}()
	DescribeMasked([]float32{1, 2}, []bool{false, false})
}

func TestLabelMean(t *testing.T) {
	curv := freesurfer.NewCurv([]float32{1, 2, 3, 4, 5}, 0)
	label := &freesurfer.Label{Entries: []freesurfer.LabelEntry{
		{Index: 0}, {Index: 2}, {Index: 4},
	}}
	if mean := LabelMean(curv, label); mean != 3 {
		t.Errorf("LabelMean = %g, want 3", mean)
	}
}

func TestRegionMeans(t *testing.T) {
	annot := &freesurfer.Annot{
		VertexLabels: []int32{100, 200, 100, 999},
		ColorTable: freesurfer.ColorTable{Regions: []freesurfer.ColorRegion{
			{Name: "a", Label: 100},
			{Name: "b", Label: 200},
			{Name: "empty", Label: 300},
		}},
	}
	data := []float32{1, 10, 3, 100}

	means := RegionMeans(annot, data)
	if len(means) != 2 {
		t.Fatalf("means = %v, want 2 regions", means)
	}
	if means["a"] != 2 {
		t.Errorf(`means["a"] = %g, want 2`, means["a"])
	}
	if means["b"] != 10 {
		t.Errorf(`means["b"] = %g, want 10`, means["b"])
	}
	if _, ok := means["empty"]; ok {
		t.Error("vertex-free region should be absent")
	}
}
