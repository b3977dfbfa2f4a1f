package freesurfer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeLabelFile(t *testing.T, declared int, entries []LabelEntry) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("#!ascii label, from subject subject1\n")
	fmt.Fprintf(&sb, "%d\n", declared)
	for _, e := range entries {
		fmt.Fprintf(&sb, "%d  %.3f  %.3f  %.3f %.10f\n", e.Index, e.X, e.Y, e.Z, e.Value)
	}
	path := filepath.Join(t.TempDir(), "lh.test.label")
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestReadLabel(t *testing.T) {
	entries := []LabelEntry{
		{Index: 0, X: -1.5, Y: 2.0, Z: 3.25, Value: 0},
		{Index: 4, X: 0.5, Y: -2.5, Z: 1.0, Value: 0},
		{Index: 7, X: 3.0, Y: 3.0, Z: -3.0, Value: 0},
	}
	label, err := ReadLabel(writeLabelFile(t, 3, entries))
	if err != nil {
		t.Fatalf("ReadLabel: %v", err)
	}
	if label.Len() != 3 {
		t.Fatalf("Len = %d, want 3", label.Len())
	}
	if label.Entries[1].Index != 4 || label.Entries[1].Y != -2.5 {
		t.Errorf("entry 1 = %+v", label.Entries[1])
	}
}

func TestReadLabelCountMismatch(t *testing.T) {
	entries := []LabelEntry{
		{Index: 0}, {Index: 1},
	}
	_, err := ReadLabel(writeLabelFile(t, 3, entries))
	if !errors.Is(err, ErrMalformedLabel) {
		t.Errorf("ReadLabel = %v, want ErrMalformedLabel", err)
	}
}

func TestReadLabelLarge(t *testing.T) {
	entries := make([]LabelEntry, 1085)
	for i := range entries {
		entries[i] = LabelEntry{Index: int32(i), Value: 1}
	}

	label, err := ReadLabel(writeLabelFile(t, 1085, entries))
	if err != nil {
		t.Fatalf("ReadLabel: %v", err)
	}
	if label.Len() != 1085 {
		t.Errorf("Len = %d, want 1085", label.Len())
	}

	// One entry short of the declared count must fail.
	_, err = ReadLabel(writeLabelFile(t, 1085, entries[:1084]))
	if !errors.Is(err, ErrMalformedLabel) {
		t.Errorf("ReadLabel = %v, want ErrMalformedLabel", err)
	}
}

func TestReadLabelBadEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lh.bad.label")
	content := "#!ascii label\n1\n0 1.0 2.0 x 0.0\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := ReadLabel(path)
	if !errors.Is(err, ErrMalformedLabel) {
		t.Errorf("ReadLabel = %v, want ErrMalformedLabel", err)
	}
}

func TestLabelMask(t *testing.T) {
	label := &Label{Entries: []LabelEntry{
		{Index: 1}, {Index: 3}, {Index: 4},
	}}
	mask := label.Mask(6)
	want := []bool{false, true, false, true, true, false}
	for i := range want {
		if mask[i] != want[i] {
			t.Errorf("mask[%d] = %v, want %v", i, mask[i], want[i])
		}
	}
}

func TestLabelMaskTooSmall(t *testing.T) {
	label := &Label{Entries: []LabelEntry{{Index: 0}, {Index: 1}, {Index: 2}}}
	defer func() {
		if recover() == nil {
			t.Error("expected panic for undersized mask")
		}
	}()
	label.Mask(2)
}

func TestLabelValues(t *testing.T) {
	label := &Label{Entries: []LabelEntry{
		{Index: 0, Value: 2.5},
		{Index: 2, Value: 1.5},
	}}
	vals := label.Values(4, -1)
	want := []float32{2.5, -1, 1.5, -1}
	for i := range want {
		if vals[i] != want[i] {
			t.Errorf("vals[%d] = %g, want %g", i, vals[i], want[i])
		}
	}
}

func TestLabelIsBinary(t *testing.T) {
	binary := &Label{Entries: []LabelEntry{
		{Index: 0, Value: 1}, {Index: 1, Value: 1},
	}}
	if !binary.IsBinary() {
		t.Error("IsBinary = false for uniform values")
	}

	graded := &Label{Entries: []LabelEntry{
		{Index: 0, Value: 1}, {Index: 1, Value: 2},
	}}
	if graded.IsBinary() {
		t.Error("IsBinary = true for mixed values")
	}

	empty := &Label{}
	if !empty.IsBinary() {
		t.Error("IsBinary = false for empty label")
	}
}
