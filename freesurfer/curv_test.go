package freesurfer

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestCurvRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lh.thickness")

	want := NewCurv([]float32{2.5, 3.1, 0, -1.5, 2.9}, 6)
	if err := WriteCurv(path, want); err != nil {
		t.Fatalf("WriteCurv: %v", err)
	}
	got, err := ReadCurv(path)
	if err != nil {
		t.Fatalf("ReadCurv: %v", err)
	}

	if got.Header != want.Header {
		t.Errorf("header = %+v, want %+v", got.Header, want.Header)
	}
	if !reflect.DeepEqual(got.Data, want.Data) {
		t.Errorf("data = %v, want %v", got.Data, want.Data)
	}

	path2 := filepath.Join(dir, "lh.thickness.copy")
	if err := WriteCurv(path2, got); err != nil {
		t.Fatalf("WriteCurv: %v", err)
	}
	b1, _ := os.ReadFile(path)
	b2, _ := os.ReadFile(path2)
	if !bytes.Equal(b1, b2) {
		t.Error("re-encoded file differs from original")
	}
}

func TestCurvHeader(t *testing.T) {
	c := NewCurv(make([]float32, 7), 10)
	if c.Header.Magic != [3]byte{255, 255, 255} {
		t.Errorf("magic = %v", c.Header.Magic)
	}
	if c.Header.NumVertices != 7 || c.Header.NumFaces != 10 || c.Header.ValuesPerVertex != 1 {
		t.Errorf("header = %+v", c.Header)
	}
}

func TestCurvInvalidMagic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lh.bad")

	c := NewCurv([]float32{1}, 0)
	c.Header.Magic = [3]byte{255, 255, 254}
	if err := WriteCurv(path, c); err != nil {
		t.Fatalf("WriteCurv: %v", err)
	}
	_, err := ReadCurv(path)
	if !errors.Is(err, ErrInvalidCurvFormat) {
		t.Errorf("ReadCurv = %v, want ErrInvalidCurvFormat", err)
	}
}

func TestCurvGzip(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "lh.area")
	want := NewCurv([]float32{0.5, 0.25, 0.75}, 4)
	if err := WriteCurv(plain, want); err != nil {
		t.Fatalf("WriteCurv: %v", err)
	}
	raw, err := os.ReadFile(plain)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write(raw)
	zw.Close()
	packed := filepath.Join(dir, "lh.area.gz")
	if err := os.WriteFile(packed, buf.Bytes(), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := ReadCurv(packed)
	if err != nil {
		t.Fatalf("ReadCurv: %v", err)
	}
	if !reflect.DeepEqual(got.Data, want.Data) {
		t.Errorf("data = %v, want %v", got.Data, want.Data)
	}
}

func TestCurvTruncated(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lh.cut")

	c := NewCurv([]float32{1, 2, 3, 4}, 0)
	c.Header.NumVertices = 5 // claims one more value than the payload holds
	if err := WriteCurv(path, c); err != nil {
		t.Fatalf("WriteCurv: %v", err)
	}
	if _, err := ReadCurv(path); err == nil {
		t.Error("expected error for truncated payload")
	}
}
