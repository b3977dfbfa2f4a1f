// Package xdr provides big-endian binary decoding and encoding utilities
// for reading and writing FreeSurfer file data.
//
// FreeSurfer containers store all multi-byte values in XDR-style big-endian
// byte order, without exception. Several of the containers additionally
// arrive wrapped in a transparent gzip envelope (.mgz, .surf.gz and
// friends), and gzip streams cannot seek, so the reader here works on a
// forward-only io.Reader rather than a positioned byte slice.
package xdr

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

var (
	// ErrNegativeSize is returned when a size parameter is negative.
	ErrNegativeSize = errors.New("xdr: negative size")
)

// ByteOrder is the byte order used by all FreeSurfer files.
var ByteOrder = binary.BigEndian

// Int24 interprets three bytes as a single 24-bit big-endian integer,
// the encoding FreeSurfer uses for surface and curv magic numbers.
func Int24(b1, b2, b3 byte) int32 {
	return int32(b1)<<16 | int32(b2)<<8 | int32(b3)
}

// Reader provides big-endian binary reading from a byte stream.
// It tracks the number of bytes consumed so callers can locate
// fixed payload offsets without seeking.
type Reader struct {
	r   io.Reader
	buf [8]byte
	pos int64
}

// NewReader creates a Reader from a byte stream. The stream should be
// buffered; streams returned by Open already are.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Pos returns the number of bytes consumed so far.
func (r *Reader) Pos() int64 {
	return r.pos
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(r.r, r.buf[:1]); err != nil {
		return 0, err
	}
	r.pos++
	return r.buf[0], nil
}

// ReadUint8 reads an unsigned 8-bit integer.
func (r *Reader) ReadUint8() (uint8, error) {
	return r.ReadByte()
}

// ReadBytes reads exactly n bytes into a new slice.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeSize
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		return nil, err
	}
	r.pos += int64(n)
	return b, nil
}

// Skip discards the next n bytes.
func (r *Reader) Skip(n int) error {
	if n < 0 {
		return ErrNegativeSize
	}
	m, err := io.CopyN(io.Discard, r.r, int64(n))
	r.pos += m
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// ReadInt16 reads a signed 16-bit big-endian integer.
func (r *Reader) ReadInt16() (int16, error) {
	if _, err := io.ReadFull(r.r, r.buf[:2]); err != nil {
		return 0, err
	}
	r.pos += 2
	return int16(ByteOrder.Uint16(r.buf[:2])), nil
}

// ReadInt32 reads a signed 32-bit big-endian integer.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadUint32 reads an unsigned 32-bit big-endian integer.
func (r *Reader) ReadUint32() (uint32, error) {
	if _, err := io.ReadFull(r.r, r.buf[:4]); err != nil {
		return 0, err
	}
	r.pos += 4
	return ByteOrder.Uint32(r.buf[:4]), nil
}

// ReadFloat32 reads a 32-bit big-endian IEEE 754 floating-point number.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadFixedString reads a string of exactly n bytes. Embedded zero bytes
// are passed through unchanged, except for a single trailing zero at
// position n-1, which is consumed but not included in the result. Several
// FreeSurfer string fields are length-prefixed and NUL-padded this way.
func (r *Reader) ReadFixedString(n int) (string, error) {
	b, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	if n > 0 && b[n-1] == 0 {
		b = b[:n-1]
	}
	return string(b), nil
}

// ReadCString reads bytes up to the next zero byte. The zero byte is
// consumed but not included in the result.
func (r *Reader) ReadCString() (string, error) {
	var sb strings.Builder
	for {
		c, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if c == 0 {
			return sb.String(), nil
		}
		sb.WriteByte(c)
	}
}

// ReadLineString reads bytes through the first occurrence of two
// consecutive linefeed bytes. Both linefeeds are included in the result.
// The surface format terminates its free-text info line this way, with no
// explicit length field.
func (r *Reader) ReadLineString() (string, error) {
	var sb strings.Builder
	var prev byte
	for {
		c, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		sb.WriteByte(c)
		if c == '\n' && prev == '\n' {
			return sb.String(), nil
		}
		prev = c
	}
}

// Writer provides big-endian binary writing to a byte stream.
type Writer struct {
	w   io.Writer
	buf [8]byte
}

// NewWriter creates a Writer over a byte stream.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) error {
	w.buf[0] = b
	_, err := w.w.Write(w.buf[:1])
	return err
}

// WriteBytes writes a byte slice verbatim.
func (w *Writer) WriteBytes(b []byte) error {
	_, err := w.w.Write(b)
	return err
}

// WriteInt16 writes a signed 16-bit big-endian integer.
func (w *Writer) WriteInt16(v int16) error {
	ByteOrder.PutUint16(w.buf[:2], uint16(v))
	_, err := w.w.Write(w.buf[:2])
	return err
}

// WriteInt32 writes a signed 32-bit big-endian integer.
func (w *Writer) WriteInt32(v int32) error {
	ByteOrder.PutUint32(w.buf[:4], uint32(v))
	_, err := w.w.Write(w.buf[:4])
	return err
}

// WriteFloat32 writes a 32-bit big-endian IEEE 754 floating-point number.
func (w *Writer) WriteFloat32(v float32) error {
	ByteOrder.PutUint32(w.buf[:4], math.Float32bits(v))
	_, err := w.w.Write(w.buf[:4])
	return err
}

// WriteString writes the bytes of s verbatim, with no terminator.
func (w *Writer) WriteString(s string) error {
	_, err := io.WriteString(w.w, s)
	return err
}

// IsCompressed reports whether the file name selects the transparent gzip
// envelope. Compression is a property of the name, not the content: a
// volume named brain.mgz is gzip-wrapped MGH, and any format name with a
// .gz suffix is treated the same way.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, ".gz") || strings.HasSuffix(path, ".mgz")
}

type envelope struct {
	io.Reader
	closers []io.Closer
}

func (e *envelope) Close() error {
	var first error
	for _, c := range e.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open opens path for reading, transparently unwrapping the gzip envelope
// when the file name calls for it. The returned stream is buffered and
// must be closed by the caller.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !IsCompressed(path) {
		return &envelope{Reader: bufio.NewReader(f), closers: []io.Closer{f}}, nil
	}
	zr, err := gzip.NewReader(bufio.NewReader(f))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &envelope{Reader: zr, closers: []io.Closer{zr, f}}, nil
}
