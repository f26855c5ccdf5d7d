// Package record implements the fixed-width binary record format shared by
// seed input and particle output.
//
// Each record is exactly 16 bytes, little-endian:
//
//	[ParentID:uint32][X:float32][Y:float32][Z:float32]
//
// The format is append-only and self-delimiting by width alone; there is no
// header, no framing and no checksum.
package record

import (
	"encoding/binary"
	"io"
	"math"
)

// Size is the encoded width of one record in bytes.
const Size = 16

// NoParent is the on-wire parent sentinel for particles without a parent.
// It is -1 truncated to uint32.
const NoParent = ^uint32(0)

// Record is one particle on the wire.
type Record struct {
	ParentID uint32
	X        float32
	Y        float32
	Z        float32
}

// Append appends the encoded record to dst and returns the extended slice.
func Append(dst []byte, r Record) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, r.ParentID)
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(r.X))
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(r.Y))
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(r.Z))
	return dst
}

// Decode decodes one record from buf. buf must hold at least Size bytes.
func Decode(buf []byte) Record {
	return Record{
		ParentID: binary.LittleEndian.Uint32(buf[0:4]),
		X:        math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8])),
		Y:        math.Float32frombits(binary.LittleEndian.Uint32(buf[8:12])),
		Z:        math.Float32frombits(binary.LittleEndian.Uint32(buf[12:16])),
	}
}

// Writer encodes records to an underlying stream.
type Writer struct {
	w   io.Writer
	buf []byte
}

// NewWriter creates a Writer on top of w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, buf: make([]byte, 0, Size)}
}

// Write encodes and writes a single record.
func (w *Writer) Write(r Record) error {
	w.buf = Append(w.buf[:0], r)
	_, err := w.w.Write(w.buf)
	return err
}

// Reader decodes records from an underlying stream.
type Reader struct {
	r   io.Reader
	buf [Size]byte
}

// NewReader creates a Reader on top of r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Read decodes the next record. It returns io.EOF at the end of the stream.
// A record truncated mid-struct is treated as end of stream, not as an error:
// already-read records stand.
func (r *Reader) Read() (Record, error) {
	if _, err := io.ReadFull(r.r, r.buf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return Record{}, err
	}
	return Decode(r.buf[:]), nil
}
