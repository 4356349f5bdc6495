package wire

import (
	"encoding/binary"
	"math"
)

// Writer encodes fixed-width scalars to a growable byte buffer in a
// caller-chosen byte order. It mirrors Reader's method set.
type Writer struct {
	buf   []byte
	order binary.ByteOrder
}

// NewWriter creates a Writer that appends to buf (which may be nil) using
// the given byte order.
func NewWriter(buf []byte, order binary.ByteOrder) *Writer {
	return &Writer{buf: buf, order: order}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// WriteU8 appends an unsigned 8-bit integer.
func (w *Writer) WriteU8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteU16 appends an unsigned 16-bit integer in the writer's byte order.
func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	w.order.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteU32 appends an unsigned 32-bit integer in the writer's byte order.
func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	w.order.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteI8 appends a signed 8-bit integer.
func (w *Writer) WriteI8(v int8) { w.WriteU8(uint8(v)) }

// WriteI16 appends a signed 16-bit integer in the writer's byte order.
func (w *Writer) WriteI16(v int16) { w.WriteU16(uint16(v)) }

// WriteI32 appends a signed 32-bit integer in the writer's byte order.
func (w *Writer) WriteI32(v int32) { w.WriteU32(uint32(v)) }

// WriteFloat32 appends an IEEE-754 32-bit float in the writer's byte order.
func (w *Writer) WriteFloat32(v float32) {
	w.WriteU32(math.Float32bits(v))
}

// WriteFloat64 appends an IEEE-754 64-bit float in the writer's byte order.
func (w *Writer) WriteFloat64(v float64) {
	var b [8]byte
	w.order.PutUint64(b[:], math.Float64bits(v))
	w.buf = append(w.buf, b[:]...)
}

// WriteBytes appends raw bytes verbatim.
func (w *Writer) WriteBytes(v []byte) {
	w.buf = append(w.buf, v...)
}
