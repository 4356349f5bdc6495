package ply

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// Write emits a complete PLY file to sink: magic line, format line,
// comments, obj_info, element/property declarations, end_header, and
// the payload built from every cursor attached via
// AddPropertiesToElement. binaryOut selects binary_little_endian over
// ascii; the writer never emits big-endian output (spec.md §4.5 — a
// caller that needs it writes ascii or little-endian and converts
// separately).
//
// Write performs no validation beyond what AddPropertiesToElement
// already checked: a cursor missing for some declared property is an
// authoring bug and surfaces as a plain error, not a typed one.
func (f *File) Write(sink Sink, binaryOut bool) error {
	format := ASCII
	if binaryOut {
		format = BinaryLittleEndian
	}

	w := bufio.NewWriter(sink)
	f.writeHeader(w, format)
	for _, cur := range f.uniqueCursors() {
		cur.Offset = 0
	}

	var err error
	if binaryOut {
		err = f.writePayloadBinary(w)
	} else {
		err = f.writePayloadASCII(w)
	}
	if err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("ply: %w", err)
	}
	return nil
}

// writeHeader never returns an error directly: bufio.Writer latches
// its first write error and Write's final Flush surfaces it.
func (f *File) writeHeader(w *bufio.Writer, format Format) {
	fmt.Fprintln(w, "ply")
	switch format {
	case ASCII:
		fmt.Fprintln(w, "format ascii 1.0")
	case BinaryLittleEndian:
		fmt.Fprintln(w, "format binary_little_endian 1.0")
	case BinaryBigEndian:
		fmt.Fprintln(w, "format binary_big_endian 1.0")
	}
	for _, c := range f.comments {
		fmt.Fprintf(w, "comment %s\n", c)
	}
	for _, o := range f.objInfo {
		fmt.Fprintf(w, "obj_info %s\n", o)
	}
	for _, e := range f.Elements {
		fmt.Fprintf(w, "element %s %d\n", e.Name, e.Count)
		for _, p := range e.Properties {
			if p.IsList {
				fmt.Fprintf(w, "property list %s %s %s\n", p.ListType, p.Type, p.Name)
			} else {
				fmt.Fprintf(w, "property %s %s\n", p.Type, p.Name)
			}
		}
	}
	fmt.Fprintln(w, "end_header")
}

func writeIntLE(buf []byte, t Type, v int64) {
	switch t {
	case Int8, Uint8:
		buf[0] = byte(v)
	case Int16, Uint16:
		binary.LittleEndian.PutUint16(buf, uint16(v))
	case Int32, Uint32:
		binary.LittleEndian.PutUint32(buf, uint32(v))
	}
}

func (f *File) writePayloadBinary(w *bufio.Writer) error {
	for ei := range f.Elements {
		e := &f.Elements[ei]
		for row := 0; row < e.Count; row++ {
			for pi := range e.Properties {
				p := &e.Properties[pi]
				cur := f.cursors[cursorKey(e.Name, p.Name)]
				if cur == nil {
					return fmt.Errorf("ply: %s.%s has no attached data", e.Name, p.Name)
				}
				stride := p.Type.Stride()
				if p.IsList {
					n, err := cur.rowLength(row, p.ListCount)
					if err != nil {
						return err
					}
					lenBuf := make([]byte, p.ListType.Stride())
					writeIntLE(lenBuf, p.ListType, int64(n))
					if _, err := w.Write(lenBuf); err != nil {
						return fmt.Errorf("ply: %w", err)
					}
					chunk := n * stride
					if _, err := w.Write(cur.Data[cur.Offset : cur.Offset+chunk]); err != nil {
						return fmt.Errorf("ply: %w", err)
					}
					cur.Offset += chunk
					continue
				}
				if _, err := w.Write(cur.Data[cur.Offset : cur.Offset+stride]); err != nil {
					return fmt.Errorf("ply: %w", err)
				}
				cur.Offset += stride
			}
		}
	}
	return nil
}

// writeASCIIScalar formats the little-endian-encoded value raw (of
// type t) the way tinyply's write_ascii_internal does: plain decimal
// for integers, shortest round-tripping decimal for floats.
func writeASCIIScalar(w *bufio.Writer, raw []byte, t Type) {
	switch t {
	case Int8:
		fmt.Fprintf(w, "%d", int8(raw[0]))
	case Uint8:
		fmt.Fprintf(w, "%d", raw[0])
	case Int16:
		fmt.Fprintf(w, "%d", int16(binary.LittleEndian.Uint16(raw)))
	case Uint16:
		fmt.Fprintf(w, "%d", binary.LittleEndian.Uint16(raw))
	case Int32:
		fmt.Fprintf(w, "%d", int32(binary.LittleEndian.Uint32(raw)))
	case Uint32:
		fmt.Fprintf(w, "%d", binary.LittleEndian.Uint32(raw))
	case Float32:
		v := math.Float32frombits(binary.LittleEndian.Uint32(raw))
		w.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	case Float64:
		v := math.Float64frombits(binary.LittleEndian.Uint64(raw))
		w.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
}

func (f *File) writePayloadASCII(w *bufio.Writer) error {
	for ei := range f.Elements {
		e := &f.Elements[ei]
		for row := 0; row < e.Count; row++ {
			for pi := range e.Properties {
				p := &e.Properties[pi]
				cur := f.cursors[cursorKey(e.Name, p.Name)]
				if cur == nil {
					return fmt.Errorf("ply: %s.%s has no attached data", e.Name, p.Name)
				}
				if pi > 0 {
					w.WriteByte(' ')
				}
				stride := p.Type.Stride()
				if p.IsList {
					n, err := cur.rowLength(row, p.ListCount)
					if err != nil {
						return err
					}
					fmt.Fprintf(w, "%d", n)
					for i := 0; i < n; i++ {
						w.WriteByte(' ')
						writeASCIIScalar(w, cur.Data[cur.Offset:cur.Offset+stride], p.Type)
						cur.Offset += stride
					}
					continue
				}
				writeASCIIScalar(w, cur.Data[cur.Offset:cur.Offset+stride], p.Type)
				cur.Offset += stride
			}
			w.WriteByte('\n')
		}
	}
	return nil
}
