package ply

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/arfenik/goply/internal/wire"
)

// Read fills every cursor bound by RequestPropertiesFromElement by
// scanning the payload in element/row/property order, starting at
// src's current position (which must be the first payload byte, as
// left by ParseHeader).
//
// fixedListSize is a performance hint: 0 means "don't know", and Read
// performs a sizing pass over the whole payload before seeking src
// back to the start and copying into freshly-sized cursor buffers.
// A nonzero value asserts that every bound list property has exactly
// that many entries per row; Read then preallocates once and makes a
// single pass, failing with a PayloadError if any bound row disagrees.
//
// Binary and ASCII payloads each get their own scalar and list
// handling rather than a shared virtual dispatch per value, since
// only two formats and two shapes exist.
func (f *File) Read(src Source, fixedListSize int) error {
	if !f.parsed {
		return ErrNotParsed
	}
	if f.format == ASCII {
		return f.readASCII(src, fixedListSize)
	}
	return f.readBinary(src, fixedListSize)
}

func (f *File) uniqueCursors() []*Cursor {
	seen := make(map[*Cursor]bool, len(f.cursors))
	var out []*Cursor
	for _, c := range f.cursors {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

func payloadIOErr(elem, prop string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &PayloadError{Element: elem, Property: prop, Offset: -1, Message: "unexpected end of payload", Err: err}
	}
	return fmt.Errorf("ply: %w", err)
}

// decodeInt interprets raw (stored in order) as an integer Type,
// sign-extending as needed. Used only for list-length prefixes.
func decodeInt(raw []byte, order binary.ByteOrder, t Type) int64 {
	switch t {
	case Int8:
		return int64(int8(raw[0]))
	case Uint8:
		return int64(raw[0])
	case Int16:
		return int64(int16(order.Uint16(raw)))
	case Uint16:
		return int64(order.Uint16(raw))
	case Int32:
		return int64(int32(order.Uint32(raw)))
	case Uint32:
		return int64(order.Uint32(raw))
	default:
		return 0
	}
}

// swapIfBig reverses each stride-sized chunk of buf in place, when big
// is set. This is the entire endian handling needed on the binary read
// path: the destination convention is always little-endian, so a
// little-endian source is copied untouched and a big-endian source has
// each value's bytes reversed.
func swapIfBig(buf []byte, stride int, big bool) {
	if !big || stride <= 1 {
		return
	}
	for i := 0; i+stride <= len(buf); i += stride {
		for a, b := i, i+stride-1; a < b; a, b = a+1, b-1 {
			buf[a], buf[b] = buf[b], buf[a]
		}
	}
}

func readBlock(src Source, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(src, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func readListLength(src Source, order binary.ByteOrder, listType Type, elem, prop string) (int, error) {
	raw := make([]byte, listType.Stride())
	if _, err := io.ReadFull(src, raw); err != nil {
		return 0, payloadIOErr(elem, prop, err)
	}
	n := decodeInt(raw, order, listType)
	if n < 0 {
		return 0, &PayloadError{Element: elem, Property: prop, Offset: -1, Message: fmt.Sprintf("negative list length %d", n)}
	}
	return int(n), nil
}

func (f *File) readBinary(src Source, fixedListSize int) error {
	big := f.format == BinaryBigEndian
	order := binary.ByteOrder(binary.LittleEndian)
	if big {
		order = binary.BigEndian
	}

	if fixedListSize > 0 {
		return f.copyBinarySinglePass(src, order, big, fixedListSize)
	}

	payloadStart, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("ply: %w", err)
	}
	if err := f.sizeBinaryPass(src, order); err != nil {
		return err
	}
	if _, err := src.Seek(payloadStart, io.SeekStart); err != nil {
		return fmt.Errorf("ply: %w", err)
	}
	for _, cur := range f.uniqueCursors() {
		cur.Data = make([]byte, cur.size)
		cur.Offset = 0
	}
	return f.copyBinaryPass(src, order, big)
}

func (f *File) sizeBinaryPass(src Source, order binary.ByteOrder) error {
	for ei := range f.Elements {
		e := &f.Elements[ei]
		for row := 0; row < e.Count; row++ {
			for pi := range e.Properties {
				p := &e.Properties[pi]
				cur := f.cursors[cursorKey(e.Name, p.Name)]
				stride := p.Type.Stride()
				if p.IsList {
					n, err := readListLength(src, order, p.ListType, e.Name, p.Name)
					if err != nil {
						return err
					}
					if cur != nil {
						cur.size += n * stride
						cur.ListSizes = append(cur.ListSizes, n)
					}
					if n > 0 {
						if _, err := io.CopyN(io.Discard, src, int64(n*stride)); err != nil {
							return payloadIOErr(e.Name, p.Name, err)
						}
					}
					continue
				}
				if cur != nil {
					cur.size += stride
				}
				if _, err := io.CopyN(io.Discard, src, int64(stride)); err != nil {
					return payloadIOErr(e.Name, p.Name, err)
				}
			}
		}
	}
	return nil
}

func (f *File) copyBinaryPass(src Source, order binary.ByteOrder, big bool) error {
	for ei := range f.Elements {
		e := &f.Elements[ei]
		for row := 0; row < e.Count; row++ {
			for pi := range e.Properties {
				p := &e.Properties[pi]
				cur := f.cursors[cursorKey(e.Name, p.Name)]
				stride := p.Type.Stride()
				if p.IsList {
					n, err := readListLength(src, order, p.ListType, e.Name, p.Name)
					if err != nil {
						return err
					}
					if n == 0 {
						continue
					}
					block, err := readBlock(src, n*stride)
					if err != nil {
						return payloadIOErr(e.Name, p.Name, err)
					}
					if cur != nil {
						swapIfBig(block, stride, big)
						copy(cur.Data[cur.Offset:], block)
						cur.Offset += len(block)
					}
					continue
				}
				block, err := readBlock(src, stride)
				if err != nil {
					return payloadIOErr(e.Name, p.Name, err)
				}
				if cur != nil {
					swapIfBig(block, stride, big)
					copy(cur.Data[cur.Offset:], block)
					cur.Offset += stride
				}
			}
		}
	}
	return nil
}

func (f *File) copyBinarySinglePass(src Source, order binary.ByteOrder, big bool, hint int) error {
	for _, cur := range f.uniqueCursors() {
		if cur.IsList {
			cur.Data = make([]byte, cur.Count*hint*cur.Type.Stride())
		} else {
			cur.Data = make([]byte, cur.Count*cur.Type.Stride())
		}
		cur.Offset = 0
	}

	for ei := range f.Elements {
		e := &f.Elements[ei]
		for row := 0; row < e.Count; row++ {
			for pi := range e.Properties {
				p := &e.Properties[pi]
				cur := f.cursors[cursorKey(e.Name, p.Name)]
				stride := p.Type.Stride()
				if p.IsList {
					n, err := readListLength(src, order, p.ListType, e.Name, p.Name)
					if err != nil {
						return err
					}
					if cur != nil {
						if n != hint {
							return &PayloadError{Element: e.Name, Property: p.Name, Offset: -1,
								Message: fmt.Sprintf("list length %d disagrees with fixed hint %d", n, hint)}
						}
						cur.ListSizes = append(cur.ListSizes, n)
					}
					if n == 0 {
						continue
					}
					block, err := readBlock(src, n*stride)
					if err != nil {
						return payloadIOErr(e.Name, p.Name, err)
					}
					if cur != nil {
						swapIfBig(block, stride, big)
						copy(cur.Data[cur.Offset:], block)
						cur.Offset += len(block)
					}
					continue
				}
				block, err := readBlock(src, stride)
				if err != nil {
					return payloadIOErr(e.Name, p.Name, err)
				}
				if cur != nil {
					swapIfBig(block, stride, big)
					copy(cur.Data[cur.Offset:], block)
					cur.Offset += stride
				}
			}
		}
	}
	return nil
}

// asciiTokens wraps a bufio.Scanner split on whitespace, treating
// end-of-input as io.EOF rather than a silent false from Scan.
type asciiTokens struct {
	sc *bufio.Scanner
}

func newASCIITokens(r io.Reader) *asciiTokens {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	sc.Split(bufio.ScanWords)
	return &asciiTokens{sc: sc}
}

func (t *asciiTokens) next() (string, error) {
	if t.sc.Scan() {
		return t.sc.Text(), nil
	}
	if err := t.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (f *File) readASCII(src Source, fixedListSize int) error {
	if fixedListSize > 0 {
		return f.copyASCIIPass(newASCIITokens(src), fixedListSize, true)
	}

	payloadStart, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("ply: %w", err)
	}
	if err := f.sizeASCIIPass(newASCIITokens(src)); err != nil {
		return err
	}
	if _, err := src.Seek(payloadStart, io.SeekStart); err != nil {
		return fmt.Errorf("ply: %w", err)
	}
	for _, cur := range f.uniqueCursors() {
		cur.Data = make([]byte, cur.size)
		cur.Offset = 0
	}
	return f.copyASCIIPass(newASCIITokens(src), 0, false)
}

func (f *File) sizeASCIIPass(tok *asciiTokens) error {
	for ei := range f.Elements {
		e := &f.Elements[ei]
		for row := 0; row < e.Count; row++ {
			for pi := range e.Properties {
				p := &e.Properties[pi]
				cur := f.cursors[cursorKey(e.Name, p.Name)]
				if p.IsList {
					lenTok, err := tok.next()
					if err != nil {
						return payloadIOErr(e.Name, p.Name, err)
					}
					n, err := strconv.Atoi(lenTok)
					if err != nil || n < 0 {
						return &PayloadError{Element: e.Name, Property: p.Name, Offset: -1, Message: fmt.Sprintf("invalid list length token %q", lenTok)}
					}
					if cur != nil {
						cur.size += n * p.Type.Stride()
						cur.ListSizes = append(cur.ListSizes, n)
					}
					for i := 0; i < n; i++ {
						if _, err := tok.next(); err != nil {
							return payloadIOErr(e.Name, p.Name, err)
						}
					}
					continue
				}
				if cur != nil {
					cur.size += p.Type.Stride()
				}
				if _, err := tok.next(); err != nil {
					return payloadIOErr(e.Name, p.Name, err)
				}
			}
		}
	}
	return nil
}

func (f *File) copyASCIIPass(tok *asciiTokens, hint int, hinted bool) error {
	if hinted {
		for _, cur := range f.uniqueCursors() {
			if cur.IsList {
				cur.Data = make([]byte, cur.Count*hint*cur.Type.Stride())
			} else {
				cur.Data = make([]byte, cur.Count*cur.Type.Stride())
			}
			cur.Offset = 0
		}
	}

	for ei := range f.Elements {
		e := &f.Elements[ei]
		for row := 0; row < e.Count; row++ {
			for pi := range e.Properties {
				p := &e.Properties[pi]
				cur := f.cursors[cursorKey(e.Name, p.Name)]
				if p.IsList {
					lenTok, err := tok.next()
					if err != nil {
						return payloadIOErr(e.Name, p.Name, err)
					}
					n, err := strconv.Atoi(lenTok)
					if err != nil || n < 0 {
						return &PayloadError{Element: e.Name, Property: p.Name, Offset: -1, Message: fmt.Sprintf("invalid list length token %q", lenTok)}
					}
					if hinted && cur != nil && n != hint {
						return &PayloadError{Element: e.Name, Property: p.Name, Offset: -1,
							Message: fmt.Sprintf("list length %d disagrees with fixed hint %d", n, hint)}
					}
					// Without a hint the sizing pass has already recorded n.
					if hinted && cur != nil {
						cur.ListSizes = append(cur.ListSizes, n)
					}
					for i := 0; i < n; i++ {
						v, err := tok.next()
						if err != nil {
							return payloadIOErr(e.Name, p.Name, err)
						}
						if cur == nil {
							continue
						}
						leb, err := encodeASCIIToLE(v, p.Type)
						if err != nil {
							return &PayloadError{Element: e.Name, Property: p.Name, Offset: -1, Message: fmt.Sprintf("invalid numeric token %q", v), Err: err}
						}
						copy(cur.Data[cur.Offset:], leb)
						cur.Offset += len(leb)
					}
					continue
				}
				v, err := tok.next()
				if err != nil {
					return payloadIOErr(e.Name, p.Name, err)
				}
				if cur == nil {
					continue
				}
				leb, err := encodeASCIIToLE(v, p.Type)
				if err != nil {
					return &PayloadError{Element: e.Name, Property: p.Name, Offset: -1, Message: fmt.Sprintf("invalid numeric token %q", v), Err: err}
				}
				copy(cur.Data[cur.Offset:], leb)
				cur.Offset += len(leb)
			}
		}
	}
	return nil
}

// encodeASCIIToLE parses tok as t and returns its little-endian byte
// representation, the destination buffer convention shared by every
// cursor regardless of source format.
func encodeASCIIToLE(tok string, t Type) ([]byte, error) {
	w := wire.NewWriter(nil, binary.LittleEndian)
	switch t {
	case Int8:
		v, err := strconv.ParseInt(tok, 10, 8)
		if err != nil {
			return nil, err
		}
		w.WriteI8(int8(v))
	case Uint8:
		v, err := strconv.ParseUint(tok, 10, 8)
		if err != nil {
			return nil, err
		}
		w.WriteU8(uint8(v))
	case Int16:
		v, err := strconv.ParseInt(tok, 10, 16)
		if err != nil {
			return nil, err
		}
		w.WriteI16(int16(v))
	case Uint16:
		v, err := strconv.ParseUint(tok, 10, 16)
		if err != nil {
			return nil, err
		}
		w.WriteU16(uint16(v))
	case Int32:
		v, err := strconv.ParseInt(tok, 10, 32)
		if err != nil {
			return nil, err
		}
		w.WriteI32(int32(v))
	case Uint32:
		v, err := strconv.ParseUint(tok, 10, 32)
		if err != nil {
			return nil, err
		}
		w.WriteU32(uint32(v))
	case Float32:
		v, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return nil, err
		}
		w.WriteFloat32(float32(v))
	case Float64:
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, err
		}
		w.WriteFloat64(v)
	default:
		return nil, fmt.Errorf("unsupported type %s", t)
	}
	return w.Bytes(), nil
}
