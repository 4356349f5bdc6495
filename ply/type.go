package ply

import "fmt"

// Type is the closed enumeration of scalar property types a PLY header
// can declare. It never changes shape at runtime — treat the table
// below as an immutable, process-wide constant.
type Type uint8

// The complete set of scalar types, plus Invalid as a sentinel for
// unrecognized header spellings.
const (
	Invalid Type = iota
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Float32
	Float64
)

type typeInfo struct {
	stride  int
	short   string
	long    string
}

var typeTable = [...]typeInfo{
	Invalid: {0, "INVALID", "INVALID"},
	Int8:    {1, "char", "int8"},
	Uint8:   {1, "uchar", "uint8"},
	Int16:   {2, "short", "int16"},
	Uint16:  {2, "ushort", "uint16"},
	Int32:   {4, "int", "int32"},
	Uint32:  {4, "uint", "uint32"},
	Float32: {4, "float", "float32"},
	Float64: {8, "double", "float64"},
}

// Stride returns the fixed byte width of t, or 0 for Invalid.
func (t Type) Stride() int {
	if int(t) >= len(typeTable) {
		return 0
	}
	return typeTable[t].stride
}

// String returns the canonical short spelling emitted on write
// (e.g. "int", "uchar", "double").
func (t Type) String() string {
	if int(t) >= len(typeTable) {
		return "INVALID"
	}
	return typeTable[t].short
}

// IsValid reports whether t is one of the eight non-sentinel scalar types.
func (t Type) IsValid() bool {
	return t != Invalid && int(t) < len(typeTable)
}

var spellings = buildSpellings()

func buildSpellings() map[string]Type {
	m := make(map[string]Type, 2*(len(typeTable)-1))
	for t := Int8; int(t) < len(typeTable); t++ {
		info := typeTable[t]
		m[info.short] = t
		m[info.long] = t
	}
	return m
}

// ParseType maps a header type token (either spelling, e.g. "int32" or
// "int") to its Type. Unknown tokens yield Invalid.
func ParseType(token string) Type {
	if t, ok := spellings[token]; ok {
		return t
	}
	return Invalid
}

// SizeMatches reports whether a destination element width of
// widthBytes is a legal home for a property of type t — i.e. the
// caller's declared per-element size equals the on-disk stride.
func SizeMatches(t Type, widthBytes int) bool {
	return t.IsValid() && t.Stride() == widthBytes
}

// widthError formats a width-mismatch message naming the type and
// both widths, used by request-time argument errors.
func widthError(t Type, widthBytes int) error {
	return fmt.Errorf("%w: %s has stride %d, destination width is %d", ErrWidthMismatch, t, t.Stride(), widthBytes)
}
