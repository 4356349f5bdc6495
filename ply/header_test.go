package ply

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestParseHeaderASCIICube(t *testing.T) {
	header := "ply\n" +
		"format ascii 1.0\n" +
		"comment generated for testing\n" +
		"obj_info author test\n" +
		"element vertex 8\n" +
		"property float x\n" +
		"property float y\n" +
		"property float z\n" +
		"element face 6\n" +
		"property list uchar int vertex_indices\n" +
		"end_header\n"
	payload := "PAYLOAD"
	src := bytes.NewReader([]byte(header + payload))

	f := NewFile()
	if err := f.ParseHeader(src); err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}

	if f.Format() != ASCII {
		t.Errorf("Format() = %v, want ASCII", f.Format())
	}
	if got := f.Comments(); len(got) != 1 || got[0] != "generated for testing" {
		t.Errorf("Comments() = %v", got)
	}
	if got := f.ObjInfo(); len(got) != 1 || got[0] != "author test" {
		t.Errorf("ObjInfo() = %v", got)
	}

	elems := f.GetElements()
	if len(elems) != 2 {
		t.Fatalf("len(Elements) = %d, want 2", len(elems))
	}
	if elems[0].Name != "vertex" || elems[0].Count != 8 {
		t.Errorf("elements[0] = %+v", elems[0])
	}
	if len(elems[0].Properties) != 3 {
		t.Fatalf("len(vertex.Properties) = %d, want 3", len(elems[0].Properties))
	}
	for _, name := range []string{"x", "y", "z"} {
		p := elems[0].Property(name)
		if p == nil || p.Type != Float32 || p.IsList {
			t.Errorf("vertex.%s = %+v", name, p)
		}
	}

	faceProp := elems[1].Property("vertex_indices")
	if faceProp == nil || !faceProp.IsList || faceProp.Type != Int32 || faceProp.ListType != Uint8 {
		t.Errorf("face.vertex_indices = %+v", faceProp)
	}

	// The Source must sit exactly at the first payload byte.
	rest, err := io.ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(rest) != payload {
		t.Errorf("remaining bytes = %q, want %q", rest, payload)
	}
}

func TestParseHeaderBinaryFormats(t *testing.T) {
	tests := []struct {
		line string
		want Format
	}{
		{"format binary_little_endian 1.0\n", BinaryLittleEndian},
		{"format binary_big_endian 1.0\n", BinaryBigEndian},
	}
	for _, tt := range tests {
		header := "ply\n" + tt.line + "element e 0\nend_header\n"
		f := NewFile()
		if err := f.ParseHeader(bytes.NewReader([]byte(header))); err != nil {
			t.Fatalf("ParseHeader(%q): %v", tt.line, err)
		}
		if f.Format() != tt.want {
			t.Errorf("Format() = %v, want %v", f.Format(), tt.want)
		}
	}
}

func TestParseHeaderMagicCaseInsensitive(t *testing.T) {
	for _, magic := range []string{"ply", "PLY", "Ply"} {
		header := magic + "\nformat ascii 1.0\nend_header\n"
		f := NewFile()
		if err := f.ParseHeader(bytes.NewReader([]byte(header))); err != nil {
			t.Errorf("ParseHeader with magic %q: %v", magic, err)
		}
	}
}

func TestParseHeaderRejectsMissingMagic(t *testing.T) {
	f := NewFile()
	err := f.ParseHeader(bytes.NewReader([]byte("format ascii 1.0\nend_header\n")))
	var he *HeaderError
	if !errors.As(err, &he) {
		t.Fatalf("ParseHeader error = %v, want *HeaderError", err)
	}
}

func TestParseHeaderRejectsPropertyBeforeElement(t *testing.T) {
	header := "ply\nformat ascii 1.0\nproperty float x\nend_header\n"
	f := NewFile()
	err := f.ParseHeader(bytes.NewReader([]byte(header)))
	if err == nil {
		t.Fatal("ParseHeader: got nil error, want failure")
	}
}

func TestParseHeaderRejectsNegativeElementCount(t *testing.T) {
	header := "ply\nformat ascii 1.0\nelement vertex -1\nend_header\n"
	f := NewFile()
	err := f.ParseHeader(bytes.NewReader([]byte(header)))
	if err == nil {
		t.Fatal("ParseHeader: got nil error, want failure")
	}
}

func TestParseHeaderRejectsUnknownType(t *testing.T) {
	header := "ply\nformat ascii 1.0\nelement vertex 1\nproperty bogus x\nend_header\n"
	f := NewFile()
	err := f.ParseHeader(bytes.NewReader([]byte(header)))
	if err == nil {
		t.Fatal("ParseHeader: got nil error, want failure")
	}
}

func TestParseHeaderRejectsUnexpectedEOF(t *testing.T) {
	f := NewFile()
	err := f.ParseHeader(bytes.NewReader([]byte("ply\nformat ascii 1.0\n")))
	if err == nil {
		t.Fatal("ParseHeader: got nil error, want failure")
	}
}

func TestStripKeyword(t *testing.T) {
	tests := []struct {
		line, keyword, want string
	}{
		{"comment hello world", "comment", "hello world"},
		{"obj_info author me", "obj_info", "author me"},
		{"comment", "comment", ""},
	}
	for _, tt := range tests {
		if got := stripKeyword(tt.line, tt.keyword); got != tt.want {
			t.Errorf("stripKeyword(%q, %q) = %q, want %q", tt.line, tt.keyword, got, tt.want)
		}
	}
}
