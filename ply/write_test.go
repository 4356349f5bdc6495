package ply

import (
	"bytes"
	"strings"
	"testing"
)

func buildTestFile(t *testing.T) *File {
	t.Helper()
	f := NewFile()
	f.AddComment("built for testing")
	f.AddObjInfo("author test")

	xData := append(le32(1), le32(2)...)
	if _, err := f.AddPropertiesToElement("vertex", []string{"x"}, Float32, 2, xData, Invalid, 0); err != nil {
		t.Fatalf("AddPropertiesToElement x: %v", err)
	}

	faceCur, err := f.AddPropertiesToElement("face", []string{"vertex_indices"}, Int32, 1, nil, Uint8, VariableLength)
	if err != nil {
		t.Fatalf("AddPropertiesToElement vertex_indices: %v", err)
	}
	idxData := make([]byte, 12)
	for i, v := range []uint32{0, 1, 2} {
		putU32LE(idxData[i*4:], v)
	}
	faceCur.Data = idxData
	faceCur.ListSizes = []int{3}

	return f
}

func putU32LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func TestWriteASCIIRoundTrip(t *testing.T) {
	f := buildTestFile(t)

	var buf bytes.Buffer
	if err := f.Write(&buf, false); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "ply\nformat ascii 1.0\n") {
		t.Fatalf("header prefix wrong: %q", out)
	}
	if !strings.Contains(out, "comment built for testing\n") {
		t.Errorf("missing comment line: %q", out)
	}
	if !strings.Contains(out, "obj_info author test\n") {
		t.Errorf("missing obj_info line: %q", out)
	}
	if !strings.Contains(out, "property list uchar int vertex_indices\n") {
		t.Errorf("missing list property line: %q", out)
	}

	src := bytes.NewReader([]byte(out))
	rf := NewFile()
	if err := rf.ParseHeader(src); err != nil {
		t.Fatalf("re-parse header: %v", err)
	}
	xCur, err := rf.RequestPropertiesFromElement("vertex", "x")
	if err != nil {
		t.Fatalf("request x: %v", err)
	}
	faceCur, err := rf.RequestPropertiesFromElement("face", "vertex_indices")
	if err != nil {
		t.Fatalf("request vertex_indices: %v", err)
	}
	if err := rf.Read(src, 0); err != nil {
		t.Fatalf("re-read: %v", err)
	}

	want := append(le32(1), le32(2)...)
	if !bytes.Equal(xCur.Data, want) {
		t.Errorf("round-tripped x = %v, want %v", xCur.Data, want)
	}
	if len(faceCur.ListSizes) != 1 || faceCur.ListSizes[0] != 3 {
		t.Errorf("round-tripped face.ListSizes = %v, want [3]", faceCur.ListSizes)
	}
}

func TestWriteBinaryRoundTrip(t *testing.T) {
	f := buildTestFile(t)

	var buf bytes.Buffer
	if err := f.Write(&buf, true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "ply\nformat binary_little_endian 1.0\n") {
		t.Fatalf("unexpected binary header: %q", buf.Bytes()[:40])
	}

	src := bytes.NewReader(buf.Bytes())
	rf := NewFile()
	if err := rf.ParseHeader(src); err != nil {
		t.Fatalf("re-parse header: %v", err)
	}
	xCur, err := rf.RequestPropertiesFromElement("vertex", "x")
	if err != nil {
		t.Fatalf("request x: %v", err)
	}
	if err := rf.Read(src, 0); err != nil {
		t.Fatalf("re-read: %v", err)
	}
	want := append(le32(1), le32(2)...)
	if !bytes.Equal(xCur.Data, want) {
		t.Errorf("round-tripped x = %v, want %v", xCur.Data, want)
	}
}

func TestWriteMissingCursorFails(t *testing.T) {
	f := NewFile()
	f.Elements = []Element{{Name: "vertex", Count: 1, Properties: []Property{{Name: "x", Type: Float32}}}}

	var buf bytes.Buffer
	if err := f.Write(&buf, false); err == nil {
		t.Fatal("Write: got nil error, want failure for unattached property")
	}
}
