package ply

import (
	"errors"
	"testing"
)

func cubeHeaderFile(t *testing.T) *File {
	t.Helper()
	f := NewFile()
	f.Elements = []Element{
		{
			Name:  "vertex",
			Count: 4,
			Properties: []Property{
				{Name: "x", Type: Float32},
				{Name: "y", Type: Float32},
				{Name: "z", Type: Float32},
				{Name: "confidence", Type: Int32},
			},
		},
		{
			Name:  "face",
			Count: 2,
			Properties: []Property{
				{Name: "vertex_indices", IsList: true, Type: Int32, ListType: Uint8},
			},
		},
	}
	f.parsed = true
	return f
}

func TestRequestPropertiesFromElement(t *testing.T) {
	f := cubeHeaderFile(t)

	cur, err := f.RequestPropertiesFromElement("vertex", "x", "y", "z")
	if err != nil {
		t.Fatalf("RequestPropertiesFromElement: %v", err)
	}
	if cur.Type != Float32 || cur.IsList {
		t.Errorf("cursor = %+v", cur)
	}
	if cur.Count != 4 {
		t.Errorf("cursor.Count = %d, want 4", cur.Count)
	}
}

func TestRequestPropertiesFromElementUnknownElement(t *testing.T) {
	f := cubeHeaderFile(t)
	_, err := f.RequestPropertiesFromElement("nope", "x")
	if !errors.Is(err, ErrElementNotFound) {
		t.Errorf("err = %v, want ErrElementNotFound", err)
	}
}

func TestRequestPropertiesFromElementUnknownProperty(t *testing.T) {
	f := cubeHeaderFile(t)
	_, err := f.RequestPropertiesFromElement("vertex", "w")
	if !errors.Is(err, ErrPropertyNotFound) {
		t.Errorf("err = %v, want ErrPropertyNotFound", err)
	}
}

func TestRequestPropertiesFromElementEmptyRequest(t *testing.T) {
	f := cubeHeaderFile(t)
	if _, err := f.RequestPropertiesFromElement("vertex"); !errors.Is(err, ErrEmptyRequest) {
		t.Errorf("err = %v, want ErrEmptyRequest", err)
	}
	if _, err := f.RequestPropertiesFromElement("", "x"); !errors.Is(err, ErrEmptyRequest) {
		t.Errorf("err = %v, want ErrEmptyRequest", err)
	}
}

func TestRequestPropertiesFromElementTypeMismatch(t *testing.T) {
	f := cubeHeaderFile(t)
	_, err := f.RequestPropertiesFromElement("vertex", "x", "confidence")
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("err = %v, want ErrTypeMismatch", err)
	}
}

func TestRequestPropertiesFromElementListMismatch(t *testing.T) {
	f := cubeHeaderFile(t)
	f.Elements[1].Properties = append(f.Elements[1].Properties, Property{Name: "flat_color", Type: Int32})
	_, err := f.RequestPropertiesFromElement("face", "vertex_indices", "flat_color")
	if !errors.Is(err, ErrListMismatch) {
		t.Errorf("err = %v, want ErrListMismatch", err)
	}
}

func TestRequestPropertiesFromElementDuplicate(t *testing.T) {
	f := cubeHeaderFile(t)
	if _, err := f.RequestPropertiesFromElement("vertex", "x"); err != nil {
		t.Fatalf("first request: %v", err)
	}
	_, err := f.RequestPropertiesFromElement("vertex", "x")
	if !errors.Is(err, ErrDuplicateRequest) {
		t.Errorf("err = %v, want ErrDuplicateRequest", err)
	}
}

func TestAddPropertiesToElementScalar(t *testing.T) {
	f := NewFile()
	data := make([]byte, 3*4)
	cur, err := f.AddPropertiesToElement("vertex", []string{"x"}, Float32, 3, data, Invalid, 0)
	if err != nil {
		t.Fatalf("AddPropertiesToElement: %v", err)
	}
	if cur.Count != 3 || cur.IsList {
		t.Errorf("cursor = %+v", cur)
	}
	e := f.Element("vertex")
	if e == nil || e.Count != 3 {
		t.Fatalf("Element(\"vertex\") = %+v", e)
	}
	if p := e.Property("x"); p == nil || p.Type != Float32 {
		t.Errorf("property x = %+v", p)
	}
}

func TestAddPropertiesToElementList(t *testing.T) {
	f := NewFile()
	cur, err := f.AddPropertiesToElement("face", []string{"vertex_indices"}, Int32, 2, nil, Uint8, VariableLength)
	if err != nil {
		t.Fatalf("AddPropertiesToElement: %v", err)
	}
	if !cur.IsList {
		t.Error("cursor.IsList = false, want true")
	}
	p := f.Element("face").Property("vertex_indices")
	if p == nil || !p.IsList || p.ListType != Uint8 || p.ListCount != VariableLength {
		t.Errorf("property = %+v", p)
	}
}

func TestAddPropertiesToElementDuplicate(t *testing.T) {
	f := NewFile()
	data := make([]byte, 4)
	if _, err := f.AddPropertiesToElement("vertex", []string{"x"}, Float32, 1, data, Invalid, 0); err != nil {
		t.Fatalf("first add: %v", err)
	}
	_, err := f.AddPropertiesToElement("vertex", []string{"x"}, Float32, 1, data, Invalid, 0)
	if !errors.Is(err, ErrDuplicateRequest) {
		t.Errorf("err = %v, want ErrDuplicateRequest", err)
	}
}

func TestAddPropertiesToElementWidthMismatch(t *testing.T) {
	f := NewFile()
	_, err := f.AddPropertiesToElement("vertex", []string{"x"}, Float32, 3, make([]byte, 4), Invalid, 0)
	if !errors.Is(err, ErrWidthMismatch) {
		t.Errorf("err = %v, want ErrWidthMismatch", err)
	}
}
