package ply

import "io"

// Format identifies how the payload following end_header is encoded.
type Format int

const (
	// ASCII is the plain-text payload encoding.
	ASCII Format = iota
	// BinaryLittleEndian is the little-endian binary payload encoding.
	BinaryLittleEndian
	// BinaryBigEndian is the big-endian binary payload encoding.
	BinaryBigEndian
)

// Source is the byte-oriented input the header parser and payload
// scanner consume: sequential reads plus absolute positioning. Any
// io.ReadSeeker satisfies it.
type Source interface {
	io.Reader
	io.Seeker
}

// Sink is the byte-oriented output the writer emits to. Any io.Writer
// satisfies it.
type Sink interface {
	io.Writer
}

// File is a parsed or assembled PLY file: an ordered list of elements,
// free-form metadata, a format tag, and the cursor map binding user
// requests to regions of the payload. The zero value is an empty file
// ready to have elements attached via AddPropertiesToElement, or
// populated by ParseHeader.
type File struct {
	Elements []Element

	comments []string
	objInfo  []string
	format   Format
	parsed   bool

	cursors  map[string]*Cursor
	bound    map[string]bool // "element-property" keys already bound via RequestPropertiesFromElement
}

// NewFile returns an empty File ready for writing.
func NewFile() *File {
	f := &File{}
	f.ensureMaps()
	return f
}

// ensureMaps lazily initializes the cursor-binding maps so the zero
// value of File can be used directly, not just one built by NewFile.
func (f *File) ensureMaps() {
	if f.cursors == nil {
		f.cursors = make(map[string]*Cursor)
	}
	if f.bound == nil {
		f.bound = make(map[string]bool)
	}
}

// Comments returns the file's comment lines, in header order. The
// returned slice aliases the File's own storage; callers must not
// resize it concurrently with other File operations.
func (f *File) Comments() []string { return f.comments }

// AddComment appends a comment line for output.
func (f *File) AddComment(text string) { f.comments = append(f.comments, text) }

// ObjInfo returns the file's obj_info lines, in header order.
func (f *File) ObjInfo() []string { return f.objInfo }

// AddObjInfo appends an obj_info line for output.
func (f *File) AddObjInfo(text string) { f.objInfo = append(f.objInfo, text) }

// Format returns the file's payload encoding.
func (f *File) Format() Format { return f.format }

// IsBinary reports whether the payload is binary (either endianness).
func (f *File) IsBinary() bool { return f.format != ASCII }

// IsBigEndian reports whether the payload is binary_big_endian.
func (f *File) IsBigEndian() bool { return f.format == BinaryBigEndian }

// GetElements returns a read-only view of the parsed element descriptors.
func (f *File) GetElements() []Element { return f.Elements }

// Element returns the element named name, or nil if it doesn't exist.
func (f *File) Element(name string) *Element {
	for i := range f.Elements {
		if f.Elements[i].Name == name {
			return &f.Elements[i]
		}
	}
	return nil
}

func cursorKey(element, property string) string {
	return element + "-" + property
}
