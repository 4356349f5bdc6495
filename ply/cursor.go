package ply

import "fmt"

// Cursor is the mutable binding between a user's property request (or
// authored data) and a region of the payload. Multiple property names
// requested together share one Cursor — the destination buffer holds
// their values interleaved in declared order.
//
// On the read side, Data is allocated by Read once the required size
// is known (either from the sizing pass or from a fixed-size hint).
// On the write side, Data is the caller's own buffer, attached as-is.
//
// Destination buffers always hold scalars in little-endian byte order,
// regardless of the file's on-disk format or the host's architecture —
// this keeps Scenario C-style endian symmetry (spec.md §8 item 4) true
// on every host, not just little-endian ones.
type Cursor struct {
	Data   []byte
	Offset int

	Count  int
	Type   Type
	IsList bool

	// ListSizes holds the observed (read) or to-be-written (write) per-row
	// list length, in row order, for list cursors only.
	ListSizes []int

	valid bool
	size  int // running total accumulated during the binary/ASCII sizing pass
}

// IsValid reports whether the cursor is still live. A Cursor returned
// by RequestPropertiesFromElement or AddPropertiesToElement is always
// valid at creation.
func (c *Cursor) IsValid() bool { return c.valid }

// rowLength returns the number of list elements at the given row: the
// fixed count if nonzero, otherwise the row's recorded observation.
func (c *Cursor) rowLength(row, fixed int) (int, error) {
	if fixed != VariableLength {
		return fixed, nil
	}
	if row >= len(c.ListSizes) {
		return 0, fmt.Errorf("ply: no recorded list length for row %d", row)
	}
	return c.ListSizes[row], nil
}

// RequestPropertiesFromElement binds propertyNames on element elementName
// to a single shared Cursor. All named properties must exist on the
// element and must share scalar type and list-ness; none may already be
// bound. See spec.md §4.3.
func (f *File) RequestPropertiesFromElement(elementName string, propertyNames ...string) (*Cursor, error) {
	if elementName == "" || len(propertyNames) == 0 {
		return nil, ErrEmptyRequest
	}
	f.ensureMaps()

	e := f.Element(elementName)
	if e == nil {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, elementName)
	}

	var refType Type
	var refIsList bool
	for i, name := range propertyNames {
		idx := e.propertyIndex(name)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s.%s", ErrPropertyNotFound, elementName, name)
		}
		p := e.Properties[idx]
		if i == 0 {
			refType, refIsList = p.Type, p.IsList
		} else if p.Type != refType {
			return nil, fmt.Errorf("%w: %s.%s", ErrTypeMismatch, elementName, name)
		} else if p.IsList != refIsList {
			return nil, fmt.Errorf("%w: %s.%s", ErrListMismatch, elementName, name)
		}

		if f.bound[cursorKey(elementName, name)] {
			return nil, fmt.Errorf("%w: %s.%s", ErrDuplicateRequest, elementName, name)
		}
	}

	cur := &Cursor{
		Type:   refType,
		IsList: refIsList,
		Count:  e.Count,
		valid:  true,
	}
	for _, name := range propertyNames {
		key := cursorKey(elementName, name)
		f.bound[key] = true
		f.cursors[key] = cur
	}
	return cur, nil
}

// AddPropertiesToElement attaches caller-owned data to elementName for
// output, creating the element if it doesn't already exist. listType
// and listCount are zero-valued (Invalid, 0) for a plain scalar
// property. A nonzero listCount authors a fixed-length list; a zero
// listCount with a valid listType authors a variable-length list whose
// per-row lengths the caller must record on the returned Cursor's
// ListSizes before Write is called. See spec.md §4.3.
func (f *File) AddPropertiesToElement(elementName string, propertyNames []string, t Type, instanceCount int, data []byte, listType Type, listCount int) (*Cursor, error) {
	if elementName == "" || len(propertyNames) == 0 {
		return nil, ErrEmptyRequest
	}
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: invalid property type for %s", ErrTypeMismatch, elementName)
	}
	f.ensureMaps()

	isList := listType.IsValid()
	if instanceCount > 0 {
		divisor := instanceCount * len(propertyNames)
		switch {
		case isList && listCount != VariableLength:
			divisor *= listCount
		case isList:
			divisor = 0 // variable-length list: per-row length isn't known until rows are recorded
		}
		if divisor > 0 {
			if len(data)%divisor != 0 {
				return nil, widthError(t, len(data)/divisor)
			}
			if width := len(data) / divisor; !SizeMatches(t, width) {
				return nil, widthError(t, width)
			}
		}
	}

	e := f.Element(elementName)
	if e == nil {
		f.Elements = append(f.Elements, Element{Name: elementName, Count: instanceCount})
		e = &f.Elements[len(f.Elements)-1]
	}

	for _, name := range propertyNames {
		if e.propertyIndex(name) >= 0 {
			return nil, fmt.Errorf("%w: %s.%s already has a property", ErrDuplicateRequest, elementName, name)
		}
	}

	cur := &Cursor{
		Data:   data,
		Count:  instanceCount,
		Type:   t,
		IsList: isList,
		valid:  true,
	}
	for _, name := range propertyNames {
		p := Property{Name: name, Type: t}
		if isList {
			p.IsList = true
			p.ListType = listType
			p.ListCount = listCount
		}
		e.Properties = append(e.Properties, p)
		f.cursors[cursorKey(elementName, name)] = cur
	}
	return cur, nil
}
