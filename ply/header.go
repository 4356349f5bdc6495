package ply

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// lineScanner reads \n-terminated (with tolerated \r\n) lines from a
// Source one byte at a time, so the Source's position after the last
// line read is exactly the byte past that line's terminator — no
// internal buffering to unwind before the payload scan begins.
type lineScanner struct {
	src  Source
	line int
}

func (s *lineScanner) readLine() (string, error) {
	var buf []byte
	var b [1]byte
	for {
		n, err := s.src.Read(b[:])
		if n == 1 {
			if b[0] == '\n' {
				s.line++
				if len(buf) > 0 && buf[len(buf)-1] == '\r' {
					buf = buf[:len(buf)-1]
				}
				return string(buf), nil
			}
			buf = append(buf, b[0])
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				if len(buf) == 0 {
					return "", io.EOF
				}
				s.line++
				return string(buf), nil
			}
			return "", err
		}
	}
}

// stripKeyword removes keyword and exactly one following separating
// space from line, returning the remainder verbatim (including any
// further leading/trailing whitespace it may contain). This matches
// the original tinyply behavior for "comment" but corrects its
// off-by-one prefix length for "obj_info" (see SPEC_FULL.md).
func stripKeyword(line, keyword string) string {
	rest := strings.TrimPrefix(line, keyword)
	return strings.TrimPrefix(rest, " ")
}

func headerErr(lineNum int, format string, args ...any) error {
	return &HeaderError{Line: lineNum, Message: fmt.Sprintf(format, args...)}
}

// ParseHeader consumes lines from src until end_header, populating
// f.Elements, f.comments, f.objInfo, and f.format. On success src is
// positioned exactly at the first payload byte.
func (f *File) ParseHeader(src Source) error {
	sc := &lineScanner{src: src}

	gotMagic := false
	gotFormat := false
	curIdx := -1

	for {
		line, err := sc.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return headerErr(sc.line, "unexpected end of file before end_header")
			}
			return fmt.Errorf("ply: %w", err)
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			if !gotMagic {
				continue
			}
			return headerErr(sc.line, "blank line in header")
		}
		token := fields[0]

		if !gotMagic {
			if !strings.EqualFold(token, "ply") {
				return headerErr(sc.line, "missing 'ply' magic, got %q", token)
			}
			gotMagic = true
			continue
		}

		switch token {
		case "comment":
			f.comments = append(f.comments, stripKeyword(line, "comment"))
		case "obj_info":
			f.objInfo = append(f.objInfo, stripKeyword(line, "obj_info"))
		case "format":
			if len(fields) != 3 {
				return headerErr(sc.line, "malformed format line %q", line)
			}
			if fields[2] != "1.0" {
				return headerErr(sc.line, "unsupported format version %q", fields[2])
			}
			switch fields[1] {
			case "ascii":
				f.format = ASCII
			case "binary_little_endian":
				f.format = BinaryLittleEndian
			case "binary_big_endian":
				f.format = BinaryBigEndian
			default:
				return headerErr(sc.line, "unknown format %q", fields[1])
			}
			gotFormat = true
		case "element":
			if !gotFormat {
				return headerErr(sc.line, "element declared before format")
			}
			if len(fields) != 3 {
				return headerErr(sc.line, "malformed element line %q", line)
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 0 {
				return headerErr(sc.line, "invalid element count %q", fields[2])
			}
			f.Elements = append(f.Elements, Element{Name: fields[1], Count: count})
			curIdx = len(f.Elements) - 1
		case "property":
			if !gotFormat {
				return headerErr(sc.line, "property declared before format")
			}
			if curIdx < 0 {
				return headerErr(sc.line, "property declared before any element")
			}
			if err := f.parsePropertyLine(curIdx, fields, sc.line); err != nil {
				return err
			}
		case "end_header":
			f.parsed = true
			return nil
		default:
			return headerErr(sc.line, "unknown keyword %q", token)
		}
	}
}

func (f *File) parsePropertyLine(elemIdx int, fields []string, lineNum int) error {
	e := &f.Elements[elemIdx]
	if len(fields) >= 2 && fields[1] == "list" {
		if len(fields) != 5 {
			return headerErr(lineNum, "malformed property list line")
		}
		listType := ParseType(fields[2])
		if listType == Invalid {
			return headerErr(lineNum, "unknown list length type %q", fields[2])
		}
		elemType := ParseType(fields[3])
		if elemType == Invalid {
			return headerErr(lineNum, "unknown list element type %q", fields[3])
		}
		e.Properties = append(e.Properties, Property{
			Name:      fields[4],
			IsList:    true,
			Type:      elemType,
			ListType:  listType,
			ListCount: VariableLength,
		})
		return nil
	}

	if len(fields) != 3 {
		return headerErr(lineNum, "malformed property line")
	}
	t := ParseType(fields[1])
	if t == Invalid {
		return headerErr(lineNum, "unknown property type %q", fields[1])
	}
	e.Properties = append(e.Properties, Property{Name: fields[2], Type: t})
	return nil
}
