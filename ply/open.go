package ply

import "os"

// ParseHeaderFile opens path and parses its header, for callers that
// want to probe several candidate files without handling a typed
// error at each step. It reports success as a plain bool; the
// underlying error (if any) is discarded, matching the historical
// tinyply boolean contract described in spec.md §7. Callers that need
// the error should open the file themselves and call (*File).ParseHeader.
func ParseHeaderFile(path string) (*File, bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	pf := NewFile()
	if err := pf.ParseHeader(f); err != nil {
		return nil, false
	}
	return pf, true
}
