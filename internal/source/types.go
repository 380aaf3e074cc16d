package source

import "fmt"

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// IsZero reports whether the position was never set.
func (lc LineCol) IsZero() bool {
	return lc.Line == 0 && lc.Col == 0
}

// Location anchors a diagnostic in a host file. It is a plain value:
// two locations are equal iff all their fields are equal.
type Location struct {
	Path  string
	Span  Span
	Start LineCol
	End   LineCol
}

// NoLocation is used for findings that are not tied to any file.
var NoLocation = Location{}

// IsZero reports whether the location carries no information.
func (l Location) IsZero() bool {
	return l == NoLocation
}

func (l Location) String() string {
	if l.Path == "" {
		return "<unknown>"
	}
	if l.Start.IsZero() {
		return fmt.Sprintf("%s@%s", l.Path, l.Span)
	}
	return fmt.Sprintf("%s:%d:%d", l.Path, l.Start.Line, l.Start.Col)
}

// Less orders locations by path, then by byte span.
func (l Location) Less(other Location) bool {
	if l.Path != other.Path {
		return l.Path < other.Path
	}
	if l.Span.Start != other.Span.Start {
		return l.Span.Start < other.Span.Start
	}
	return l.Span.End < other.Span.End
}
