package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// TextFlags records what normalisation was applied to a text.
type TextFlags uint8

const (
	TextHadBOM TextFlags = 1 << iota
	TextNormalizedCRLF
)

// Text is a normalized in-memory copy of a host file.
type Text struct {
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   TextFlags
}

// NewText normalizes raw bytes (BOM, CRLF) and indexes line starts.
func NewText(path string, raw []byte) (*Text, error) {
	if _, err := safecast.Conv[uint32](len(raw)); err != nil {
		return nil, fmt.Errorf("%s: file too large: %w", path, err)
	}
	content, hadBOM := removeBOM(raw)
	content, hadCRLF := normalizeCRLF(content)

	var flags TextFlags
	if hadBOM {
		flags |= TextHadBOM
	}
	if hadCRLF {
		flags |= TextNormalizedCRLF
	}
	return &Text{
		Path:    NormalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}, nil
}

// ReadText loads a file from disk and normalizes it.
func ReadText(path string) (*Text, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewText(path, raw)
}

// String returns the normalized content.
func (t *Text) String() string {
	if t == nil {
		return ""
	}
	return string(t.Content)
}

// Locate converts a byte span into a Location with resolved line/column
// positions. Offsets past the end are clamped.
func (t *Text) Locate(span Span) Location {
	n, err := safecast.Conv[uint32](len(t.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	if span.Start > n {
		span.Start = n
	}
	if span.End > n {
		span.End = n
	}
	if span.End < span.Start {
		span.End = span.Start
	}
	return Location{
		Path:  t.Path,
		Span:  span,
		Start: toLineCol(t.LineIdx, span.Start),
		End:   toLineCol(t.LineIdx, span.End),
	}
}

// Line returns the 1-based line without its terminator, or "" when out of range.
func (t *Text) Line(lineNum uint32) string {
	if t == nil || lineNum == 0 {
		return ""
	}
	lenIdx, err := safecast.Conv[uint32](len(t.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	lenContent, err := safecast.Conv[uint32](len(t.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}

	var start uint32
	if lineNum > 1 {
		if lineNum-2 >= lenIdx {
			return ""
		}
		start = t.LineIdx[lineNum-2] + 1
	}
	end := lenContent
	if lineNum-1 < lenIdx {
		end = t.LineIdx[lineNum-1]
	}
	if start > lenContent || start > end {
		return ""
	}
	return string(t.Content[start:end])
}
