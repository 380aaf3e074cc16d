package diagfmt

import (
	"sync"

	"typedid/internal/source"
)

// Sources supplies file text for context lines.
type Sources interface {
	Text(path string) (*source.Text, bool)
}

// FileSources reads files lazily from disk and remembers the result,
// including failures.
type FileSources struct {
	mu    sync.Mutex
	texts map[string]*source.Text
}

func NewFileSources() *FileSources {
	return &FileSources{texts: make(map[string]*source.Text)}
}

func (s *FileSources) Text(path string) (*source.Text, bool) {
	if s == nil || path == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.texts[path]; ok {
		return t, t != nil
	}
	t, err := source.ReadText(path)
	if err != nil {
		t = nil
	}
	s.texts[path] = t
	return t, t != nil
}

// MapSources serves in-memory texts keyed by path.
type MapSources map[string]*source.Text

func (m MapSources) Text(path string) (*source.Text, bool) {
	t, ok := m[path]
	return t, ok && t != nil
}
