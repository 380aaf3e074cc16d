package trace

import (
	"bufio"
	"io"
	"sync"
	"time"
)

// stream writes formatted events through a buffer that is flushed after
// every run-scope event and on close.
type stream struct {
	mu      sync.Mutex
	w       *bufio.Writer
	format  Format
	start   time.Time
	closeFn func() error
}

func newStream(w io.Writer, format Format, closeFn func() error) *stream {
	return &stream{w: bufio.NewWriter(w), format: format, start: time.Now(), closeFn: closeFn}
}

func (s *stream) write(ev Event) {
	data := FormatEvent(ev, s.format, s.start)
	s.mu.Lock()
	defer s.mu.Unlock()
	// ошибки записи трассы не должны ронять генерацию
	_, _ = s.w.Write(data)
	if ev.Scope == ScopeRun || ev.Err != "" {
		_ = s.w.Flush()
	}
}

func (s *stream) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.w.Flush()
	if s.closeFn != nil {
		if cerr := s.closeFn(); err == nil {
			err = cerr
		}
		s.closeFn = nil
	}
	return err
}
