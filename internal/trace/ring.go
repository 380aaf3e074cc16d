package trace

import (
	"io"
	"sync"
	"time"
)

// Ring keeps the most recent events so a failed pass can be explained
// after the fact.
type Ring struct {
	mu     sync.Mutex
	events []Event
	next   int
	n      int
}

func NewRing(size int) *Ring {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Ring{events: make([]Event, size)}
}

func (r *Ring) push(ev Event) {
	r.mu.Lock()
	r.events[r.next] = ev
	r.next = (r.next + 1) % len(r.events)
	r.n = min(r.n+1, len(r.events))
	r.mu.Unlock()
}

// Events returns the kept events, oldest first.
func (r *Ring) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, 0, r.n)
	first := (r.next - r.n + len(r.events)) % len(r.events)
	for i := range r.n {
		out = append(out, r.events[(first+i)%len(r.events)])
	}
	return out
}

// Dump writes the kept events with times relative to the oldest one.
func (r *Ring) Dump(w io.Writer, format Format) error {
	events := r.Events()
	var start time.Time
	if len(events) > 0 {
		start = events[0].Time
	}
	for _, ev := range events {
		if _, err := w.Write(FormatEvent(ev, format, start)); err != nil {
			return err
		}
	}
	return nil
}
