package trace

import "time"

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	}
	return "unknown"
}

// Fields are the generator attributes an event may carry. Zero values are
// not rendered.
type Fields struct {
	Target  string // qualified target name
	Outcome string // generate | skip | invalid
	Layer   string // configuration layer that supplied the template
	Count   int    // outputs, declarations or applications, per event name
	Cached  bool
	Err     string
}

// Event is one recorded trace event.
type Event struct {
	Time    time.Time
	Seq     uint64
	Kind    Kind
	Scope   Scope
	Span    uint64
	Parent  uint64
	Name    string
	Detail  string
	Elapsed time.Duration // span end only
	Fields
}
