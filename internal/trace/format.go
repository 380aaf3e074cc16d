package trace

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Format of a written event.
type Format uint8

const (
	FormatAuto Format = iota
	FormatText
	FormatNDJSON
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// FormatEvent renders one event. Text timestamps are relative to start.
func FormatEvent(ev Event, format Format, start time.Time) []byte {
	if format == FormatNDJSON {
		return eventJSON(ev)
	}
	return eventText(ev, start)
}

type jsonEvent struct {
	Time      string  `json:"time"`
	Seq       uint64  `json:"seq"`
	Kind      string  `json:"kind"`
	Scope     string  `json:"scope"`
	Span      uint64  `json:"span,omitempty"`
	Parent    uint64  `json:"parent,omitempty"`
	Name      string  `json:"name"`
	Detail    string  `json:"detail,omitempty"`
	ElapsedMS float64 `json:"elapsed_ms,omitempty"`
	Target    string  `json:"target,omitempty"`
	Outcome   string  `json:"outcome,omitempty"`
	Layer     string  `json:"layer,omitempty"`
	Count     int     `json:"count,omitempty"`
	Cached    bool    `json:"cached,omitempty"`
	Err       string  `json:"error,omitempty"`
}

func eventJSON(ev Event) []byte {
	data, _ := json.Marshal(jsonEvent{
		Time:      ev.Time.Format(time.RFC3339Nano),
		Seq:       ev.Seq,
		Kind:      ev.Kind.String(),
		Scope:     ev.Scope.String(),
		Span:      ev.Span,
		Parent:    ev.Parent,
		Name:      ev.Name,
		Detail:    ev.Detail,
		ElapsedMS: float64(ev.Elapsed) / float64(time.Millisecond),
		Target:    ev.Target,
		Outcome:   ev.Outcome,
		Layer:     ev.Layer,
		Count:     ev.Count,
		Cached:    ev.Cached,
		Err:       ev.Err,
	})
	return append(data, '\n')
}

var kindMarks = map[Kind]string{
	KindSpanBegin: "→ ",
	KindSpanEnd:   "← ",
	KindPoint:     "• ",
	KindHeartbeat: "♡ ",
}

// eventText: [elapsed] indent mark name target (detail) [fields] took
func eventText(ev Event, start time.Time) []byte {
	var sb strings.Builder
	var offset float64
	if !start.IsZero() && !ev.Time.IsZero() {
		offset = float64(ev.Time.Sub(start)) / float64(time.Millisecond)
	}
	fmt.Fprintf(&sb, "[%9.3fms] ", offset)
	// run без отступа, stage на 2, target на 4
	if ev.Scope > ScopeRun {
		sb.WriteString(strings.Repeat("  ", int(ev.Scope-ScopeRun)))
	}
	sb.WriteString(kindMarks[ev.Kind])
	sb.WriteString(ev.Name)
	if ev.Target != "" {
		sb.WriteByte(' ')
		sb.WriteString(ev.Target)
	}
	if ev.Detail != "" {
		sb.WriteString(" (" + ev.Detail + ")")
	}

	var attrs []string
	if ev.Outcome != "" {
		attrs = append(attrs, "outcome="+ev.Outcome)
	}
	if ev.Layer != "" {
		attrs = append(attrs, "layer="+ev.Layer)
	}
	if ev.Count != 0 {
		attrs = append(attrs, "count="+strconv.Itoa(ev.Count))
	}
	if ev.Cached {
		attrs = append(attrs, "cached")
	}
	if ev.Err != "" {
		attrs = append(attrs, "error="+strconv.Quote(ev.Err))
	}
	if len(attrs) > 0 {
		sb.WriteString(" [" + strings.Join(attrs, " ") + "]")
	}
	if ev.Kind == KindSpanEnd {
		sb.WriteString(" " + ev.Elapsed.Round(time.Microsecond).String())
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}
