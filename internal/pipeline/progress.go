package pipeline

import "time"

// Stage describes a per-target pipeline step.
type Stage string

const (
	StageExtract Stage = "extract"
	StageResolve Stage = "resolve"
	StageEmit    Stage = "emit"
	// StageWrite is reported by callers that persist outputs.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	// StatusSkipped means the target produced no output.
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
)

// Event reports progress for a target (or for the whole pass when Target is empty).
type Event struct {
	Target  string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be goroutine-safe.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

func notify(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
