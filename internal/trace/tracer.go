package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives admitted events. Record must be safe for concurrent use:
// targets are traced from parallel workers.
type Tracer interface {
	Record(ev Event)
	Level() Level
	Close() error
}

type nop struct{}

func (nop) Record(Event) {}
func (nop) Level() Level { return LevelOff }
func (nop) Close() error { return nil }

// Nop records nothing. It is what FromContext returns for a bare context.
var Nop Tracer = nop{}

// Mode selects where a Recorder keeps events.
type Mode uint8

const (
	ModeStream Mode = iota + 1 // write each event as it happens
	ModeRing                   // keep the last events for a failure dump
	ModeBoth
)

func (m Mode) String() string {
	switch m {
	case ModeStream:
		return "stream"
	case ModeRing:
		return "ring"
	case ModeBoth:
		return "both"
	}
	return "unknown"
}

func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{ModeStream, ModeRing, ModeBoth} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// DefaultRingSize is used when Config.RingSize is not positive.
const DefaultRingSize = 4096

type Config struct {
	Level  Level
	Mode   Mode
	Format Format // FormatAuto picks NDJSON for *.ndjson paths
	// Output wins over OutputPath. An empty path or "-" means stderr.
	Output     io.Writer
	OutputPath string
	RingSize   int
}

// Recorder is the Tracer built from a Config. It writes to a stream, keeps a
// ring, or both.
type Recorder struct {
	level  Level
	stream *stream
	ring   *Ring
}

// New builds a Recorder. The output file, if any, is opened here.
func New(cfg Config) (*Recorder, error) {
	r := &Recorder{level: cfg.Level}
	if cfg.Level == LevelOff {
		return r, nil
	}
	if cfg.Mode != ModeStream && cfg.Mode != ModeRing && cfg.Mode != ModeBoth {
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}
	if cfg.Mode != ModeStream {
		size := cfg.RingSize
		if size <= 0 {
			size = DefaultRingSize
		}
		r.ring = NewRing(size)
	}
	if cfg.Mode != ModeRing {
		w, closeFn, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		format := cfg.Format
		if format == FormatAuto {
			format = FormatText
			if strings.HasSuffix(cfg.OutputPath, ".ndjson") {
				format = FormatNDJSON
			}
		}
		r.stream = newStream(w, format, closeFn)
	}
	return r, nil
}

func (r *Recorder) Record(ev Event) {
	if r.stream != nil {
		r.stream.write(ev)
	}
	if r.ring != nil {
		r.ring.push(ev)
	}
}

func (r *Recorder) Level() Level { return r.level }

// Ring is nil in stream mode.
func (r *Recorder) Ring() *Ring { return r.ring }

func (r *Recorder) Close() error {
	if r.stream == nil {
		return nil
	}
	return r.stream.close()
}

func openOutput(cfg Config) (io.Writer, func() error, error) {
	if cfg.Output != nil {
		return cfg.Output, nil, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		// stderr не закрываем
		return os.Stderr, nil, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, f.Close, nil
}
