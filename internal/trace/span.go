package trace

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

func nextSeq() uint64 { return seqCounter.Add(1) }

type ctxKey struct{}

// ctxState is what a context carries: the tracer and the innermost span.
type ctxState struct {
	tracer Tracer
	span   uint64
}

func state(ctx context.Context) ctxState {
	if ctx != nil {
		if st, ok := ctx.Value(ctxKey{}).(ctxState); ok {
			return st
		}
	}
	return ctxState{tracer: Nop}
}

// FromContext returns the tracer stored in ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return state(ctx).tracer
}

// WithTracer attaches t to ctx. A nil t stores Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, ctxState{tracer: t, span: state(ctx).span})
}

// Span is an open operation. A nil or disabled span accepts every call and
// records nothing.
type Span struct {
	tracer Tracer
	id     uint64
	parent uint64
	scope  Scope
	name   string
	start  time.Time
	fields Fields
}

// Start opens a span under the innermost span of ctx and returns a context
// in which the new span is the innermost one.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	st := state(ctx)
	if st.tracer.Level() == LevelOff {
		return ctx, &Span{}
	}
	s := &Span{
		tracer: st.tracer,
		id:     spanCounter.Add(1),
		parent: st.span,
		scope:  scope,
		name:   name,
		start:  time.Now(),
	}
	record(st.tracer, Event{
		Time:   s.start,
		Kind:   KindSpanBegin,
		Scope:  scope,
		Span:   s.id,
		Parent: s.parent,
		Name:   name,
	})
	return context.WithValue(ctx, ctxKey{}, ctxState{tracer: st.tracer, span: s.id}), s
}

func (s *Span) live() bool { return s != nil && s.tracer != nil }

// ID is zero for disabled spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

func (s *Span) Target(name string) *Span {
	if s.live() {
		s.fields.Target = name
	}
	return s
}

func (s *Span) Outcome(outcome string) *Span {
	if s.live() {
		s.fields.Outcome = outcome
	}
	return s
}

// Resolved stores a resolution outcome and the layer that produced it.
func (s *Span) Resolved(outcome, layer fmt.Stringer) *Span {
	if s.live() {
		s.fields.Outcome = outcome.String()
		s.fields.Layer = layer.String()
	}
	return s
}

func (s *Span) Count(n int) *Span {
	if s.live() {
		s.fields.Count = n
	}
	return s
}

func (s *Span) Cached(cached bool) *Span {
	if s.live() {
		s.fields.Cached = cached
	}
	return s
}

// Fail marks the span as failed; the end event then passes LevelError.
func (s *Span) Fail(err error) *Span {
	if s.live() && err != nil {
		s.fields.Err = err.Error()
	}
	return s
}

// End records the end event and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	now := time.Now()
	elapsed := now.Sub(s.start)
	record(s.tracer, Event{
		Time:    now,
		Kind:    KindSpanEnd,
		Scope:   s.scope,
		Span:    s.id,
		Parent:  s.parent,
		Name:    s.name,
		Detail:  detail,
		Elapsed: elapsed,
		Fields:  s.fields,
	})
	return elapsed
}

// Point records an instant event under the innermost span of ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	point(ctx, scope, name, detail, Fields{})
}

// Fail records an instant failure; it passes every level except off.
func Fail(ctx context.Context, scope Scope, name string, err error) {
	if err == nil {
		return
	}
	point(ctx, scope, name, "", Fields{Err: err.Error()})
}

func point(ctx context.Context, scope Scope, name, detail string, f Fields) {
	st := state(ctx)
	record(st.tracer, Event{
		Time:   time.Now(),
		Kind:   KindPoint,
		Scope:  scope,
		Parent: st.span,
		Name:   name,
		Detail: detail,
		Fields: f,
	})
}

// record stamps the sequence number once so every sink sees the same order.
func record(t Tracer, ev Event) {
	if !t.Level().admits(ev) {
		return
	}
	ev.Seq = nextSeq()
	t.Record(ev)
}
