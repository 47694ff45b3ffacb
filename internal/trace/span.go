package trace

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var (
	globalSeq   atomic.Uint64
	globalSpans atomic.Uint64
)

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 { return globalSeq.Add(1) }

// NextSpanID returns a unique span ID.
func NextSpanID() uint64 { return globalSpans.Add(1) }

// Span is one begin/end pair. A span whose scope was filtered out has id 0;
// every method on it is a no-op.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	unit    string
	started time.Time
	extra   map[string]string
}

// Start begins a span whose tracer, parent and unit come from ctx. The
// returned context carries the span as parent for nested work.
func Start(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	sc := CurrentSpan(ctx)
	s := begin(FromContext(ctx), scope, name, sc)
	if !s.live() {
		return s, ctx
	}
	sc.SpanID = s.id
	return s, WithSpanContext(ctx, sc)
}

func begin(t Tracer, scope Scope, name string, sc SpanContext) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{tracer: Nop}
	}
	s := &Span{
		tracer:  t,
		id:      NextSpanID(),
		parent:  sc.SpanID,
		scope:   scope,
		name:    name,
		unit:    sc.Unit,
		started: time.Now(),
	}
	t.Emit(s.event(KindSpanBegin, s.started, ""))
	return s
}

func (s *Span) live() bool { return s != nil && s.id != 0 }

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	ev := &Event{
		Time:     at,
		Seq:      NextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Unit:     s.unit,
		Name:     s.name,
		Detail:   detail,
	}
	if kind == KindSpanEnd {
		ev.Extra = s.extra
	}
	return ev
}

// End emits the end event with the collected fields and returns the span's
// duration.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	now := time.Now()
	s.tracer.Emit(s.event(KindSpanEnd, now, detail))
	return now.Sub(s.started)
}

// WithExtra records a field for the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

func (s *Span) WithInt(key string, n int) *Span {
	return s.WithExtra(key, strconv.Itoa(n))
}

// WithList records items joined by commas; an empty list is recorded as "".
func (s *Span) WithList(key string, items []string) *Span {
	return s.WithExtra(key, strings.Join(items, ","))
}

// ID returns the span ID, 0 for a filtered span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
