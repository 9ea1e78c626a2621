package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64

	now = time.Now
)

// NextSeq returns a process-wide increasing sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

func nextSpanID() uint64 { return spanCounter.Add(1) }

// getGoroutineID parses "goroutine N [" from runtime.Stack.
func getGoroutineID() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b, ok := bytes.CutPrefix(b, []byte("goroutine "))
	if !ok {
		return 0
	}
	end := bytes.IndexByte(b, ' ')
	if end < 0 {
		return 0
	}
	gid, err := strconv.ParseUint(string(b[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

// Span pairs a begin event with its end event.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	gid     uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// Begin emits a span-begin event. When t is disabled or filters scope out
// the returned span is inert and End reports the elapsed time only.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	started := now()
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{tracer: Nop, started: started}
	}

	sp := &Span{
		tracer:  t,
		id:      nextSpanID(),
		parent:  parent,
		gid:     getGoroutineID(),
		scope:   scope,
		name:    name,
		started: started,
	}
	t.Emit(&Event{
		Time:     started,
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   sp.id,
		ParentID: parent,
		GID:      sp.gid,
		Name:     name,
	})
	return sp
}

// End emits the span-end event and returns the span's duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	dur := now().Sub(s.started)
	if s.id == 0 {
		return dur
	}
	s.tracer.Emit(&Event{
		Time:     now(),
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		GID:      s.gid,
		Name:     s.name,
		Detail:   detail,
		Extra:    s.extra,
	})
	return dur
}

// WithExtra attaches a key/value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.id == 0 {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
