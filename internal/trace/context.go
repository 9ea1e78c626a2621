package trace

import "context"

type ctxKey struct{}

type spanKey struct{}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}

// ParentID returns the id of the innermost span started with Start, or 0.
func ParentID(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(spanKey{}).(uint64)
	return id
}

// Start begins a span under the context's current span and returns a
// context carrying the new one.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	sp := Begin(FromContext(ctx), scope, name, ParentID(ctx))
	if sp.id == 0 {
		return ctx, sp
	}
	return context.WithValue(ctx, spanKey{}, sp.id), sp
}

// Point records a single instant event under the context's current span.
func Point(ctx context.Context, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: ParentID(ctx),
		GID:      getGoroutineID(),
		Name:     name,
		Detail:   detail,
	})
}
