// Package trace records what the analyzer is doing: driver phases, passes
// over the whole compilation, per-file work and per-class rule checks.
//
// It is the only operational output besides diagnostics. Enable it with
//
//	cmdlint diag --trace=- --trace-level=phase ./src
//
// Tracers:
//
//   - Nop: disabled tracing, no allocations on the hot path
//   - StreamTracer: writes every event as it happens (text or NDJSON)
//   - RingTracer: keeps the last N events for a crash dump
//   - MultiTracer: fans out to several tracers (--trace-mode=both)
//
// Levels select scopes: phase shows ScopeDriver and ScopePass, detail adds
// ScopeFile, debug adds ScopeClass.
//
// Tracers travel in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePass, "walk")
//	defer span.End("")
package trace
