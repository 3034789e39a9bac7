// Package trace records what a duckcheck run is doing: which files are being
// loaded and checked, how long each inference pass takes and, at the debug
// level, every class, function and failure the engine visits.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	duckcheck check --trace=- --trace-level=phase src/
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes every event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events in memory, dumped when a run panics
//   - MultiTracer: fans events out to several tracers
//
// # Levels and scopes
//
// A level selects which scopes are emitted:
//
//   - LevelPhase: ScopeDriver and ScopePass (load, infer, report)
//   - LevelDetail: adds ScopeModule (one span per analysed file)
//   - LevelDebug: adds ScopeNode (class/function visits and new type failures)
//
// # Context propagation
//
// The tracer travels in a context.Context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.BeginCtx(ctx, trace.ScopePass, "infer")
//	defer span.End("")
package trace
