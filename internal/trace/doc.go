// Package trace provides the tracing subsystem of javamaybe.
//
// The trace package tracks driver phases, per-unit passes and per-method
// analysis to help diagnose slow inputs and hangs.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	javamaybe run --trace=- --trace-level=detail -i src -o out
//
// # Architecture
//
// Tracers:
//
//   - Nop when tracing is off
//   - StreamTracer writes each event as it happens (file or stderr)
//   - RingTracer keeps the last events; DumpRecent writes them after a failed run
//   - Multi fans out to several tracers
//
// # Levels
//
// Tracing verbosity is controlled by levels:
//
//   - LevelOff: No tracing
//   - LevelError: Unit events recorded in a ring, written only when the run fails
//   - LevelPhase: Driver and pass boundaries
//   - LevelDetail: Per-unit events
//   - LevelDebug: Everything including per-method analysis
//
// # Context Propagation
//
// The tracer, the current span and the unit path travel in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx = trace.WithUnit(ctx, "p/Calc.java")
//
//	span, ctx := trace.Start(ctx, trace.ScopeMethod, "specialize")
//	span.WithList("any_params", names).WithInt("overloads", n)
//	defer span.End("")
//
// # Heartbeat
//
// With --trace-heartbeat the driver's Progress (units done, methods
// specialized, overloads produced) is reported on every beat.
package trace
