// Package telemetry provides the instrumentation layer for the state runtime.
// Every dispatch and validation pass is wrapped in a span that emits events
// with hierarchical names of the form "statekit.<subject>.<phase>":
//
//   - statekit.action.start      – immediately before a handler runs
//   - statekit.action.stop       – on normal return, with elapsed duration
//   - statekit.action.exception  – on error return or panic, with kind,
//     reason, and (for panics) a stack trace
//   - statekit.validation.failure – standalone event for every validation
//     failure, independent of the configured error policy
//
// A span never alters the outcome it observes: errors are returned unchanged
// and panics are re-raised after the exception event fires.
//
// Events fan out to Sink implementations. The default sink writes structured
// log records through log/slog; tests and external collectors plug in with
// WithSink. A nil *Recorder drops everything, so instrumentation points can
// stay unconditional.
//
//	rec := telemetry.NewRecorder(telemetry.WithSink(mySink))
//	err := rec.Observe(ctx, telemetry.SubjectAction, "counter", "increment", args, func() error {
//	    return runHandler()
//	})
package telemetry
