// Package dispatch routes named action messages to pure transition functions
// over immutable state snapshots.
//
// Handlers register as ordered clauses of (name, arity, optional guard,
// body); dispatch scans them in registration order and the first clause whose
// name, arity, and guard all match the invocation wins. A guard returning
// false leaves its clause unmatched for that call, so several clauses can
// share a name and branch on runtime data, the way multi-clause function
// heads do in pattern-matching languages.
//
// A successful dispatch yields one of three outcomes:
//
//   - Sync: the handler ran and returned the next snapshot.
//   - Deferred: the handler is async; dispatch captures state and arguments
//     by value into an unexecuted closure and hands it back. Scheduling it,
//     applying its result atomically, and running after-hooks via
//     NotifyApplied are the caller's responsibility. The async package
//     provides a ready-made runner.
//   - Reply: the handler returned both the next snapshot and an
//     application-defined payload.
//
// Before-hooks run sequentially in registration order before the handler;
// after-hooks run after a non-deferred handler returns. Hooks are
// side-effect-only and cannot alter the propagated state.
//
// An invocation matching no clause always fails with *UnknownActionError,
// listing the declared actions plus a nearest-name suggestion; there is no
// policy override. Handler errors and panics propagate unchanged — the
// telemetry span around every dispatch observes them but never swallows them,
// keeping transition bugs visible.
//
//	d := dispatch.MustNew(counterSchema, dispatch.WithRecorder(rec))
//	_ = d.Register("increment", 0, func(ctx context.Context, s *state.Snapshot, args []any) (*state.Snapshot, error) {
//	    n, _ := s.Get("count")
//	    return s.With(ctx, "count", n.(int)+1)
//	})
//
//	out, err := d.Dispatch(ctx, snap, dispatch.NewAction("increment"))
package dispatch
