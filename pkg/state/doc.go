// Package state implements immutable typed snapshots, the values the rest of
// the runtime dispatches over, validates, and diffs.
//
// A Snapshot binds a declared type from the schema registry to one value per
// field. Construction applies schema defaults for missing fields; With and
// WithValues produce new snapshots and never mutate the receiver, so a
// snapshot held by one goroutine is never changed by another.
//
// Setters consult the validation enforcer attached at construction. Under the
// default policy (validate_at=none) assignment is unconditional; with runtime
// validation the configured on_error mode decides whether a failing value
// aborts the setter, logs, or assigns silently.
//
//	snap, err := state.New(ctx, userSchema, map[string]any{
//	    "email": "a@b.co",
//	}, state.WithEnforcer(enf))
//
//	next, err := snap.With(ctx, "email", "new@b.co")
package state
