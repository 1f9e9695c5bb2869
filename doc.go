// Package statekit is a runtime for typed, immutable application state.
//
// State lives in schema-validated snapshots that never mutate in place:
// every transition produces a new snapshot, so readers always observe a
// fully formed value and time-travel over past states is free.
//
// The runtime is split into small packages under pkg/:
//
//   - schema: declared types (fields, nullability, validator rules) and a
//     registry, with optional YAML loading
//   - state: the immutable Snapshot and its functional setters
//   - validate: field validation against schema rules, with a configurable
//     enforcement policy
//   - dispatch: action routing to registered transition handlers, with
//     guards, hooks, and sync/deferred/reply outcomes
//   - diff: structural comparison of snapshots and patch application
//   - async: futures over deferred transitions
//   - telemetry: span events around actions and validation passes
//
// Basic Usage:
//
//	counter := schema.MustNew("counter",
//		schema.Field{Name: "count", Type: schema.Int(), Default: 0},
//	)
//
//	d := dispatch.MustNew(counter)
//	d.Register("increment", 0, func(ctx context.Context, s *state.Snapshot, _ []any) (*state.Snapshot, error) {
//		return s.With(ctx, "count", s.Value("count").(int)+1)
//	})
//
//	s := state.MustNew(ctx, counter, nil)
//	out, err := d.Dispatch(ctx, s, dispatch.NewAction("increment"))
//	if err != nil {
//		// unknown action, guard miss, or handler failure
//	}
//	next := out.(dispatch.Sync).State
//
//	fmt.Println(diff.Format(diff.Diff(s, next)))
package statekit
