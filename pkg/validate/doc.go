// Package validate is the field validation engine for the state runtime. It
// checks candidate values against a field's declared type and its ordered
// validator list, and resolves failing results under a configurable error
// policy.
//
// # Algorithm
//
// Field(name, value, descriptor) follows three rules:
//
//  1. A nil value on a nullable field skips validation entirely.
//  2. The type check runs first but never short-circuits: every declared
//     validator still runs against the value.
//  3. All failures accumulate, in the order produced, into a single
//     *ValidationError.
//
// The built-in validator kinds are format (regexp match), length (min/max or
// exact, on text and sequences), inclusion, exclusion, number (strict and
// non-strict bounds), and custom (a caller function). A validator applied to
// a value of the wrong shape for its kind fails with a descriptive entry
// instead of crashing, as does an unrecognized kind.
//
// # Error policy
//
// Two knobs, resolved once per operation through the config package:
//
//   - STATEKIT_VALIDATE_AT ∈ {runtime, none}, default none — whether setters
//     invoke validation at all.
//   - STATEKIT_ON_ERROR ∈ {raise, log, ignore}, default log — whether a
//     failing result becomes a fatal TypeMismatchError, a logged diagnostic,
//     or nothing.
//
// The Enforcer captures a policy and applies it:
//
//	policy, _ := validate.LoadPolicy()
//	enf := validate.NewEnforcer(policy, validate.WithRecorder(rec))
//	if err := enf.Check(ctx, "user", field, value); err != nil {
//	    // only reachable with on_error=raise
//	}
//
// Every failing result emits the statekit.validation.failure telemetry event
// regardless of the policy decision.
package validate
