package validate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/statekit/pkg/config"
	"github.com/dmitrymomot/statekit/pkg/logger"
	"github.com/dmitrymomot/statekit/pkg/schema"
	"github.com/dmitrymomot/statekit/pkg/telemetry"
)

// ValidateAt gates whether setters and constructors invoke validation at all.
type ValidateAt string

const (
	ValidateAtRuntime ValidateAt = "runtime"
	ValidateAtNone    ValidateAt = "none"
)

// OnError decides what happens to a failing validation result.
type OnError string

const (
	// OnErrorRaise surfaces the failure as a fatal TypeMismatchError.
	OnErrorRaise OnError = "raise"
	// OnErrorLog emits a diagnostic and assigns the value anyway.
	OnErrorLog OnError = "log"
	// OnErrorIgnore assigns the value silently.
	OnErrorIgnore OnError = "ignore"
)

// Policy holds the two global validation knobs. The zero environment yields
// the documented defaults: no runtime validation, log on error.
type Policy struct {
	ValidateAt ValidateAt `env:"STATEKIT_VALIDATE_AT" envDefault:"none"`
	OnError    OnError    `env:"STATEKIT_ON_ERROR" envDefault:"log"`
}

// DefaultPolicy returns the documented defaults.
func DefaultPolicy() Policy {
	return Policy{ValidateAt: ValidateAtNone, OnError: OnErrorLog}
}

// RuntimePolicy returns a policy that validates on every assignment and
// raises failures. Convenient for tests and strict construction paths.
func RuntimePolicy() Policy {
	return Policy{ValidateAt: ValidateAtRuntime, OnError: OnErrorRaise}
}

// Validate checks the knob values.
func (p Policy) Validate() error {
	switch p.ValidateAt {
	case ValidateAtRuntime, ValidateAtNone:
	default:
		return fmt.Errorf("%w: validate_at %q", ErrInvalidPolicy, p.ValidateAt)
	}
	switch p.OnError {
	case OnErrorRaise, OnErrorLog, OnErrorIgnore:
	default:
		return fmt.Errorf("%w: on_error %q", ErrInvalidPolicy, p.OnError)
	}
	return nil
}

// LoadPolicy resolves the policy from the environment through the cached
// config loader, so one process observes one policy.
func LoadPolicy() (Policy, error) {
	var p Policy
	if err := config.Load(&p); err != nil {
		return DefaultPolicy(), err
	}
	if err := p.Validate(); err != nil {
		return DefaultPolicy(), err
	}
	return p, nil
}

// EnforcerOption configures an enforcer.
type EnforcerOption func(*Enforcer)

// WithLogger sets the logger used by the log policy mode.
func WithLogger(log *slog.Logger) EnforcerOption {
	return func(e *Enforcer) {
		if log != nil {
			e.log = log
		}
	}
}

// WithRecorder sets the telemetry recorder for validation spans and
// validation-failure events.
func WithRecorder(r *telemetry.Recorder) EnforcerOption {
	return func(e *Enforcer) { e.recorder = r }
}

// Enforcer applies the configured error policy to validation results. The
// policy is captured at construction and resolved once per Check call, never
// re-read mid-operation, so every field of a multi-field construction
// observes the same policy.
type Enforcer struct {
	policy   Policy
	log      *slog.Logger
	recorder *telemetry.Recorder
}

// NewEnforcer creates an enforcer for the given policy.
func NewEnforcer(policy Policy, opts ...EnforcerOption) *Enforcer {
	e := &Enforcer{
		policy: policy,
		log:    logger.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the captured policy.
func (e *Enforcer) Policy() Policy { return e.policy }

// Check validates value against the field metadata and resolves the outcome
// under the captured policy. A nil *Enforcer performs no validation, matching
// the validate_at=none default.
//
// Whatever the policy decides, a failing result always emits the standalone
// validation-failure telemetry event first.
func (e *Enforcer) Check(ctx context.Context, schemaName string, f schema.Field, value any) error {
	if e == nil || e.policy.ValidateAt != ValidateAtRuntime {
		return nil
	}

	span := e.recorder.StartSpan(ctx, telemetry.SubjectValidation, schemaName, f.Name, nil)
	err := Field(f.Name, value, f)
	span.End(ctx)

	if err == nil {
		return nil
	}

	ve := AsValidationError(err)
	if ve != nil {
		e.recorder.ValidationFailure(ctx, schemaName, f.Name, ve.Messages())
	}

	switch e.policy.OnError {
	case OnErrorRaise:
		return &TypeMismatchError{
			Field:    f.Name,
			Expected: f.Type.String(),
			Got:      value,
			cause:    err,
		}
	case OnErrorIgnore:
		return nil
	default:
		e.log.WarnContext(ctx, "validation failed",
			slog.String("schema", schemaName),
			slog.String("field", f.Name),
			slog.Any("errors", ve.Messages()),
		)
		return nil
	}
}
