package state

import (
	"context"
	"fmt"
	"reflect"

	"github.com/dmitrymomot/statekit/pkg/schema"
	"github.com/dmitrymomot/statekit/pkg/validate"
)

// Snapshot is an immutable, fully-formed state value of a declared type. It
// is never mutated in place: every transition and every setter produces a new
// snapshot, so snapshots can be shared across goroutines without locking.
type Snapshot struct {
	schema   *schema.Schema
	values   map[string]any
	enforcer *validate.Enforcer
}

// Option configures snapshot construction.
type Option func(*Snapshot)

// WithEnforcer attaches the validation policy enforcer consulted by the
// constructor and by With. Without it, no runtime validation occurs, matching
// the validate_at=none default.
func WithEnforcer(e *validate.Enforcer) Option {
	return func(s *Snapshot) { s.enforcer = e }
}

// New constructs a snapshot of the given declared type. Fields missing from
// values take the schema default, or nil when no default is declared. Every
// field passes through the validation enforcer under the configured policy;
// with on_error=raise the first failing field aborts construction.
func New(ctx context.Context, sc *schema.Schema, values map[string]any, opts ...Option) (*Snapshot, error) {
	if sc == nil {
		return nil, ErrNilSchema
	}

	s := &Snapshot{
		schema: sc,
		values: make(map[string]any, sc.Len()),
	}
	for _, opt := range opts {
		opt(s)
	}

	for name := range values {
		if _, ok := sc.Field(name); !ok {
			return nil, fmt.Errorf("%w: %q in schema %q", ErrUnknownField, name, sc.Name())
		}
	}

	for _, f := range sc.Fields() {
		value, provided := values[f.Name]
		if !provided {
			value = f.Default
		}
		if err := s.enforcer.Check(ctx, sc.Name(), f, value); err != nil {
			return nil, err
		}
		s.values[f.Name] = value
	}

	return s, nil
}

// MustNew constructs a snapshot and panics on failure. Intended for fixtures
// and states assembled from literals.
func MustNew(ctx context.Context, sc *schema.Schema, values map[string]any, opts ...Option) *Snapshot {
	s, err := New(ctx, sc, values, opts...)
	if err != nil {
		panic(fmt.Sprintf("state: failed to construct snapshot: %v", err))
	}
	return s
}

// SchemaName returns the declared type identity.
func (s *Snapshot) SchemaName() string { return s.schema.Name() }

// Schema returns the declared type.
func (s *Snapshot) Schema() *schema.Schema { return s.schema }

// Get returns a field value. The second return is false for names the schema
// does not declare.
func (s *Snapshot) Get(name string) (any, bool) {
	if _, ok := s.schema.Field(name); !ok {
		return nil, false
	}
	return s.values[name], true
}

// Value returns a field value, or nil for undeclared names.
func (s *Snapshot) Value(name string) any {
	v, _ := s.Get(name)
	return v
}

// Values returns a copy of the field values keyed by name.
func (s *Snapshot) Values() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// With returns a new snapshot with one field replaced. The receiver is not
// modified. The new value passes through the validation enforcer; with
// on_error=raise a failing value returns the error and no snapshot.
func (s *Snapshot) With(ctx context.Context, name string, value any) (*Snapshot, error) {
	f, ok := s.schema.Field(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q in schema %q", ErrUnknownField, name, s.schema.Name())
	}

	if err := s.enforcer.Check(ctx, s.schema.Name(), f, value); err != nil {
		return nil, err
	}

	next := s.clone()
	next.values[name] = value
	return next, nil
}

// WithValues returns a new snapshot with several fields replaced. Fields are
// applied in schema-declaration order, each under the same validation policy
// as With.
func (s *Snapshot) WithValues(ctx context.Context, values map[string]any) (*Snapshot, error) {
	for name := range values {
		if _, ok := s.schema.Field(name); !ok {
			return nil, fmt.Errorf("%w: %q in schema %q", ErrUnknownField, name, s.schema.Name())
		}
	}

	next := s.clone()
	for _, f := range s.schema.Fields() {
		value, provided := values[f.Name]
		if !provided {
			continue
		}
		if err := s.enforcer.Check(ctx, s.schema.Name(), f, value); err != nil {
			return nil, err
		}
		next.values[f.Name] = value
	}
	return next, nil
}

// Equal reports whether two snapshots have the same declared type and equal
// values for every field. Nested snapshots compare recursively.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.schema.Name() != other.schema.Name() {
		return false
	}
	for _, name := range s.schema.FieldNames() {
		if !valueEqual(s.values[name], other.values[name]) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	sa, aok := a.(*Snapshot)
	sb, bok := b.(*Snapshot)
	if aok || bok {
		if !aok || !bok {
			return false
		}
		return sa.Equal(sb)
	}
	return reflect.DeepEqual(a, b)
}

func (s *Snapshot) clone() *Snapshot {
	values := make(map[string]any, len(s.values))
	for k, v := range s.values {
		values[k] = v
	}
	return &Snapshot{
		schema:   s.schema,
		values:   values,
		enforcer: s.enforcer,
	}
}
