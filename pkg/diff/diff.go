package diff

import (
	"context"
	"fmt"
	"reflect"

	"github.com/dmitrymomot/statekit/pkg/state"
)

// TypeField is the reserved field key used when two snapshots of different
// declared types are compared: the result reports a single modification of
// the type identity itself and no field-level comparison is attempted.
const TypeField = "$schema"

// Pair holds the (old, new) values of a modified field. It marshals as a
// two-element array for cross-boundary consumption.
type Pair [2]any

// Old returns the value before the change.
func (p Pair) Old() any { return p[0] }

// New returns the value after the change.
func (p Pair) New() any { return p[1] }

// Result is the structured comparison of two snapshots. Changed lists every
// differing field in schema-declaration order; an empty Changed list means
// the snapshots are equal. Each changed field appears in exactly one of
// Added, Removed, Modified, or Nested.
type Result struct {
	Changed  []string           `json:"changed"`
	Added    map[string]any     `json:"added,omitempty"`
	Removed  map[string]any     `json:"removed,omitempty"`
	Modified map[string]Pair    `json:"modified,omitempty"`
	Nested   map[string]*Result `json:"nested,omitempty"`
}

// Unchanged reports whether the comparison found no differences.
func (r *Result) Unchanged() bool {
	return r == nil || len(r.Changed) == 0
}

func newResult() *Result {
	return &Result{
		Added:    make(map[string]any),
		Removed:  make(map[string]any),
		Modified: make(map[string]Pair),
		Nested:   make(map[string]*Result),
	}
}

// Diff recursively compares two snapshots. Two nil snapshots are unchanged;
// a nil on one side only is a change of type identity, reported the same way
// as a cross-type comparison.
//
// Snapshots of different declared types short-circuit into a single
// TypeField modification. Otherwise every field is classified in
// schema-declaration order: nil-to-value as added, value-to-nil as removed,
// same-type nested snapshots recursively (an unchanged nested result does not
// count as a change), and any other difference as modified.
func Diff(old, new *state.Snapshot) *Result {
	r := newResult()

	if old == nil || new == nil {
		if old == nil && new == nil {
			return r
		}
		r.Changed = append(r.Changed, TypeField)
		r.Modified[TypeField] = Pair{snapshotIdentity(old), snapshotIdentity(new)}
		return r
	}

	if old.SchemaName() != new.SchemaName() {
		r.Changed = append(r.Changed, TypeField)
		r.Modified[TypeField] = Pair{old.SchemaName(), new.SchemaName()}
		return r
	}

	for _, name := range old.Schema().FieldNames() {
		ov := old.Value(name)
		nv := new.Value(name)

		switch {
		case ov == nil && nv == nil:
			// equal; not a change

		case ov == nil:
			r.Changed = append(r.Changed, name)
			r.Added[name] = nv

		case nv == nil:
			r.Changed = append(r.Changed, name)
			r.Removed[name] = ov

		default:
			os, ook := ov.(*state.Snapshot)
			ns, nok := nv.(*state.Snapshot)
			if ook && nok && os.SchemaName() == ns.SchemaName() {
				nested := Diff(os, ns)
				if nested.Unchanged() {
					continue
				}
				r.Changed = append(r.Changed, name)
				r.Nested[name] = nested
				continue
			}

			if reflect.DeepEqual(ov, nv) {
				continue
			}
			r.Changed = append(r.Changed, name)
			r.Modified[name] = Pair{ov, nv}
		}
	}

	return r
}

// Apply reconstructs the right-hand snapshot of a comparison: applying
// Diff(a, b) onto a yields a snapshot equal to b. Cross-type diffs cannot be
// applied.
func Apply(ctx context.Context, base *state.Snapshot, r *Result) (*state.Snapshot, error) {
	if r.Unchanged() {
		return base, nil
	}
	if _, crossType := r.Modified[TypeField]; crossType {
		return nil, ErrCrossTypeDiff
	}

	next := base
	var err error
	for _, name := range r.Changed {
		switch {
		case hasKey(r.Added, name):
			next, err = next.With(ctx, name, r.Added[name])

		case hasKey(r.Removed, name):
			next, err = next.With(ctx, name, nil)

		case hasKey(r.Modified, name):
			next, err = next.With(ctx, name, r.Modified[name].New())

		case hasKey(r.Nested, name):
			child, ok := next.Value(name).(*state.Snapshot)
			if !ok {
				return nil, fmt.Errorf("%w: field %q is not a snapshot", ErrBadDiff, name)
			}
			var applied *state.Snapshot
			applied, err = Apply(ctx, child, r.Nested[name])
			if err == nil {
				next, err = next.With(ctx, name, applied)
			}

		default:
			return nil, fmt.Errorf("%w: changed field %q has no classification", ErrBadDiff, name)
		}
		if err != nil {
			return nil, err
		}
	}
	return next, nil
}

func snapshotIdentity(s *state.Snapshot) any {
	if s == nil {
		return nil
	}
	return s.SchemaName()
}

func hasKey[V any](m map[string]V, k string) bool {
	_, ok := m[k]
	return ok
}
