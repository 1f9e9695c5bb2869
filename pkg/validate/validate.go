package validate

import (
	"fmt"
	"reflect"

	"github.com/dmitrymomot/statekit/pkg/schema"
)

// Typed is implemented by structured values that carry a declared type
// identity, notably state snapshots. The type check for struct fields matches
// on the declared name, not the Go type.
type Typed interface {
	SchemaName() string
}

// Field validates a candidate value against a field's declared type and its
// ordered validator list. A nil return means the value passed.
//
// Nullable fields skip validation entirely for nil values. Otherwise the type
// check runs first but does not short-circuit: every validator still runs, and
// all failures accumulate into a single *ValidationError in the order they
// were produced.
func Field(name string, value any, d schema.Field) error {
	if value == nil {
		if d.Nullable {
			return nil
		}
		return &ValidationError{
			Field: name,
			Value: value,
			Entries: []Entry{{
				Kind:    EntryType,
				Message: fmt.Sprintf("cannot be null: expected %s", d.Type),
			}},
		}
	}

	var entries []Entry
	if !typeMatches(value, d.Type) {
		entries = append(entries, Entry{
			Kind:    EntryType,
			Message: fmt.Sprintf("expected %s, got %T", d.Type, value),
		})
	}

	for _, v := range d.Validators {
		entries = append(entries, evaluate(v, value)...)
	}

	if len(entries) == 0 {
		return nil
	}
	return &ValidationError{Field: name, Value: value, Entries: entries}
}

func typeMatches(value any, td schema.TypeDescriptor) bool {
	switch td.Kind {
	case schema.KindAny:
		return true
	case schema.KindString:
		_, ok := value.(string)
		return ok
	case schema.KindBool:
		_, ok := value.(bool)
		return ok
	case schema.KindInt:
		return isInteger(value)
	case schema.KindFloat:
		// Integer values widen to float fields.
		return isNumeric(value)
	case schema.KindStruct:
		typed, ok := value.(Typed)
		return ok && typed.SchemaName() == td.Schema
	default:
		return false
	}
}

func isInteger(value any) bool {
	switch reflect.ValueOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func isNumeric(value any) bool {
	switch reflect.ValueOf(value).Kind() {
	case reflect.Float32, reflect.Float64:
		return true
	default:
		return isInteger(value)
	}
}

// toFloat converts any numeric value to float64 for bound comparisons.
func toFloat(value any) (float64, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// equalValues compares two values for membership checks. Numeric values
// compare by magnitude so that YAML-sourced allowed lists (which decode ints
// as int) still match int64 or float field values.
func equalValues(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}
