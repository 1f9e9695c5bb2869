package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/dmitrymomot/statekit/pkg/schema"
)

// evaluate interprets one validator against a value. A validator applied to a
// value of the wrong shape for its kind fails with a descriptive entry rather
// than crashing, and an unrecognized kind fails with an "unknown" entry.
func evaluate(v schema.Validator, value any) []Entry {
	switch v.Kind {
	case schema.ValidatorFormat:
		return checkFormat(v, value)
	case schema.ValidatorLength:
		return checkLength(v, value)
	case schema.ValidatorInclusion:
		return checkInclusion(v, value)
	case schema.ValidatorExclusion:
		return checkExclusion(v, value)
	case schema.ValidatorNumber:
		return checkNumber(v, value)
	case schema.ValidatorCustom:
		return checkCustom(v, value)
	default:
		return []Entry{{
			Kind:    EntryUnknown,
			Message: fmt.Sprintf("unknown validator kind %q", v.Kind),
		}}
	}
}

func checkFormat(v schema.Validator, value any) []Entry {
	s, ok := value.(string)
	if !ok {
		return []Entry{{
			Kind:    EntryFormat,
			Message: fmt.Sprintf("format validator requires a text value, got %T", value),
		}}
	}

	// The Format constructor compiles at definition time; validators built
	// from struct literals fall back to compiling here.
	re := v.CompiledPattern()
	if re == nil {
		var err error
		re, err = regexp.Compile(v.Pattern)
		if err != nil {
			return []Entry{{
				Kind:    EntryFormat,
				Message: fmt.Sprintf("invalid pattern %q: %v", v.Pattern, err),
			}}
		}
	}

	if !re.MatchString(s) {
		return []Entry{{
			Kind:    EntryFormat,
			Message: fmt.Sprintf("must match pattern %q", v.Pattern),
		}}
	}
	return nil
}

func checkLength(v schema.Validator, value any) []Entry {
	n, ok := lengthOf(value)
	if !ok {
		return []Entry{{
			Kind:    EntryLength,
			Message: fmt.Sprintf("length validator requires a text or sequence value, got %T", value),
		}}
	}

	// Exact length overrides min/max bounds.
	if v.Exact != nil {
		if n != *v.Exact {
			return []Entry{{
				Kind:    EntryLength,
				Message: fmt.Sprintf("length must be exactly %d, got %d", *v.Exact, n),
			}}
		}
		return nil
	}

	var entries []Entry
	if v.Min != nil && n < *v.Min {
		entries = append(entries, Entry{
			Kind:    EntryLength,
			Message: fmt.Sprintf("length must be at least %d, got %d", *v.Min, n),
		})
	}
	if v.Max != nil && n > *v.Max {
		entries = append(entries, Entry{
			Kind:    EntryLength,
			Message: fmt.Sprintf("length must be at most %d, got %d", *v.Max, n),
		})
	}
	return entries
}

func lengthOf(value any) (int, bool) {
	if s, ok := value.(string); ok {
		return len(s), true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	default:
		return 0, false
	}
}

func checkInclusion(v schema.Validator, value any) []Entry {
	for _, allowed := range v.Allowed {
		if equalValues(value, allowed) {
			return nil
		}
	}
	return []Entry{{
		Kind:    EntryInclusion,
		Message: fmt.Sprintf("must be one of: %s", joinValues(v.Allowed)),
	}}
}

func checkExclusion(v schema.Validator, value any) []Entry {
	for _, forbidden := range v.Forbidden {
		if equalValues(value, forbidden) {
			return []Entry{{
				Kind:    EntryExclusion,
				Message: fmt.Sprintf("must not be one of: %s", joinValues(v.Forbidden)),
			}}
		}
	}
	return nil
}

func checkNumber(v schema.Validator, value any) []Entry {
	n, ok := toFloat(value)
	if !ok {
		return []Entry{{
			Kind:    EntryNumber,
			Message: fmt.Sprintf("number validator requires a numeric value, got %T", value),
		}}
	}

	var entries []Entry
	fail := func(format string, bound float64) {
		entries = append(entries, Entry{
			Kind:    EntryNumber,
			Message: fmt.Sprintf(format, bound),
		})
	}

	if v.GreaterThan != nil && !(n > *v.GreaterThan) {
		fail("must be greater than %v", *v.GreaterThan)
	}
	if v.GreaterThanOrEqual != nil && !(n >= *v.GreaterThanOrEqual) {
		fail("must be greater than or equal to %v", *v.GreaterThanOrEqual)
	}
	if v.LessThan != nil && !(n < *v.LessThan) {
		fail("must be less than %v", *v.LessThan)
	}
	if v.LessThanOrEqual != nil && !(n <= *v.LessThanOrEqual) {
		fail("must be less than or equal to %v", *v.LessThanOrEqual)
	}
	if v.EqualTo != nil && n != *v.EqualTo {
		fail("must be equal to %v", *v.EqualTo)
	}
	return entries
}

// checkCustom runs a caller-supplied function. Panics inside the function are
// reported as failures so a misbehaving validator cannot take down a dispatch.
func checkCustom(v schema.Validator, value any) (entries []Entry) {
	if v.Check == nil {
		return []Entry{{
			Kind:    EntryCustom,
			Message: "custom validator has no check function",
		}}
	}

	defer func() {
		if r := recover(); r != nil {
			entries = []Entry{{
				Kind:    EntryCustom,
				Message: fmt.Sprintf("custom validator panicked: %v", r),
			}}
		}
	}()

	if err := v.Check(value); err != nil {
		return []Entry{{
			Kind:    EntryCustom,
			Message: err.Error(),
		}}
	}
	return nil
}

func joinValues(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%v", v)
	}
	return strings.Join(parts, ", ")
}
