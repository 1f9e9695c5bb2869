package schema

import "regexp"

// ValidatorKind names a built-in validation rule family.
type ValidatorKind string

const (
	ValidatorFormat    ValidatorKind = "format"
	ValidatorLength    ValidatorKind = "length"
	ValidatorInclusion ValidatorKind = "inclusion"
	ValidatorExclusion ValidatorKind = "exclusion"
	ValidatorNumber    ValidatorKind = "number"
	ValidatorCustom    ValidatorKind = "custom"
)

// CustomFunc is a caller-supplied validation function. A nil return means the
// value passed; a non-nil error carries the failure message.
type CustomFunc func(value any) error

// Validator is the data form of one validation rule. Only the parameters
// relevant to its Kind are set; the validation engine interprets the rest as
// absent. Keeping validators as data lets schemas be declared in YAML and
// stored in the registry without per-type code.
type Validator struct {
	Kind ValidatorKind

	// format; compiled is set by the Format constructor so the pattern is
	// compiled once at definition time, not per evaluation
	Pattern  string
	compiled *regexp.Regexp

	// length
	Min   *int
	Max   *int
	Exact *int

	// inclusion / exclusion
	Allowed   []any
	Forbidden []any

	// number bounds; absent pointers impose no constraint
	GreaterThan        *float64
	GreaterThanOrEqual *float64
	LessThan           *float64
	LessThanOrEqual    *float64
	EqualTo            *float64

	// custom
	Check CustomFunc `yaml:"-"`
}

// Format requires a text value matching the regular expression pattern. An
// invalid pattern leaves the validator uncompiled; it surfaces as a failure
// entry when the rule is evaluated rather than as a definition-time error.
func Format(pattern string) Validator {
	v := Validator{Kind: ValidatorFormat, Pattern: pattern}
	v.compiled, _ = regexp.Compile(pattern)
	return v
}

// CompiledPattern returns the regexp compiled at definition time, or nil when
// the validator was built from a literal or its pattern is invalid.
func (v Validator) CompiledPattern() *regexp.Regexp { return v.compiled }

// Length requires a text or sequence value with length within [min, max].
func Length(min, max int) Validator {
	return Validator{Kind: ValidatorLength, Min: &min, Max: &max}
}

// MinLength requires a text or sequence value with at least n elements.
func MinLength(n int) Validator {
	return Validator{Kind: ValidatorLength, Min: &n}
}

// MaxLength requires a text or sequence value with at most n elements.
func MaxLength(n int) Validator {
	return Validator{Kind: ValidatorLength, Max: &n}
}

// ExactLength requires a text or sequence value with exactly n elements.
func ExactLength(n int) Validator {
	return Validator{Kind: ValidatorLength, Exact: &n}
}

// Inclusion requires the value to be one of the allowed values.
func Inclusion(allowed ...any) Validator {
	return Validator{Kind: ValidatorInclusion, Allowed: allowed}
}

// Exclusion requires the value not to be one of the forbidden values.
func Exclusion(forbidden ...any) Validator {
	return Validator{Kind: ValidatorExclusion, Forbidden: forbidden}
}

// NumberOption sets one bound on a number validator.
type NumberOption func(*Validator)

// Number requires a numeric value satisfying every configured bound.
func Number(opts ...NumberOption) Validator {
	v := Validator{Kind: ValidatorNumber}
	for _, opt := range opts {
		opt(&v)
	}
	return v
}

func GreaterThan(bound float64) NumberOption {
	return func(v *Validator) { v.GreaterThan = &bound }
}

func GreaterThanOrEqual(bound float64) NumberOption {
	return func(v *Validator) { v.GreaterThanOrEqual = &bound }
}

func LessThan(bound float64) NumberOption {
	return func(v *Validator) { v.LessThan = &bound }
}

func LessThanOrEqual(bound float64) NumberOption {
	return func(v *Validator) { v.LessThanOrEqual = &bound }
}

func EqualTo(bound float64) NumberOption {
	return func(v *Validator) { v.EqualTo = &bound }
}

// Custom wraps a caller-supplied validation function.
func Custom(fn CustomFunc) Validator {
	return Validator{Kind: ValidatorCustom, Check: fn}
}
