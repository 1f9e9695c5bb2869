package validate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPolicy marks an unrecognized validate_at or on_error value.
var ErrInvalidPolicy = errors.New("validate: invalid policy value")

// EntryKind classifies a single validation failure entry.
type EntryKind string

const (
	EntryType      EntryKind = "type"
	EntryFormat    EntryKind = "format"
	EntryLength    EntryKind = "length"
	EntryInclusion EntryKind = "inclusion"
	EntryExclusion EntryKind = "exclusion"
	EntryNumber    EntryKind = "number"
	EntryCustom    EntryKind = "custom"
	EntryUnknown   EntryKind = "unknown"
)

// Entry is one (kind, message) failure produced while validating a value.
type Entry struct {
	Kind    EntryKind `json:"kind"`
	Message string    `json:"message"`
}

// ValidationError aggregates every failure found for one field. Entries keep
// the order they were produced in: the type-check entry first when present,
// then validator failures in declaration order.
type ValidationError struct {
	Field   string   `json:"field"`
	Value   any      `json:"value"`
	Entries []Entry  `json:"entries"`
	Path    []string `json:"path,omitempty"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Entries))
	for i, entry := range e.Entries {
		parts[i] = fmt.Sprintf("%s: %s", entry.Kind, entry.Message)
	}
	field := e.Field
	if len(e.Path) > 0 {
		field = strings.Join(e.Path, ".") + "." + field
	}
	return fmt.Sprintf("validation failed for field %q: %s", field, strings.Join(parts, "; "))
}

// Messages returns the entry messages in order.
func (e *ValidationError) Messages() []string {
	out := make([]string, len(e.Entries))
	for i, entry := range e.Entries {
		out[i] = fmt.Sprintf("%s: %s", entry.Kind, entry.Message)
	}
	return out
}

// Has reports whether any entry has the given kind.
func (e *ValidationError) Has(kind EntryKind) bool {
	for _, entry := range e.Entries {
		if entry.Kind == kind {
			return true
		}
	}
	return false
}

// TypeMismatchError is the fatal form a validation failure takes when the
// error policy is set to raise.
type TypeMismatchError struct {
	Field    string
	Expected string
	Got      any
	cause    error
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch on field %q: expected %s, got %v (%T)", e.Field, e.Expected, e.Got, e.Got)
}

func (e *TypeMismatchError) Unwrap() error { return e.cause }

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsValidationError extracts the *ValidationError from err, or nil.
func AsValidationError(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

// IsTypeMismatchError reports whether err carries a *TypeMismatchError.
func IsTypeMismatchError(err error) bool {
	var tm *TypeMismatchError
	return errors.As(err, &tm)
}
