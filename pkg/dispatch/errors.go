package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNilSchema           = errors.New("dispatch: schema cannot be nil")
	ErrNilState            = errors.New("dispatch: state cannot be nil")
	ErrNilHandler          = errors.New("dispatch: handler function cannot be nil")
	ErrEmptyActionName     = errors.New("dispatch: action name cannot be empty")
	ErrNegativeArity       = errors.New("dispatch: arity cannot be negative")
	ErrInvalidRegistration = errors.New("dispatch: invalid handler registration")
	ErrSchemaMismatch      = errors.New("dispatch: snapshot schema mismatch")
)

// UnknownActionError means no registered handler matched the invocation. It
// lists every declared action name for the schema and, when a declared name
// is close enough to the attempted one, a best-effort suggestion.
type UnknownActionError struct {
	Attempted  string
	Schema     string
	Available  []string
	Suggestion string
}

func (e *UnknownActionError) Error() string {
	msg := fmt.Sprintf("unknown action %q for schema %q", e.Attempted, e.Schema)
	if len(e.Available) > 0 {
		msg += fmt.Sprintf(": available actions: %s", strings.Join(e.Available, ", "))
	} else {
		msg += ": no actions registered"
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// IsUnknownActionError reports whether err carries an *UnknownActionError.
func IsUnknownActionError(err error) bool {
	var e *UnknownActionError
	return errors.As(err, &e)
}
