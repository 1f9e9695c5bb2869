package state

import "errors"

var (
	ErrNilSchema    = errors.New("state: schema cannot be nil")
	ErrUnknownField = errors.New("state: unknown field")
)
