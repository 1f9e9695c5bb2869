package config

import "errors"

var (
	ErrNilPointer = errors.New("config: destination cannot be nil")
	ErrParsing    = errors.New("config: failed to parse environment variables")
)
