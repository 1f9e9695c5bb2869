package schema

import "errors"

var (
	ErrEmptySchemaName = errors.New("schema: name cannot be empty")
	ErrEmptyFieldName  = errors.New("schema: field name cannot be empty")
	ErrDuplicateField  = errors.New("schema: duplicate field")
	ErrNilSchema       = errors.New("schema: schema cannot be nil")
	ErrSchemaExists    = errors.New("schema: already registered")
	ErrInvalidYAML     = errors.New("schema: failed to parse YAML definition")
	ErrUnknownType     = errors.New("schema: unknown field type")
	ErrUnknownRule     = errors.New("schema: unknown validator kind")
)
