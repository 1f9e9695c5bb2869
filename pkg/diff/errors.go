package diff

import "errors"

var (
	ErrCrossTypeDiff     = errors.New("diff: cannot apply a cross-type diff")
	ErrBadDiff           = errors.New("diff: malformed result")
	ErrNothingChanged    = errors.New("diff: expected fields to change, but nothing changed")
	ErrUnexpectedChanges = errors.New("diff: changed fields do not match expectation")
)
