package query

import "errors"

// Sentinel errors returned by Compile and Match
var (
	ErrUnsafeOperation   = errors.New("unsafe operation attempted")
	ErrInvalidExpression = errors.New("invalid expression syntax")
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrNotBoolean        = errors.New("expression did not evaluate to a boolean")
)
