package questionbank

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrDimensionMismatch = errors.New("embedding count does not match input count")
)
