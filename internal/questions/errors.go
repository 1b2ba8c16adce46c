package questions

import "errors"

var (
	ErrNotFound            = errors.New("resume not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrGenerationFailed    = errors.New("question generation failed")
	ErrUpstreamUnavailable = errors.New("generation provider unavailable")
)
