package usage

import "errors"

var (
	// ErrLimitReached means the weekly generation allowance is used up.
	ErrLimitReached = errors.New("generation limit reached")
	// ErrInvalidInput is returned for calls without a user id.
	ErrInvalidInput = errors.New("invalid usage request")
)
