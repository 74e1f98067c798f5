package credit

import "errors"

// Service errors
var (
	ErrInvalidAmount       = errors.New("amount must be a positive integer")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrInvalidReason       = errors.New("unknown transaction reason")
)
