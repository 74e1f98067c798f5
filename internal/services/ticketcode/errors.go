package ticketcode

import "errors"

var (
	ErrInvalidFormat        = errors.New("scan code does not match the expected format")
	ErrInvalidOrExpiredCode = errors.New("check-in token is invalid or expired")
)
