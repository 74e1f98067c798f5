package errors

var (
	ErrInsufficientCredits = &DomainError{
		Code:    "INSUFFICIENT_CREDITS",
		Message: "credit balance is too low",
	}
	ErrOutOfStock = &DomainError{
		Code:    "OUT_OF_STOCK",
		Message: "offer inventory is exhausted",
	}
	ErrEventNotFound = &DomainError{
		Code:    "EVENT_NOT_FOUND",
		Message: "no event matches the supplied code",
	}
	ErrPassportNotEnabled = &DomainError{
		Code:    "PASSPORT_NOT_ENABLED",
		Message: "event does not support passport check-ins",
	}
	ErrInvalidOrExpiredCode = &DomainError{
		Code:    "INVALID_OR_EXPIRED_CODE",
		Message: "check-in code is invalid or expired",
	}
	ErrOutOfRange = &DomainError{
		Code:    "OUT_OF_RANGE",
		Message: "location is outside the event check-in radius",
	}
)
