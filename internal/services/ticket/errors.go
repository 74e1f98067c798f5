package ticket

import "errors"

// Service errors
var (
	ErrNotFound             = errors.New("ticket not found")
	ErrInvalidFormat        = errors.New("scan code format is invalid")
	ErrNotTransferable      = errors.New("ticket is not transferable")
	ErrTransferLimitReached = errors.New("ticket transfer limit reached")
	ErrNotOwner             = errors.New("ticket does not belong to this user")
	ErrNotRefundable        = errors.New("ticket is not in a refundable state")
	ErrInvalidPrice         = errors.New("ticket price must not be negative")
	ErrMissingPaymentRef    = errors.New("a payment intent reference is required")
	ErrAlreadyIssued        = errors.New("a ticket was already issued for this payment")
)
