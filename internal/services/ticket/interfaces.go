package ticket

import (
	"context"

	"stagex/internal/models"
)

// Service defines the ticket ledger interface
type Service interface {
	// Issue creates a ticket after payment confirmation.
	Issue(ctx context.Context, params IssueParams) (*models.TicketPurchase, error)

	// Scan validates and consumes a ticket's single-use admission right.
	Scan(ctx context.Context, code string) (*ScanResult, error)

	// Transfer records a pending ownership handover.
	Transfer(ctx context.Context, ticketID, fromUserID uint, toEmail string) (*TransferResult, error)

	// Refund performs the terminal valid→refunded transition.
	Refund(ctx context.Context, ticketID uint, refundType string) (*RefundResult, error)

	// Lookups
	GetByID(ctx context.Context, ticketID uint) (*models.TicketPurchase, error)
	ListForUser(ctx context.Context, userID uint) ([]models.TicketPurchase, error)
}

// RefundNotifier is the compensating signal toward the payment collaborator.
// The ledger flips ticket state; the collaborator moves the money.
type RefundNotifier interface {
	NotifyRefund(ctx context.Context, ticket *models.TicketPurchase, refundType string) error
}

// NoopRefundNotifier is used when no payment collaborator is wired.
type NoopRefundNotifier struct{}

func (NoopRefundNotifier) NotifyRefund(context.Context, *models.TicketPurchase, string) error {
	return nil
}
