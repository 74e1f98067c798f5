package repositories

import (
	"context"
	"errors"
	"time"

	"stagex/internal/models"
)

var (
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrDuplicateTicket = errors.New("a ticket already exists for this payment")
)

// TicketRepository defines the interface for ticket-related database
// operations. MarkScanned, RecordTransfer and MarkRefunded are conditional
// single-row writes: they report false when the guard clause no longer
// matched, which is how concurrent scanners lose the race safely.
type TicketRepository interface {
	// Create inserts the ticket row. The unique payment intent index maps a
	// duplicate insert to ErrDuplicateTicket, which makes webhook redelivery
	// a no-op.
	Create(ctx context.Context, ticket *models.TicketPurchase) error

	// UpdateSecurityHash persists the hash once the generated row ID it
	// covers is known.
	UpdateSecurityHash(ctx context.Context, ticketID uint, hash string) error

	GetByID(ctx context.Context, id uint) (*models.TicketPurchase, error)
	GetByTicketOrder(ctx context.Context, ticketID, orderID uint) (*models.TicketPurchase, error)
	GetByUser(ctx context.Context, userID uint) ([]models.TicketPurchase, error)

	// MarkScanned performs the valid→used transition. It returns true only
	// for the single caller that observed status=valid.
	MarkScanned(ctx context.Context, ticketID uint, at time.Time) (bool, error)

	// RecordTransfer increments the transfer counter and inserts the pending
	// transfer row in one transaction, guarded by status, transferability
	// and the transfer limit.
	RecordTransfer(ctx context.Context, ticketID uint, transfer *models.TicketTransfer) (bool, error)

	// MarkRefunded performs the terminal valid→refunded transition.
	MarkRefunded(ctx context.Context, ticketID uint) (bool, error)
}
