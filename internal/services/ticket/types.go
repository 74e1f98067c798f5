package ticket

import (
	"time"

	"stagex/internal/models"
)

// Config holds ticket service configuration.
type Config struct {
	// SigningSecret keys the per-ticket security hash.
	SigningSecret string

	// DefaultMaxTransfers applies when the ticket type does not set one.
	DefaultMaxTransfers int
}

// IssueParams carries the payment confirmation payload the ledger reacts to.
type IssueParams struct {
	OrderID         uint
	TicketTypeID    uint
	EventID         uint
	UserID          uint
	Price           int64 // minor currency units
	PaymentIntentID string
	IsTransferable  bool
	MaxTransfers    int
}

// Scan outcomes
const (
	ScanOutcomeValid          = "valid"
	ScanOutcomeAlreadyScanned = "already_scanned"
	ScanOutcomeInvalid        = "invalid"
)

// ScanResult reports what a scan attempt found. AlreadyScanned and Invalid
// are informational outcomes, not errors: the gate needs the original scan
// time to display, not a stack trace.
type ScanResult struct {
	Outcome     string                 `json:"outcome"`
	Ticket      *models.TicketPurchase `json:"ticket,omitempty"`
	FirstScanAt *time.Time             `json:"first_scan_at,omitempty"`
	ScannedAt   time.Time              `json:"scanned_at"`
}

// TransferResult reports a recorded pending transfer.
type TransferResult struct {
	Ticket        *models.TicketPurchase `json:"ticket"`
	Transfer      *models.TicketTransfer `json:"transfer"`
	TransfersLeft int                    `json:"transfers_left"`
}

// RefundResult reports the terminal refund transition. The payment
// collaborator owns the actual money movement.
type RefundResult struct {
	Ticket     *models.TicketPurchase `json:"ticket"`
	RefundType string                 `json:"refund_type"`
	Notified   bool                   `json:"notified"`
}
