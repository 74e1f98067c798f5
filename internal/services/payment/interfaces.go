package payment

import (
	"context"

	"stagex/internal/models"
	"stagex/internal/services/ticket"
)

// Service consumes payment collaborator callbacks and turns confirmed
// payments into issued tickets.
type Service interface {
	// HandleWebhook verifies the payload signature and dispatches the
	// event. Unknown event types are acknowledged and ignored.
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) (*WebhookResult, error)
}

// TicketIssuer is the slice of the ticket ledger the adapter needs.
type TicketIssuer interface {
	Issue(ctx context.Context, params ticket.IssueParams) (*models.TicketPurchase, error)
}

// WebhookResult reports what a webhook delivery did.
type WebhookResult struct {
	EventType string `json:"event_type"`
	Handled   bool   `json:"handled"`
	TicketID  uint   `json:"ticket_id,omitempty"`
}
