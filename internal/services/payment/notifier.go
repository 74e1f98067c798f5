package payment

import (
	"context"
	"errors"
	"fmt"

	"stagex/internal/models"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/refund"
)

// StripeRefundNotifier pushes the money side of a refund back through
// Stripe after the ticket ledger has flipped the state. Event-cancelled
// refunds carry a different reason code for reconciliation.
type StripeRefundNotifier struct{}

func NewStripeRefundNotifier() *StripeRefundNotifier {
	return &StripeRefundNotifier{}
}

func (n *StripeRefundNotifier) NotifyRefund(ctx context.Context, ticket *models.TicketPurchase, refundType string) error {
	if ticket.PaymentIntentID == "" {
		return errors.New("ticket has no payment intent to refund")
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(ticket.PaymentIntentID),
		Amount:        stripe.Int64(ticket.Price),
	}
	params.Context = ctx
	if refundType == models.RefundTypeEventRef {
		params.Reason = stripe.String(string(stripe.RefundReasonRequestedByCustomer))
		params.AddMetadata("cause", "event_cancelled")
	}
	params.AddMetadata("ticket_id", fmt.Sprintf("%d", ticket.ID))
	params.AddMetadata("order_id", fmt.Sprintf("%d", ticket.OrderID))

	if _, err := refund.New(params); err != nil {
		return fmt.Errorf("stripe refund failed: %w", err)
	}
	return nil
}
