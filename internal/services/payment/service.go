package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"

	"stagex/internal/services/ticket"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/webhook"
)

var (
	ErrBadSignature = errors.New("webhook signature verification failed")
	ErrBadMetadata  = errors.New("payment intent metadata is incomplete")
)

// Config holds the Stripe webhook configuration.
type Config struct {
	WebhookSecret string
}

type service struct {
	tickets TicketIssuer
	config  Config
}

func NewService(tickets TicketIssuer, config Config) Service {
	if tickets == nil {
		panic("ticket issuer is required")
	}
	return &service{tickets: tickets, config: config}
}

func (s *service) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) (*WebhookResult, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.config.WebhookSecret)
	if err != nil {
		return nil, ErrBadSignature
	}

	switch event.Type {
	case "payment_intent.succeeded":
		return s.handlePaymentSucceeded(ctx, event)
	default:
		// Acknowledge so Stripe stops retrying; only confirmations matter here.
		log.Printf("ignoring stripe event type %s", event.Type)
		return &WebhookResult{EventType: event.Type, Handled: false}, nil
	}
}

func (s *service) handlePaymentSucceeded(ctx context.Context, event stripe.Event) (*WebhookResult, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, fmt.Errorf("failed to parse payment intent: %w", err)
	}

	params, err := issueParamsFromMetadata(intent.Metadata)
	if err != nil {
		return nil, err
	}
	params.Price = intent.Amount
	params.PaymentIntentID = intent.ID

	issued, err := s.tickets.Issue(ctx, params)
	if err != nil {
		// Stripe delivers at-least-once; a repeat of an intent we already
		// turned into a ticket is acknowledged so it stops retrying.
		if errors.Is(err, ticket.ErrAlreadyIssued) {
			log.Printf("duplicate delivery for intent %s, ticket already issued", intent.ID)
			return &WebhookResult{EventType: event.Type, Handled: true}, nil
		}
		return nil, fmt.Errorf("failed to issue ticket for intent %s: %w", intent.ID, err)
	}

	return &WebhookResult{
		EventType: event.Type,
		Handled:   true,
		TicketID:  issued.ID,
	}, nil
}

func issueParamsFromMetadata(metadata map[string]string) (ticket.IssueParams, error) {
	var params ticket.IssueParams

	orderID, err := parseUintField(metadata, "order_id")
	if err != nil {
		return params, err
	}
	ticketTypeID, err := parseUintField(metadata, "ticket_type_id")
	if err != nil {
		return params, err
	}
	eventID, err := parseUintField(metadata, "event_id")
	if err != nil {
		return params, err
	}
	userID, err := parseUintField(metadata, "user_id")
	if err != nil {
		return params, err
	}

	params.OrderID = orderID
	params.TicketTypeID = ticketTypeID
	params.EventID = eventID
	params.UserID = userID
	params.IsTransferable = metadata["transferable"] != "false"
	if raw, ok := metadata["max_transfers"]; ok {
		if n, err := strconv.Atoi(raw); err == nil {
			params.MaxTransfers = n
		}
	}
	return params, nil
}

func parseUintField(metadata map[string]string, key string) (uint, error) {
	raw, ok := metadata[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", ErrBadMetadata, key)
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: bad %s", ErrBadMetadata, key)
	}
	return uint(n), nil
}
