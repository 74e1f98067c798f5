package ticket

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"stagex/internal/models"
	"stagex/internal/repositories"
	"stagex/internal/services/ticketcode"

	"github.com/google/uuid"
)

type service struct {
	repo     repositories.TicketRepository
	notifier RefundNotifier
	config   Config
}

// NewService creates a new ticket ledger service
func NewService(repo repositories.TicketRepository, notifier RefundNotifier, config Config) Service {
	if repo == nil {
		panic("ticket repo is required")
	}
	if notifier == nil {
		notifier = NoopRefundNotifier{}
	}
	if config.DefaultMaxTransfers == 0 {
		config.DefaultMaxTransfers = 1
	}
	return &service{
		repo:     repo,
		notifier: notifier,
		config:   config,
	}
}

func (s *service) Issue(ctx context.Context, params IssueParams) (*models.TicketPurchase, error) {
	if params.Price < 0 {
		return nil, ErrInvalidPrice
	}
	// Issuance is strictly post-payment; the payment reference doubles as
	// the redelivery idempotency key.
	if params.PaymentIntentID == "" {
		return nil, ErrMissingPaymentRef
	}
	maxTransfers := params.MaxTransfers
	if maxTransfers == 0 {
		maxTransfers = s.config.DefaultMaxTransfers
	}

	ticket := &models.TicketPurchase{
		TicketTypeID:    params.TicketTypeID,
		EventID:         params.EventID,
		UserID:          params.UserID,
		OrderID:         params.OrderID,
		QRCodeData:      uuid.NewString(),
		Status:          models.TicketStatusValid,
		ScanCount:       0,
		IsTransferable:  params.IsTransferable,
		MaxTransfers:    maxTransfers,
		Price:           params.Price,
		PaymentIntentID: params.PaymentIntentID,
		PurchaseDate:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, ticket); err != nil {
		if errors.Is(err, repositories.ErrDuplicateTicket) {
			return nil, ErrAlreadyIssued
		}
		return nil, fmt.Errorf("failed to issue ticket: %w", err)
	}

	// The hash covers the generated row ID, so it can only be computed and
	// stored once the insert assigned one.
	ticket.SecurityHash = ticketcode.SecurityHash(ticket.ID, ticket.OrderID, ticket.UserID, s.config.SigningSecret)
	if err := s.repo.UpdateSecurityHash(ctx, ticket.ID, ticket.SecurityHash); err != nil {
		return nil, fmt.Errorf("failed to issue ticket: %w", err)
	}
	return ticket, nil
}

// Scan enforces the at-most-once admission policy. The conditional update in
// MarkScanned is the only path from valid to used; a loser of that race gets
// the same AlreadyScanned answer as a plain repeat scan.
func (s *service) Scan(ctx context.Context, code string) (*ScanResult, error) {
	ticketID, orderID, err := ticketcode.ParseScanCode(code)
	if err != nil {
		return nil, ErrInvalidFormat
	}

	ticket, err := s.repo.GetByTicketOrder(ctx, ticketID, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrTicketNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}

	now := time.Now().UTC()
	switch ticket.Status {
	case models.TicketStatusUsed:
		return &ScanResult{
			Outcome:     ScanOutcomeAlreadyScanned,
			Ticket:      ticket,
			FirstScanAt: ticket.FirstScanAt,
			ScannedAt:   now,
		}, nil
	case models.TicketStatusRefunded, models.TicketStatusCancelled:
		return &ScanResult{
			Outcome:   ScanOutcomeInvalid,
			Ticket:    ticket,
			ScannedAt: now,
		}, nil
	}

	ok, err := s.repo.MarkScanned(ctx, ticket.ID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to scan ticket: %w", err)
	}
	if !ok {
		// Lost the race: another scanner made the transition between our
		// read and the conditional write. Report their timestamp.
		current, err := s.repo.GetByID(ctx, ticket.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload ticket: %w", err)
		}
		return &ScanResult{
			Outcome:     ScanOutcomeAlreadyScanned,
			Ticket:      current,
			FirstScanAt: current.FirstScanAt,
			ScannedAt:   now,
		}, nil
	}

	ticket.Status = models.TicketStatusUsed
	ticket.ScanCount = 1
	ticket.FirstScanAt = &now
	ticket.LastScanAt = &now
	return &ScanResult{
		Outcome:     ScanOutcomeValid,
		Ticket:      ticket,
		FirstScanAt: &now,
		ScannedAt:   now,
	}, nil
}

func (s *service) Transfer(ctx context.Context, ticketID, fromUserID uint, toEmail string) (*TransferResult, error) {
	ticket, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repositories.ErrTicketNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}

	if ticket.UserID != fromUserID {
		return nil, ErrNotOwner
	}
	if ticket.Status != models.TicketStatusValid || !ticket.IsTransferable {
		return nil, ErrNotTransferable
	}
	if ticket.TransferCount >= ticket.MaxTransfers {
		return nil, ErrTransferLimitReached
	}

	transfer := &models.TicketTransfer{
		TicketPurchaseID: ticket.ID,
		FromUserID:       fromUserID,
		ToEmail:          toEmail,
		Status:           models.TransferStatusPending,
		Reference:        uuid.NewString(),
	}

	ok, err := s.repo.RecordTransfer(ctx, ticket.ID, transfer)
	if err != nil {
		return nil, fmt.Errorf("failed to transfer ticket: %w", err)
	}
	if !ok {
		// Guards changed underneath us; re-read to report the right reason.
		current, err := s.repo.GetByID(ctx, ticket.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload ticket: %w", err)
		}
		if current.Status != models.TicketStatusValid || !current.IsTransferable {
			return nil, ErrNotTransferable
		}
		return nil, ErrTransferLimitReached
	}

	ticket.TransferCount++
	return &TransferResult{
		Ticket:        ticket,
		Transfer:      transfer,
		TransfersLeft: ticket.MaxTransfers - ticket.TransferCount,
	}, nil
}

func (s *service) Refund(ctx context.Context, ticketID uint, refundType string) (*RefundResult, error) {
	ticket, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repositories.ErrTicketNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}

	ok, err := s.repo.MarkRefunded(ctx, ticket.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to refund ticket: %w", err)
	}
	if !ok {
		return nil, ErrNotRefundable
	}

	ticket.Status = models.TicketStatusRefunded

	// Signal the payment collaborator. The state transition already
	// committed; a failed signal is logged and retried out of band.
	notified := true
	if err := s.notifier.NotifyRefund(ctx, ticket, refundType); err != nil {
		log.Printf("refund notification failed for ticket %d: %v", ticket.ID, err)
		notified = false
	}

	return &RefundResult{
		Ticket:     ticket,
		RefundType: refundType,
		Notified:   notified,
	}, nil
}

func (s *service) GetByID(ctx context.Context, ticketID uint) (*models.TicketPurchase, error) {
	ticket, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repositories.ErrTicketNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ticket, nil
}

func (s *service) ListForUser(ctx context.Context, userID uint) ([]models.TicketPurchase, error) {
	return s.repo.GetByUser(ctx, userID)
}
