package ticket

import (
	"context"
	"testing"
	"time"

	"stagex/internal/models"
	"stagex/internal/repositories"
	"stagex/internal/services/ticketcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTicketRepo struct {
	mock.Mock
}

func (m *MockTicketRepo) Create(ctx context.Context, ticket *models.TicketPurchase) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepo) UpdateSecurityHash(ctx context.Context, ticketID uint, hash string) error {
	args := m.Called(ctx, ticketID, hash)
	return args.Error(0)
}

func (m *MockTicketRepo) GetByID(ctx context.Context, id uint) (*models.TicketPurchase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TicketPurchase), args.Error(1)
}

func (m *MockTicketRepo) GetByTicketOrder(ctx context.Context, ticketID, orderID uint) (*models.TicketPurchase, error) {
	args := m.Called(ctx, ticketID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TicketPurchase), args.Error(1)
}

func (m *MockTicketRepo) GetByUser(ctx context.Context, userID uint) ([]models.TicketPurchase, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TicketPurchase), args.Error(1)
}

func (m *MockTicketRepo) MarkScanned(ctx context.Context, ticketID uint, at time.Time) (bool, error) {
	args := m.Called(ctx, ticketID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockTicketRepo) RecordTransfer(ctx context.Context, ticketID uint, transfer *models.TicketTransfer) (bool, error) {
	args := m.Called(ctx, ticketID, transfer)
	return args.Bool(0), args.Error(1)
}

func (m *MockTicketRepo) MarkRefunded(ctx context.Context, ticketID uint) (bool, error) {
	args := m.Called(ctx, ticketID)
	return args.Bool(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyRefund(ctx context.Context, ticket *models.TicketPurchase, refundType string) error {
	args := m.Called(ctx, ticket, refundType)
	return args.Error(0)
}

func validTicket() *models.TicketPurchase {
	t := &models.TicketPurchase{
		TicketTypeID:   2,
		EventID:        3,
		UserID:         100,
		OrderID:        1,
		Status:         models.TicketStatusValid,
		IsTransferable: true,
		MaxTransfers:   1,
		Price:          4500,
	}
	t.ID = 7
	return t
}

func TestTicketService_Scan(t *testing.T) {
	t.Run("fresh ticket scans valid", func(t *testing.T) {
		repo := new(MockTicketRepo)
		svc := NewService(repo, nil, Config{SigningSecret: "s"})

		repo.On("GetByTicketOrder", mock.Anything, uint(7), uint(1)).Return(validTicket(), nil)
		repo.On("MarkScanned", mock.Anything, uint(7), mock.Anything).Return(true, nil)

		res, err := svc.Scan(context.Background(), "SGX-TIX-7-1")
		require.NoError(t, err)
		assert.Equal(t, ScanOutcomeValid, res.Outcome)
		assert.Equal(t, 1, res.Ticket.ScanCount)
		assert.Equal(t, models.TicketStatusUsed, res.Ticket.Status)
		require.NotNil(t, res.FirstScanAt)

		repo.AssertExpectations(t)
	})

	t.Run("second scan reports original timestamp", func(t *testing.T) {
		repo := new(MockTicketRepo)
		svc := NewService(repo, nil, Config{})

		firstScan := time.Date(2026, 5, 1, 20, 15, 0, 0, time.UTC)
		used := validTicket()
		used.Status = models.TicketStatusUsed
		used.ScanCount = 1
		used.FirstScanAt = &firstScan

		repo.On("GetByTicketOrder", mock.Anything, uint(7), uint(1)).Return(used, nil)

		res, err := svc.Scan(context.Background(), "SGX-TIX-7-1")
		require.NoError(t, err)
		assert.Equal(t, ScanOutcomeAlreadyScanned, res.Outcome)
		require.NotNil(t, res.FirstScanAt)
		assert.Equal(t, firstScan, *res.FirstScanAt)
		// Repeat scans never touch the counter.
		assert.Equal(t, 1, res.Ticket.ScanCount)

		repo.AssertNotCalled(t, "MarkScanned", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("losing the scan race reports already scanned", func(t *testing.T) {
		repo := new(MockTicketRepo)
		svc := NewService(repo, nil, Config{})

		firstScan := time.Date(2026, 5, 1, 20, 15, 0, 0, time.UTC)
		winner := validTicket()
		winner.Status = models.TicketStatusUsed
		winner.ScanCount = 1
		winner.FirstScanAt = &firstScan

		repo.On("GetByTicketOrder", mock.Anything, uint(7), uint(1)).Return(validTicket(), nil)
		repo.On("MarkScanned", mock.Anything, uint(7), mock.Anything).Return(false, nil)
		repo.On("GetByID", mock.Anything, uint(7)).Return(winner, nil)

		res, err := svc.Scan(context.Background(), "SGX-TIX-7-1")
		require.NoError(t, err)
		assert.Equal(t, ScanOutcomeAlreadyScanned, res.Outcome)
		assert.Equal(t, firstScan, *res.FirstScanAt)

		repo.AssertExpectations(t)
	})

	t.Run("refunded ticket is invalid", func(t *testing.T) {
		repo := new(MockTicketRepo)
		svc := NewService(repo, nil, Config{})

		refunded := validTicket()
		refunded.Status = models.TicketStatusRefunded
		repo.On("GetByTicketOrder", mock.Anything, uint(7), uint(1)).Return(refunded, nil)

		res, err := svc.Scan(context.Background(), "SGX-TIX-7-1")
		require.NoError(t, err)
		assert.Equal(t, ScanOutcomeInvalid, res.Outcome)
	})

	t.Run("malformed code touches no rows", func(t *testing.T) {
		repo := new(MockTicketRepo)
		svc := NewService(repo, nil, Config{})

		_, err := svc.Scan(context.Background(), "garbage")
		assert.ErrorIs(t, err, ErrInvalidFormat)

		repo.AssertNotCalled(t, "GetByTicketOrder", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "MarkScanned", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown ticket", func(t *testing.T) {
		repo := new(MockTicketRepo)
		svc := NewService(repo, nil, Config{})

		repo.On("GetByTicketOrder", mock.Anything, uint(99), uint(5)).Return(nil, repositories.ErrTicketNotFound)

		_, err := svc.Scan(context.Background(), "SGX-TIX-99-5")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTicketService_Transfer(t *testing.T) {
	t.Run("successful transfer", func(t *testing.T) {
		repo := new(MockTicketRepo)
		svc := NewService(repo, nil, Config{})

		repo.On("GetByID", mock.Anything, uint(7)).Return(validTicket(), nil)
		repo.On("RecordTransfer", mock.Anything, uint(7), mock.Anything).Return(true, nil)

		res, err := svc.Transfer(context.Background(), 7, 100, "friend@example.com")
		require.NoError(t, err)
		assert.Equal(t, 1, res.Ticket.TransferCount)
		assert.Equal(t, 0, res.TransfersLeft)
		assert.Equal(t, models.TransferStatusPending, res.Transfer.Status)
		assert.Equal(t, "friend@example.com", res.Transfer.ToEmail)
	})

	t.Run("transfer limit reached", func(t *testing.T) {
		repo := new(MockTicketRepo)
		svc := NewService(repo, nil, Config{})

		maxed := validTicket()
		maxed.TransferCount = 1
		repo.On("GetByID", mock.Anything, uint(7)).Return(maxed, nil)

		_, err := svc.Transfer(context.Background(), 7, 100, "friend@example.com")
		assert.ErrorIs(t, err, ErrTransferLimitReached)

		repo.AssertNotCalled(t, "RecordTransfer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non transferable ticket", func(t *testing.T) {
		repo := new(MockTicketRepo)
		svc := NewService(repo, nil, Config{})

		locked := validTicket()
		locked.IsTransferable = false
		repo.On("GetByID", mock.Anything, uint(7)).Return(locked, nil)

		_, err := svc.Transfer(context.Background(), 7, 100, "friend@example.com")
		assert.ErrorIs(t, err, ErrNotTransferable)
	})

	t.Run("wrong owner", func(t *testing.T) {
		repo := new(MockTicketRepo)
		svc := NewService(repo, nil, Config{})

		repo.On("GetByID", mock.Anything, uint(7)).Return(validTicket(), nil)

		_, err := svc.Transfer(context.Background(), 7, 999, "friend@example.com")
		assert.ErrorIs(t, err, ErrNotOwner)
	})
}

func TestTicketService_Refund(t *testing.T) {
	t.Run("refund flips state and notifies", func(t *testing.T) {
		repo := new(MockTicketRepo)
		notifier := new(MockNotifier)
		svc := NewService(repo, notifier, Config{})

		repo.On("GetByID", mock.Anything, uint(7)).Return(validTicket(), nil)
		repo.On("MarkRefunded", mock.Anything, uint(7)).Return(true, nil)
		notifier.On("NotifyRefund", mock.Anything, mock.Anything, models.RefundTypeFull).Return(nil)

		res, err := svc.Refund(context.Background(), 7, models.RefundTypeFull)
		require.NoError(t, err)
		assert.Equal(t, models.TicketStatusRefunded, res.Ticket.Status)
		assert.True(t, res.Notified)

		notifier.AssertExpectations(t)
	})

	t.Run("used ticket is not refundable", func(t *testing.T) {
		repo := new(MockTicketRepo)
		svc := NewService(repo, nil, Config{})

		used := validTicket()
		used.Status = models.TicketStatusUsed
		repo.On("GetByID", mock.Anything, uint(7)).Return(used, nil)
		repo.On("MarkRefunded", mock.Anything, uint(7)).Return(false, nil)

		_, err := svc.Refund(context.Background(), 7, models.RefundTypeFull)
		assert.ErrorIs(t, err, ErrNotRefundable)
	})
}

func TestTicketService_Issue(t *testing.T) {
	issueParams := IssueParams{
		OrderID:         1,
		TicketTypeID:    2,
		EventID:         3,
		UserID:          100,
		Price:           4500,
		IsTransferable:  true,
		MaxTransfers:    2,
		PaymentIntentID: "pi_123",
	}

	t.Run("issued ticket persists its security hash", func(t *testing.T) {
		repo := new(MockTicketRepo)
		svc := NewService(repo, nil, Config{SigningSecret: "secret"})

		repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*models.TicketPurchase).ID = 7
		}).Return(nil)
		// The stored hash must be the one computed over the generated row ID,
		// not left at the insert-time zero value.
		wantHash := ticketcode.SecurityHash(7, 1, 100, "secret")
		repo.On("UpdateSecurityHash", mock.Anything, uint(7), wantHash).Return(nil)

		tp, err := svc.Issue(context.Background(), issueParams)
		require.NoError(t, err)
		assert.Equal(t, models.TicketStatusValid, tp.Status)
		assert.Equal(t, 0, tp.ScanCount)
		assert.NotEmpty(t, tp.QRCodeData)
		assert.Equal(t, wantHash, tp.SecurityHash)
		assert.Equal(t, 2, tp.MaxTransfers)

		repo.AssertExpectations(t)
	})

	t.Run("redelivered payment is not issued twice", func(t *testing.T) {
		repo := new(MockTicketRepo)
		svc := NewService(repo, nil, Config{SigningSecret: "secret"})

		repo.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrDuplicateTicket)

		_, err := svc.Issue(context.Background(), issueParams)
		assert.ErrorIs(t, err, ErrAlreadyIssued)

		repo.AssertNotCalled(t, "UpdateSecurityHash", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("payment reference is required", func(t *testing.T) {
		repo := new(MockTicketRepo)
		svc := NewService(repo, nil, Config{SigningSecret: "secret"})

		params := issueParams
		params.PaymentIntentID = ""
		_, err := svc.Issue(context.Background(), params)
		assert.ErrorIs(t, err, ErrMissingPaymentRef)

		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
