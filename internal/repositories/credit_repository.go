package repositories

import (
	"context"
	"errors"
	"time"

	"stagex/internal/models"
)

var (
	ErrProfileNotFound     = errors.New("passport profile not found")
	ErrInsufficientBalance = errors.New("insufficient credit balance")
)

// CreditRepository owns the append-only credit ledger and the passport
// profile whose TotalPoints mirrors it as a running total. Earn and Spend
// update both inside one transaction; the ledger sum stays the source of
// truth and SumBalance reconciles against it.
type CreditRepository interface {
	// CreateEarn appends an EARN row and bumps the running total, returning
	// the new balance.
	CreateEarn(ctx context.Context, txn *models.CreditTransaction) (int64, error)

	// CreateSpend appends a SPEND row after row-locking the profile and
	// verifying the balance covers it; it returns ErrInsufficientBalance and
	// inserts nothing otherwise.
	CreateSpend(ctx context.Context, txn *models.CreditTransaction) (uint, int64, error)

	// SumBalance computes the balance directly from the ledger.
	SumBalance(ctx context.Context, userID uint) (int64, error)

	History(ctx context.Context, userID uint, limit, offset int) ([]models.CreditTransaction, error)

	GetProfile(ctx context.Context, userID uint) (*models.PassportProfile, error)
	GetOrCreateProfile(ctx context.Context, userID uint) (*models.PassportProfile, error)
	UpdateProfileTier(ctx context.Context, userID uint, tier string) error
	UpdateProfileQR(ctx context.Context, userID uint, qrData string, issuedAt time.Time) error
}
