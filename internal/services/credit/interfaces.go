package credit

import (
	"context"

	"stagex/internal/models"
)

// Service defines the credit ledger interface
type Service interface {
	// Earn appends an EARN row and returns the new balance.
	Earn(ctx context.Context, userID uint, amount int64, reason, description string) (int64, error)

	// Spend appends a SPEND row unless it would take the balance negative.
	Spend(ctx context.Context, userID uint, amount int64, reason, description string) (*SpendResult, error)

	// BalanceOf sums the user's ledger. The ledger, not the cached running
	// total, is the source of truth.
	BalanceOf(ctx context.Context, userID uint) (int64, error)

	History(ctx context.Context, userID uint, limit, offset int) ([]models.CreditTransaction, error)
}

// SpendResult reports a committed SPEND row.
type SpendResult struct {
	TransactionID uint  `json:"transaction_id"`
	NewBalance    int64 `json:"new_balance"`
}

// ProfileInvalidator drops the cached passport profile after a balance
// mutation so readers never see a stale total or tier past the mutation.
type ProfileInvalidator interface {
	InvalidateProfile(ctx context.Context, userID uint) error
}
