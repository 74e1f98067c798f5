package marketplace

import (
	"context"
	"time"

	"stagex/internal/models"
)

// ClaimResult reports a committed claim.
type ClaimResult struct {
	ClaimID            uint      `json:"claim_id"`
	Reference          string    `json:"reference"`
	OfferID            uint      `json:"offer_id"`
	OfferName          string    `json:"offer_name"`
	PointsSpent        int64     `json:"points_spent"`
	SpendTransactionID uint      `json:"spend_transaction_id"`
	ClaimedAt          time.Time `json:"claimed_at"`
}

// Cache is the cache surface for marketplace listings and the claimer's
// passport profile. A claim spends inside its own transaction, so the
// profile invalidation lives here rather than in the credit service.
type Cache interface {
	CacheOffers(ctx context.Context, category string, offers []models.RedemptionOffer) error
	GetOffers(ctx context.Context, category string) ([]models.RedemptionOffer, bool, error)
	InvalidateOffers(ctx context.Context) error
	InvalidateProfile(ctx context.Context, userID uint) error
}
