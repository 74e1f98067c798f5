package repositories

import (
	"context"
	"errors"

	"stagex/internal/models"
)

var (
	ErrOfferNotFound   = errors.New("redemption offer not found")
	ErrOfferOutOfStock = errors.New("redemption offer out of stock")
)

// RedemptionRepository owns the marketplace inventory and claims.
// ClaimAtomic is the critical concurrency boundary: inventory decrement,
// SPEND insert and Claim insert commit together or not at all.
type RedemptionRepository interface {
	GetOffer(ctx context.Context, offerID uint) (*models.RedemptionOffer, error)
	ListOffers(ctx context.Context, category string) ([]models.RedemptionOffer, error)
	CreateOffer(ctx context.Context, offer *models.RedemptionOffer) error

	// ClaimAtomic decrements inventory (when limited) only while it is still
	// positive, spends the user's credits under the profile row lock, and
	// records the claim. Losers of the last-unit race get ErrOfferOutOfStock;
	// an uncovered balance gets ErrInsufficientBalance. Nothing persists on
	// either failure.
	ClaimAtomic(ctx context.Context, userID, offerID uint, reference string) (*models.Claim, error)

	ListClaims(ctx context.Context, userID uint) ([]models.Claim, error)
}
