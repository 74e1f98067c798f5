package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log"

	appErrors "stagex/internal/errors"
	"stagex/internal/models"
	"stagex/internal/repositories"
	"stagex/internal/services/credit"

	"github.com/google/uuid"
)

var ErrOfferNotFound = errors.New("offer not found or inactive")

// Service is the redemption marketplace.
type Service interface {
	ListOffers(ctx context.Context, category string) ([]models.RedemptionOffer, error)
	Claim(ctx context.Context, userID, offerID uint) (*ClaimResult, error)
	ClaimHistory(ctx context.Context, userID uint) ([]models.Claim, error)
}

type service struct {
	redemptionRepo repositories.RedemptionRepository
	creditSvc      credit.Service
	cache          Cache
}

// NewService creates the marketplace. cache may be nil.
func NewService(redemptionRepo repositories.RedemptionRepository, creditSvc credit.Service, cache Cache) Service {
	if redemptionRepo == nil {
		panic("redemption repository is required")
	}
	if creditSvc == nil {
		panic("credit service is required")
	}
	return &service{
		redemptionRepo: redemptionRepo,
		creditSvc:      creditSvc,
		cache:          cache,
	}
}

func (s *service) ListOffers(ctx context.Context, category string) ([]models.RedemptionOffer, error) {
	if s.cache != nil {
		if offers, found, err := s.cache.GetOffers(ctx, category); err == nil && found {
			return offers, nil
		}
	}

	offers, err := s.redemptionRepo.ListOffers(ctx, category)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheOffers(ctx, category, offers); err != nil {
			log.Printf("failed to cache offers for category %q: %v", category, err)
		}
	}
	return offers, nil
}

func (s *service) Claim(ctx context.Context, userID, offerID uint) (*ClaimResult, error) {
	// Fail-fast pre-checks. The claim transaction re-verifies both stock
	// and balance, so these can be stale without risking correctness.
	offer, err := s.redemptionRepo.GetOffer(ctx, offerID)
	if err != nil {
		if errors.Is(err, repositories.ErrOfferNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to load offer: %w", err)
	}
	if !offer.Active {
		return nil, ErrOfferNotFound
	}
	if offer.InventoryRemaining != nil && *offer.InventoryRemaining <= 0 {
		return nil, appErrors.ErrOutOfStock
	}
	balance, err := s.creditSvc.BalanceOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance < offer.PointsCost {
		return nil, appErrors.ErrInsufficientCredits
	}

	reference := uuid.New().String()
	claim, err := s.redemptionRepo.ClaimAtomic(ctx, userID, offerID, reference)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrOfferOutOfStock):
			return nil, appErrors.ErrOutOfStock
		case errors.Is(err, repositories.ErrInsufficientBalance):
			return nil, appErrors.ErrInsufficientCredits
		case errors.Is(err, repositories.ErrOfferNotFound):
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to claim offer: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateOffers(ctx); err != nil {
			log.Printf("failed to invalidate offers cache: %v", err)
		}
		// The claim's spend ran inside ClaimAtomic, so the cached profile
		// still shows the pre-claim balance.
		if err := s.cache.InvalidateProfile(ctx, userID); err != nil {
			log.Printf("failed to invalidate profile cache for user %d: %v", userID, err)
		}
	}

	return &ClaimResult{
		ClaimID:            claim.ID,
		Reference:          claim.Reference,
		OfferID:            offerID,
		OfferName:          offer.Name,
		PointsSpent:        claim.PointsSpent,
		SpendTransactionID: claim.SpendTransactionID,
		ClaimedAt:          claim.ClaimedAt,
	}, nil
}

func (s *service) ClaimHistory(ctx context.Context, userID uint) ([]models.Claim, error) {
	return s.redemptionRepo.ListClaims(ctx, userID)
}
