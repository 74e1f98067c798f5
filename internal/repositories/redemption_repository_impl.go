package repositories

import (
	"context"
	"fmt"
	"time"

	"stagex/internal/models"

	"gorm.io/gorm"
)

type redemptionRepository struct {
	db *gorm.DB
}

func NewRedemptionRepository(db *gorm.DB) RedemptionRepository {
	return &redemptionRepository{db: db}
}

func (r *redemptionRepository) GetOffer(ctx context.Context, offerID uint) (*models.RedemptionOffer, error) {
	var offer models.RedemptionOffer
	if err := r.db.WithContext(ctx).First(&offer, offerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	return &offer, nil
}

func (r *redemptionRepository) ListOffers(ctx context.Context, category string) ([]models.RedemptionOffer, error) {
	query := r.db.WithContext(ctx).Where("active = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var offers []models.RedemptionOffer
	if err := query.Order("points_cost ASC").Find(&offers).Error; err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	return offers, nil
}

func (r *redemptionRepository) CreateOffer(ctx context.Context, offer *models.RedemptionOffer) error {
	if err := r.db.WithContext(ctx).Create(offer).Error; err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}
	return nil
}

func (r *redemptionRepository) ClaimAtomic(ctx context.Context, userID, offerID uint, reference string) (*models.Claim, error) {
	var claim *models.Claim
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var offer models.RedemptionOffer
		if err := tx.First(&offer, offerID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrOfferNotFound
			}
			return err
		}
		if !offer.Active {
			return ErrOfferNotFound
		}

		// Limited offers decrement conditionally; the guard re-checks
		// inventory so two claims racing for the last unit cannot both win.
		if offer.InventoryRemaining != nil {
			result := tx.Model(&models.RedemptionOffer{}).
				Where("id = ? AND inventory_remaining > 0", offerID).
				Update("inventory_remaining", gorm.Expr("inventory_remaining - 1"))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrOfferOutOfStock
			}
		}

		spendID, _, err := spendTx(tx, &models.CreditTransaction{
			UserID:      userID,
			Amount:      offer.PointsCost,
			Reason:      models.CreditReasonRedemption,
			Description: offer.Name,
			Reference:   reference,
		})
		if err != nil {
			return err
		}

		claim = &models.Claim{
			UserID:             userID,
			RedemptionOfferID:  offerID,
			SpendTransactionID: spendID,
			Reference:          reference,
			PointsSpent:        offer.PointsCost,
			ClaimedAt:          time.Now().UTC(),
		}
		return tx.Create(claim).Error
	})
	if err != nil {
		switch err {
		case ErrOfferNotFound, ErrOfferOutOfStock, ErrInsufficientBalance:
			return nil, err
		}
		return nil, fmt.Errorf("failed to claim offer: %w", err)
	}
	return claim, nil
}

func (r *redemptionRepository) ListClaims(ctx context.Context, userID uint) ([]models.Claim, error) {
	var claims []models.Claim
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("claimed_at DESC").
		Find(&claims).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	return claims, nil
}
