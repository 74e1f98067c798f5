package repositories

import (
	"context"
	"fmt"

	"stagex/internal/models"

	"gorm.io/gorm"
)

type checkInRepository struct {
	db *gorm.DB
}

func NewCheckInRepository(db *gorm.DB) CheckInRepository {
	return &checkInRepository{db: db}
}

// Create inserts the check-in and refreshes the profile attendance
// aggregates in one transaction. The unique (user_id, event_id) index is
// the sole guard against double-rewarding concurrent duplicates.
func (r *checkInRepository) Create(ctx context.Context, checkIn *models.CheckIn) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(checkIn).Error; err != nil {
			return err
		}

		// A first check-in usually precedes any ledger activity, so the
		// profile row may not exist yet. lockProfile creates it on first use,
		// so the aggregate update below always matches a row.
		if _, err := lockProfile(tx, checkIn.UserID); err != nil {
			return err
		}

		var countries int64
		err := tx.Model(&models.CheckIn{}).
			Where("user_id = ? AND country_code <> ''", checkIn.UserID).
			Distinct("country_code").
			Count(&countries).Error
		if err != nil {
			return err
		}

		return tx.Model(&models.PassportProfile{}).
			Where("user_id = ?", checkIn.UserID).
			Updates(map[string]interface{}{
				"total_events":    gorm.Expr("total_events + 1"),
				"total_countries": countries,
			}).Error
	})
	if err != nil {
		if err == gorm.ErrDuplicatedKey {
			return ErrDuplicateCheckIn
		}
		return fmt.Errorf("failed to record check-in: %w", err)
	}
	return nil
}

func (r *checkInRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CheckIn{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count check-ins: %w", err)
	}
	return count, nil
}

func (r *checkInRepository) CountDistinctCountries(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CheckIn{}).
		Where("user_id = ? AND country_code <> ''", userID).
		Distinct("country_code").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count countries: %w", err)
	}
	return count, nil
}

func (r *checkInRepository) ListByUser(ctx context.Context, userID uint) ([]models.CheckIn, error) {
	var checkIns []models.CheckIn
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("checked_in_at DESC").
		Find(&checkIns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	return checkIns, nil
}
