package repositories

import (
	"context"
	"errors"
	"fmt"

	"stagex/internal/models"

	"gorm.io/gorm"
)

var ErrAlreadyUnlocked = errors.New("achievement already unlocked")

// AchievementRepository reads the static catalog and records per-user
// unlocks. CreateUnlock is idempotent through the composite unique index.
type AchievementRepository interface {
	ListActive(ctx context.Context) ([]models.Achievement, error)
	ListUnlocks(ctx context.Context, userID uint) ([]models.AchievementUnlock, error)
	CreateUnlock(ctx context.Context, unlock *models.AchievementUnlock) error
}

type achievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) ListActive(ctx context.Context) ([]models.Achievement, error) {
	var achievements []models.Achievement
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id ASC").
		Find(&achievements).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	return achievements, nil
}

func (r *achievementRepository) ListUnlocks(ctx context.Context, userID uint) ([]models.AchievementUnlock, error) {
	var unlocks []models.AchievementUnlock
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&unlocks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list unlocks: %w", err)
	}
	return unlocks, nil
}

func (r *achievementRepository) CreateUnlock(ctx context.Context, unlock *models.AchievementUnlock) error {
	if err := r.db.WithContext(ctx).Create(unlock).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyUnlocked
		}
		return fmt.Errorf("failed to create unlock: %w", err)
	}
	return nil
}
