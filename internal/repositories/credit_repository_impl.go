package repositories

import (
	"context"
	"fmt"
	"time"

	"stagex/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type creditRepository struct {
	db *gorm.DB
}

func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &creditRepository{db: db}
}

// lockProfile loads the user's profile FOR UPDATE, creating it on first use.
// Every balance mutation for one user serializes on this row lock.
func lockProfile(tx *gorm.DB, userID uint) (*models.PassportProfile, error) {
	var profile models.PassportProfile
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err == gorm.ErrRecordNotFound {
		profile = models.PassportProfile{UserID: userID, CurrentTier: models.TierBronze}
		if err := tx.Create(&profile).Error; err != nil {
			return nil, err
		}
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// spendTx appends a SPEND row under the profile row lock. It is shared with
// the redemption repository so a claim's spend runs inside the claim's own
// transaction.
func spendTx(tx *gorm.DB, txn *models.CreditTransaction) (uint, int64, error) {
	profile, err := lockProfile(tx, txn.UserID)
	if err != nil {
		return 0, 0, err
	}
	if profile.TotalPoints < txn.Amount {
		return 0, 0, ErrInsufficientBalance
	}
	txn.Type = models.CreditTypeSpend
	if err := tx.Create(txn).Error; err != nil {
		return 0, 0, err
	}
	newBalance := profile.TotalPoints - txn.Amount
	err = tx.Model(&models.PassportProfile{}).
		Where("user_id = ?", txn.UserID).
		Update("total_points", newBalance).Error
	if err != nil {
		return 0, 0, err
	}
	return txn.ID, newBalance, nil
}

func (r *creditRepository) CreateEarn(ctx context.Context, txn *models.CreditTransaction) (int64, error) {
	var newBalance int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile, err := lockProfile(tx, txn.UserID)
		if err != nil {
			return err
		}
		txn.Type = models.CreditTypeEarn
		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		newBalance = profile.TotalPoints + txn.Amount
		return tx.Model(&models.PassportProfile{}).
			Where("user_id = ?", txn.UserID).
			Updates(map[string]interface{}{
				"total_points":    newBalance,
				"lifetime_earned": gorm.Expr("lifetime_earned + ?", txn.Amount),
			}).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to record earn: %w", err)
	}
	return newBalance, nil
}

func (r *creditRepository) CreateSpend(ctx context.Context, txn *models.CreditTransaction) (uint, int64, error) {
	var (
		txID       uint
		newBalance int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, balance, err := spendTx(tx, txn)
		if err != nil {
			return err
		}
		txID, newBalance = id, balance
		return nil
	})
	if err != nil {
		if err == ErrInsufficientBalance {
			return 0, 0, err
		}
		return 0, 0, fmt.Errorf("failed to record spend: %w", err)
	}
	return txID, newBalance, nil
}

func (r *creditRepository) SumBalance(ctx context.Context, userID uint) (int64, error) {
	var balance int64
	err := r.db.WithContext(ctx).
		Model(&models.CreditTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE -amount END), 0)", models.CreditTypeEarn).
		Scan(&balance).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum ledger: %w", err)
	}
	return balance, nil
}

func (r *creditRepository) History(ctx context.Context, userID uint, limit, offset int) ([]models.CreditTransaction, error) {
	var history []models.CreditTransaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get credit history: %w", err)
	}
	return history, nil
}

func (r *creditRepository) GetProfile(ctx context.Context, userID uint) (*models.PassportProfile, error) {
	var profile models.PassportProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (r *creditRepository) GetOrCreateProfile(ctx context.Context, userID uint) (*models.PassportProfile, error) {
	profile, err := r.GetProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if err != ErrProfileNotFound {
		return nil, err
	}
	created := &models.PassportProfile{UserID: userID, CurrentTier: models.TierBronze}
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		// Lost a concurrent creation race; the row exists now.
		if err == gorm.ErrDuplicatedKey {
			return r.GetProfile(ctx, userID)
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return created, nil
}

func (r *creditRepository) UpdateProfileTier(ctx context.Context, userID uint, tier string) error {
	err := r.db.WithContext(ctx).
		Model(&models.PassportProfile{}).
		Where("user_id = ?", userID).
		Update("current_tier", tier).Error
	if err != nil {
		return fmt.Errorf("failed to update tier: %w", err)
	}
	return nil
}

func (r *creditRepository) UpdateProfileQR(ctx context.Context, userID uint, qrData string, issuedAt time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.PassportProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"qr_data":      qrData,
			"qr_issued_at": issuedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to rotate passport QR: %w", err)
	}
	return nil
}
