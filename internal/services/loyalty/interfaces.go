package loyalty

import (
	"context"

	"stagex/internal/models"
)

// Service defines the tier and achievement engine interface
type Service interface {
	// Profile returns the passport profile with the tier recomputed from
	// the running point total; the stored tier is refreshed when stale.
	Profile(ctx context.Context, userID uint) (*models.PassportProfile, error)

	// EvaluateAchievements runs the predicate set against current
	// aggregates and unlocks (idempotently) anything newly satisfied,
	// crediting each achievement's bonus.
	EvaluateAchievements(ctx context.Context, userID uint) ([]UnlockedAchievement, error)

	// ListAchievements returns the catalog with the user's unlock state.
	ListAchievements(ctx context.Context, userID uint) ([]AchievementStatus, error)

	// RotateQR issues a fresh 24h passport token, replacing the previous
	// one.
	RotateQR(ctx context.Context, userID uint) (string, error)

	// ValidateQRToken verifies a presented passport token and returns the
	// user it belongs to. Only the most recently issued token is accepted.
	ValidateQRToken(ctx context.Context, token string) (uint, error)
}

// ProfileCache is the read-through cache surface for passport profiles.
type ProfileCache interface {
	CacheProfile(ctx context.Context, profile *models.PassportProfile) error
	GetProfile(ctx context.Context, userID uint) (*models.PassportProfile, bool, error)
	InvalidateProfile(ctx context.Context, userID uint) error
}

// UnlockedAchievement reports one fresh unlock from an evaluation pass.
type UnlockedAchievement struct {
	Achievement models.Achievement `json:"achievement"`
	BonusEarned int64              `json:"bonus_earned"`
}

// AchievementStatus pairs a catalog entry with the user's unlock state.
type AchievementStatus struct {
	Achievement models.Achievement `json:"achievement"`
	Unlocked    bool               `json:"unlocked"`
}
