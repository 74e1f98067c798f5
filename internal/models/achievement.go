package models

import (
	"time"

	"gorm.io/gorm"
)

// Achievement criteria types
const (
	CriteriaEventsAttended   = "EVENTS_ATTENDED"
	CriteriaCountriesVisited = "COUNTRIES_VISITED"
	CriteriaTierReached      = "TIER_REACHED"
	CriteriaPointsEarned     = "POINTS_EARNED"
)

// Achievement is a static catalog entry evaluated against user aggregates.
type Achievement struct {
	gorm.Model
	Code         string `gorm:"uniqueIndex;not null"`
	Name         string `gorm:"not null"`
	Description  string
	CriteriaType string `gorm:"not null"`
	Threshold    int64  `gorm:"not null"` // count, or tier rank for TIER_REACHED
	CreditBonus  int64  `gorm:"not null;default:0"`
	Active       bool   `gorm:"not null;default:true"`
}

// AchievementUnlock records a per-user unlock. The composite unique index
// makes the unlock-and-earn step idempotent across retries.
type AchievementUnlock struct {
	gorm.Model
	UserID        uint      `gorm:"not null;uniqueIndex:idx_unlock_user_achievement"`
	AchievementID uint      `gorm:"not null;uniqueIndex:idx_unlock_user_achievement"`
	UnlockedAt    time.Time `gorm:"not null"`
}
