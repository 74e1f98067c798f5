package models

import (
	"time"

	"gorm.io/gorm"
)

// Loyalty tiers
const (
	TierBronze = "bronze"
	TierSilver = "silver"
	TierGold   = "gold"
	TierElite  = "elite"
)

// PassportProfile is the per-user loyalty state. TotalPoints is a running
// total maintained in the same transaction as every ledger insert; the
// CreditTransaction ledger remains the source of truth and the profile must
// reconcile to its sum. CurrentTier is a cache of a pure function of
// TotalPoints, never authoritative.
type PassportProfile struct {
	gorm.Model
	UserID         uint   `gorm:"uniqueIndex;not null"`
	TotalPoints    int64  `gorm:"not null;default:0"`
	LifetimeEarned int64  `gorm:"not null;default:0"`
	CurrentTier    string `gorm:"not null;default:'bronze'"`
	TotalEvents    int    `gorm:"not null;default:0"`
	TotalCountries int    `gorm:"not null;default:0"`
	QRData         string `gorm:"index"` // rotating signed check-in token
	QRIssuedAt     *time.Time
}

// Check-in methods
const (
	CheckInMethodCode = "CODE_ENTRY"
	CheckInMethodGeo  = "GEO_CHECKIN"
	CheckInMethodQR   = "QR_SCAN"
)

// CheckIn is one row per (user, event) successful check-in. The composite
// unique index is the sole guard against double-rewarding duplicates.
type CheckIn struct {
	gorm.Model
	UserID      uint   `gorm:"not null;uniqueIndex:idx_checkin_user_event"`
	EventID     uint   `gorm:"not null;uniqueIndex:idx_checkin_user_event"`
	Method      string `gorm:"not null"`
	CountryCode string
	CheckedInAt time.Time `gorm:"not null"`
}
