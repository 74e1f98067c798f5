package models

import (
	"time"

	"gorm.io/gorm"
)

// RedemptionOffer is a marketplace entry. InventoryRemaining nil means
// unlimited stock; when set it never goes below zero and is only decremented
// inside the same transaction that records the SPEND.
type RedemptionOffer struct {
	gorm.Model
	Name               string `gorm:"not null"`
	Description        string
	Category           string `gorm:"index"`
	PointsCost         int64  `gorm:"not null"`
	InventoryRemaining *int
	Active             bool `gorm:"not null;default:true"`
	Metadata           JSON `gorm:"type:jsonb"`
}

// Claim links a user, an offer and the SPEND transaction that paid for it,
// for audit and fulfillment.
type Claim struct {
	gorm.Model
	UserID             uint      `gorm:"not null;index"`
	RedemptionOfferID  uint      `gorm:"not null;index"`
	SpendTransactionID uint      `gorm:"not null"`
	Reference          string    `gorm:"uniqueIndex;not null"`
	PointsSpent        int64     `gorm:"not null"`
	ClaimedAt          time.Time `gorm:"not null"`
}
