package models

import "gorm.io/gorm"

// Credit transaction types
const (
	CreditTypeEarn  = "EARN"
	CreditTypeSpend = "SPEND"
)

// Credit transaction reasons
const (
	CreditReasonCheckIn          = "check-in"
	CreditReasonAchievementBonus = "achievement-bonus"
	CreditReasonRedemption       = "redemption"
	CreditReasonAdjustment       = "adjustment"
)

// CreditTransaction is an append-only ledger entry. Entries are never
// mutated or deleted; corrections are issued as offsetting rows.
type CreditTransaction struct {
	gorm.Model
	UserID      uint   `gorm:"not null;index"`
	Amount      int64  `gorm:"not null"` // always positive; sign comes from Type
	Type        string `gorm:"not null;index"`
	Reason      string `gorm:"not null"`
	Description string
	Reference   string `gorm:"index"` // links related rows (claim reference, event id)
}
