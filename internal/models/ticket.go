package models

import (
	"time"

	"gorm.io/gorm"
)

// Ticket statuses
const (
	TicketStatusValid     = "valid"
	TicketStatusUsed      = "used"
	TicketStatusRefunded  = "refunded"
	TicketStatusCancelled = "cancelled"
)

// Refund types
const (
	RefundTypeFull     = "full"
	RefundTypeEventRef = "event_cancelled"
)

// TicketPurchase is one row per sold or issued ticket. Rows are never
// deleted; refund and cancel are terminal statuses.
type TicketPurchase struct {
	gorm.Model
	TicketTypeID uint   `gorm:"not null;index"`
	EventID      uint   `gorm:"not null;index"`
	UserID       uint   `gorm:"not null;index"`
	OrderID      uint   `gorm:"not null;index:idx_ticket_order"`
	QRCodeData   string `gorm:"uniqueIndex;not null"` // opaque token embedded in the QR image
	SecurityHash string `gorm:"not null"`
	Status       string `gorm:"not null;default:'valid';index"`
	ScanCount    int    `gorm:"not null;default:0"`
	FirstScanAt  *time.Time
	LastScanAt   *time.Time

	IsTransferable bool `gorm:"not null;default:true"`
	TransferCount  int  `gorm:"not null;default:0"`
	MaxTransfers   int  `gorm:"not null;default:1"`

	Price           int64  `gorm:"not null"` // minor currency units
	PaymentIntentID string `gorm:"uniqueIndex;not null"`
	PurchaseDate    time.Time
}

// Transfer statuses
const (
	TransferStatusPending  = "pending"
	TransferStatusAccepted = "accepted"
	TransferStatusExpired  = "expired"
)

// TicketTransfer records a pending ownership handover. The acceptance
// workflow lives outside the engine; only the bookkeeping is here.
type TicketTransfer struct {
	gorm.Model
	TicketPurchaseID uint   `gorm:"not null;index"`
	FromUserID       uint   `gorm:"not null"`
	ToEmail          string `gorm:"not null"`
	Status           string `gorm:"not null;default:'pending'"`
	Reference        string `gorm:"uniqueIndex;not null"`
}
