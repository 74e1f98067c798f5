package models

import (
	"time"

	"gorm.io/gorm"
)

// Event is the catalog entry the engine reads; event CRUD itself lives with
// the catalog collaborator (seeded here for development).
type Event struct {
	gorm.Model
	Title           string `gorm:"not null"`
	Date            time.Time
	Location        string
	CountryCode     string `gorm:"size:2"`
	Latitude        float64
	Longitude       float64
	CheckInRadiusM  float64 `gorm:"not null;default:200"`
	PointsAwarded   int64   `gorm:"not null;default:0"`
	PassportEnabled bool    `gorm:"not null;default:false"`
	AccessCode      string  `gorm:"uniqueIndex"`
}

// TicketType describes a purchasable admission class for an event.
type TicketType struct {
	gorm.Model
	EventID        uint   `gorm:"not null;index"`
	Name           string `gorm:"not null"`
	Price          int64  `gorm:"not null"` // minor currency units
	IsTransferable bool   `gorm:"not null;default:true"`
	MaxTransfers   int    `gorm:"not null;default:1"`
}
