package checkin

import (
	"time"

	"stagex/internal/models"
)

// CheckInRequest carries the event code, the method, and the proof for it.
type CheckInRequest struct {
	EventCode string  `json:"event_code"`
	Method    string  `json:"method"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	QRToken   string  `json:"qr_token,omitempty"`
}

// CheckInResult reports the outcome of a check-in attempt. AlreadyCheckedIn
// means the (user, event) pair existed before this call; nothing was awarded.
type CheckInResult struct {
	AlreadyCheckedIn bool                 `json:"already_checked_in"`
	UserID           uint                 `json:"user_id"`
	EventID          uint                 `json:"event_id"`
	Method           string               `json:"method"`
	CheckedInAt      time.Time            `json:"checked_in_at"`
	PointsAwarded    int64                `json:"points_awarded"`
	NewBalance       int64                `json:"new_balance,omitempty"`
	Unlocked         []models.Achievement `json:"unlocked,omitempty"`
}
