package repositories

import (
	"context"
	"errors"

	"stagex/internal/models"
)

var ErrDuplicateCheckIn = errors.New("user already checked in for this event")

// CheckInRepository persists one row per (user, event) check-in. Create
// relies on the composite unique index: a duplicate insert comes back as
// ErrDuplicateCheckIn, which is the coordinator's idempotent no-op case.
type CheckInRepository interface {
	Create(ctx context.Context, checkIn *models.CheckIn) error
	CountByUser(ctx context.Context, userID uint) (int64, error)
	CountDistinctCountries(ctx context.Context, userID uint) (int64, error)
	ListByUser(ctx context.Context, userID uint) ([]models.CheckIn, error)
}
