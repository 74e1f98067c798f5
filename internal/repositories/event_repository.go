package repositories

import (
	"context"
	"errors"
	"fmt"

	"stagex/internal/models"

	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

// EventRepository is the read-only catalog lookup the engine consumes.
// Event management itself belongs to the catalog collaborator.
type EventRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	GetByAccessCode(ctx context.Context, code string) (*models.Event, error)
	GetTicketType(ctx context.Context, id uint) (*models.TicketType, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

func (r *eventRepository) GetByAccessCode(ctx context.Context, code string) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).Where("access_code = ?", code).First(&event).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event by code: %w", err)
	}
	return &event, nil
}

func (r *eventRepository) GetTicketType(ctx context.Context, id uint) (*models.TicketType, error) {
	var tt models.TicketType
	if err := r.db.WithContext(ctx).First(&tt, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get ticket type: %w", err)
	}
	return &tt, nil
}
