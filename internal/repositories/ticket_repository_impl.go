package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stagex/internal/models"

	"gorm.io/gorm"
)

type ticketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *models.TicketPurchase) error {
	if err := r.db.WithContext(ctx).Create(ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateTicket
		}
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

func (r *ticketRepository) UpdateSecurityHash(ctx context.Context, ticketID uint, hash string) error {
	err := r.db.WithContext(ctx).
		Model(&models.TicketPurchase{}).
		Where("id = ?", ticketID).
		Update("security_hash", hash).Error
	if err != nil {
		return fmt.Errorf("failed to store security hash: %w", err)
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id uint) (*models.TicketPurchase, error) {
	var ticket models.TicketPurchase
	if err := r.db.WithContext(ctx).First(&ticket, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return &ticket, nil
}

func (r *ticketRepository) GetByTicketOrder(ctx context.Context, ticketID, orderID uint) (*models.TicketPurchase, error) {
	var ticket models.TicketPurchase
	err := r.db.WithContext(ctx).
		Where("id = ? AND order_id = ?", ticketID, orderID).
		First(&ticket).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return &ticket, nil
}

func (r *ticketRepository) GetByUser(ctx context.Context, userID uint) ([]models.TicketPurchase, error) {
	var tickets []models.TicketPurchase
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

// MarkScanned is the compare-and-swap for the anti-replay guarantee: the
// WHERE clause only matches while status is still valid, so exactly one of
// any number of concurrent scanners gets RowsAffected = 1.
func (r *ticketRepository) MarkScanned(ctx context.Context, ticketID uint, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.TicketPurchase{}).
		Where("id = ? AND status = ?", ticketID, models.TicketStatusValid).
		Updates(map[string]interface{}{
			"status":        models.TicketStatusUsed,
			"scan_count":    1,
			"first_scan_at": at,
			"last_scan_at":  at,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark ticket scanned: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *ticketRepository) RecordTransfer(ctx context.Context, ticketID uint, transfer *models.TicketTransfer) (bool, error) {
	transferred := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.TicketPurchase{}).
			Where("id = ? AND status = ? AND is_transferable = ? AND transfer_count < max_transfers",
				ticketID, models.TicketStatusValid, true).
			Update("transfer_count", gorm.Expr("transfer_count + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		if err := tx.Create(transfer).Error; err != nil {
			return err
		}
		transferred = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to record transfer: %w", err)
	}
	return transferred, nil
}

func (r *ticketRepository) MarkRefunded(ctx context.Context, ticketID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.TicketPurchase{}).
		Where("id = ? AND status = ?", ticketID, models.TicketStatusValid).
		Update("status", models.TicketStatusRefunded)
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark ticket refunded: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}
