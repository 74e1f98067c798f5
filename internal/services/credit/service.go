package credit

import (
	"context"
	"errors"
	"fmt"
	"log"

	"stagex/internal/models"
	"stagex/internal/repositories"
)

type service struct {
	repo  repositories.CreditRepository
	cache ProfileInvalidator
}

// NewService creates a new credit ledger service. cache may be nil.
func NewService(repo repositories.CreditRepository, cache ProfileInvalidator) Service {
	if repo == nil {
		panic("credit repo is required")
	}
	return &service{repo: repo, cache: cache}
}

// invalidateProfile drops the cached profile after a committed mutation.
// Every earn and spend changes the running total behind the cached copy.
func (s *service) invalidateProfile(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProfile(ctx, userID); err != nil {
		log.Printf("failed to invalidate profile cache for user %d: %v", userID, err)
	}
}

var validReasons = map[string]bool{
	models.CreditReasonCheckIn:          true,
	models.CreditReasonAchievementBonus: true,
	models.CreditReasonRedemption:       true,
	models.CreditReasonAdjustment:       true,
}

func (s *service) Earn(ctx context.Context, userID uint, amount int64, reason, description string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if !validReasons[reason] {
		return 0, ErrInvalidReason
	}

	balance, err := s.repo.CreateEarn(ctx, &models.CreditTransaction{
		UserID:      userID,
		Amount:      amount,
		Reason:      reason,
		Description: description,
	})
	if err != nil {
		return 0, fmt.Errorf("earn failed: %w", err)
	}
	s.invalidateProfile(ctx, userID)
	return balance, nil
}

func (s *service) Spend(ctx context.Context, userID uint, amount int64, reason, description string) (*SpendResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !validReasons[reason] {
		return nil, ErrInvalidReason
	}

	txID, balance, err := s.repo.CreateSpend(ctx, &models.CreditTransaction{
		UserID:      userID,
		Amount:      amount,
		Reason:      reason,
		Description: description,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrInsufficientBalance) {
			return nil, ErrInsufficientCredits
		}
		return nil, fmt.Errorf("spend failed: %w", err)
	}
	s.invalidateProfile(ctx, userID)
	return &SpendResult{TransactionID: txID, NewBalance: balance}, nil
}

func (s *service) BalanceOf(ctx context.Context, userID uint) (int64, error) {
	return s.repo.SumBalance(ctx, userID)
}

func (s *service) History(ctx context.Context, userID uint, limit, offset int) ([]models.CreditTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.History(ctx, userID, limit, offset)
}
