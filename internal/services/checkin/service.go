package checkin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	appErrors "stagex/internal/errors"
	"stagex/internal/models"
	"stagex/internal/repositories"
	"stagex/internal/services/credit"
	"stagex/internal/services/loyalty"
)

var ErrUnsupportedMethod = errors.New("unsupported check-in method")

// Service coordinates passport check-ins.
type Service interface {
	CheckIn(ctx context.Context, callerID uint, req CheckInRequest) (*CheckInResult, error)
	History(ctx context.Context, userID uint) ([]models.CheckIn, error)
}

type service struct {
	checkInRepo repositories.CheckInRepository
	eventRepo   repositories.EventRepository
	creditSvc   credit.Service
	loyaltySvc  loyalty.Service
}

func NewService(
	checkInRepo repositories.CheckInRepository,
	eventRepo repositories.EventRepository,
	creditSvc credit.Service,
	loyaltySvc loyalty.Service,
) Service {
	if checkInRepo == nil || eventRepo == nil {
		panic("check-in repositories are required")
	}
	if creditSvc == nil || loyaltySvc == nil {
		panic("credit and loyalty services are required")
	}
	return &service{
		checkInRepo: checkInRepo,
		eventRepo:   eventRepo,
		creditSvc:   creditSvc,
		loyaltySvc:  loyaltySvc,
	}
}

func (s *service) CheckIn(ctx context.Context, callerID uint, req CheckInRequest) (*CheckInResult, error) {
	event, err := s.eventRepo.GetByAccessCode(ctx, strings.TrimSpace(req.EventCode))
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, appErrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to resolve event: %w", err)
	}
	if !event.PassportEnabled {
		return nil, appErrors.ErrPassportNotEnabled
	}

	// For QR_SCAN the caller is event staff; the checked-in user is whoever
	// the scanned passport token belongs to.
	userID := callerID
	switch req.Method {
	case models.CheckInMethodCode:
		// Resolving the event by its access code is the proof itself.
	case models.CheckInMethodGeo:
		distance := haversineDistanceM(req.Latitude, req.Longitude, event.Latitude, event.Longitude)
		if distance > event.CheckInRadiusM {
			return nil, appErrors.ErrOutOfRange
		}
	case models.CheckInMethodQR:
		tokenUserID, err := s.loyaltySvc.ValidateQRToken(ctx, req.QRToken)
		if err != nil {
			return nil, appErrors.ErrInvalidOrExpiredCode
		}
		userID = tokenUserID
	default:
		return nil, ErrUnsupportedMethod
	}

	now := time.Now().UTC()
	err = s.checkInRepo.Create(ctx, &models.CheckIn{
		UserID:      userID,
		EventID:     event.ID,
		Method:      req.Method,
		CountryCode: event.CountryCode,
		CheckedInAt: now,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateCheckIn) {
			return &CheckInResult{
				AlreadyCheckedIn: true,
				UserID:           userID,
				EventID:          event.ID,
				Method:           req.Method,
			}, nil
		}
		return nil, fmt.Errorf("failed to record check-in: %w", err)
	}

	result := &CheckInResult{
		UserID:        userID,
		EventID:       event.ID,
		Method:        req.Method,
		CheckedInAt:   now,
		PointsAwarded: event.PointsAwarded,
	}

	// The unique row above is the only double-reward guard; from here the
	// reward steps run once per (user, event) by construction.
	if event.PointsAwarded > 0 {
		balance, err := s.creditSvc.Earn(ctx, userID, event.PointsAwarded, models.CreditReasonCheckIn, event.Title)
		if err != nil {
			log.Printf("check-in recorded but earn failed for user %d event %d: %v", userID, event.ID, err)
			return result, nil
		}
		result.NewBalance = balance
	}

	unlocked, err := s.loyaltySvc.EvaluateAchievements(ctx, userID)
	if err != nil {
		log.Printf("achievement evaluation failed for user %d: %v", userID, err)
		return result, nil
	}
	for _, u := range unlocked {
		result.Unlocked = append(result.Unlocked, u.Achievement)
	}
	return result, nil
}

func (s *service) History(ctx context.Context, userID uint) ([]models.CheckIn, error) {
	return s.checkInRepo.ListByUser(ctx, userID)
}
