package checkin

import (
	"context"
	"testing"

	appErrors "stagex/internal/errors"
	"stagex/internal/models"
	"stagex/internal/repositories"
	"stagex/internal/services/credit"
	"stagex/internal/services/loyalty"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockCheckInRepo struct {
	mock.Mock
}

func (m *MockCheckInRepo) Create(ctx context.Context, checkIn *models.CheckIn) error {
	args := m.Called(ctx, checkIn)
	return args.Error(0)
}

func (m *MockCheckInRepo) CountByUser(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCheckInRepo) CountDistinctCountries(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCheckInRepo) ListByUser(ctx context.Context, userID uint) ([]models.CheckIn, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CheckIn), args.Error(1)
}

type MockEventRepo struct {
	mock.Mock
}

func (m *MockEventRepo) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventRepo) GetByAccessCode(ctx context.Context, code string) (*models.Event, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventRepo) GetTicketType(ctx context.Context, id uint) (*models.TicketType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TicketType), args.Error(1)
}

type MockCreditService struct {
	mock.Mock
}

func (m *MockCreditService) Earn(ctx context.Context, userID uint, amount int64, reason, description string) (int64, error) {
	args := m.Called(ctx, userID, amount, reason, description)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCreditService) Spend(ctx context.Context, userID uint, amount int64, reason, description string) (*credit.SpendResult, error) {
	args := m.Called(ctx, userID, amount, reason, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credit.SpendResult), args.Error(1)
}

func (m *MockCreditService) BalanceOf(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCreditService) History(ctx context.Context, userID uint, limit, offset int) ([]models.CreditTransaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CreditTransaction), args.Error(1)
}

type MockLoyaltyService struct {
	mock.Mock
}

func (m *MockLoyaltyService) Profile(ctx context.Context, userID uint) (*models.PassportProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PassportProfile), args.Error(1)
}

func (m *MockLoyaltyService) EvaluateAchievements(ctx context.Context, userID uint) ([]loyalty.UnlockedAchievement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]loyalty.UnlockedAchievement), args.Error(1)
}

func (m *MockLoyaltyService) ListAchievements(ctx context.Context, userID uint) ([]loyalty.AchievementStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]loyalty.AchievementStatus), args.Error(1)
}

func (m *MockLoyaltyService) RotateQR(ctx context.Context, userID uint) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockLoyaltyService) ValidateQRToken(ctx context.Context, token string) (uint, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uint), args.Error(1)
}

func summerFest() *models.Event {
	return &models.Event{
		Model:           gorm.Model{ID: 7},
		Title:           "Summer Fest",
		CountryCode:     "PT",
		Latitude:        38.7223,
		Longitude:       -9.1393,
		CheckInRadiusM:  200,
		PointsAwarded:   60,
		PassportEnabled: true,
		AccessCode:      "SUMMER24",
	}
}

func newFixture() (*MockCheckInRepo, *MockEventRepo, *MockCreditService, *MockLoyaltyService, Service) {
	checkInRepo := new(MockCheckInRepo)
	eventRepo := new(MockEventRepo)
	creditSvc := new(MockCreditService)
	loyaltySvc := new(MockLoyaltyService)
	svc := NewService(checkInRepo, eventRepo, creditSvc, loyaltySvc)
	return checkInRepo, eventRepo, creditSvc, loyaltySvc, svc
}

func TestCheckInService_CodeEntry(t *testing.T) {
	t.Run("first check-in awards points and evaluates achievements", func(t *testing.T) {
		checkInRepo, eventRepo, creditSvc, loyaltySvc, svc := newFixture()

		eventRepo.On("GetByAccessCode", mock.Anything, "SUMMER24").Return(summerFest(), nil)
		checkInRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.CheckIn) bool {
			return c.UserID == 1 && c.EventID == 7 && c.Method == models.CheckInMethodCode && c.CountryCode == "PT"
		})).Return(nil)
		creditSvc.On("Earn", mock.Anything, uint(1), int64(60), models.CreditReasonCheckIn, "Summer Fest").Return(int64(560), nil)
		loyaltySvc.On("EvaluateAchievements", mock.Anything, uint(1)).Return([]loyalty.UnlockedAchievement{}, nil)

		result, err := svc.CheckIn(context.Background(), 1, CheckInRequest{
			EventCode: "SUMMER24",
			Method:    models.CheckInMethodCode,
		})
		require.NoError(t, err)
		assert.False(t, result.AlreadyCheckedIn)
		assert.Equal(t, int64(60), result.PointsAwarded)
		assert.Equal(t, int64(560), result.NewBalance)

		checkInRepo.AssertExpectations(t)
		creditSvc.AssertExpectations(t)
	})

	t.Run("duplicate check-in is a soft no-op with no reward", func(t *testing.T) {
		checkInRepo, eventRepo, creditSvc, loyaltySvc, svc := newFixture()

		eventRepo.On("GetByAccessCode", mock.Anything, "SUMMER24").Return(summerFest(), nil)
		checkInRepo.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrDuplicateCheckIn)

		result, err := svc.CheckIn(context.Background(), 1, CheckInRequest{
			EventCode: "SUMMER24",
			Method:    models.CheckInMethodCode,
		})
		require.NoError(t, err)
		assert.True(t, result.AlreadyCheckedIn)
		assert.Zero(t, result.PointsAwarded)

		creditSvc.AssertNotCalled(t, "Earn", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		loyaltySvc.AssertNotCalled(t, "EvaluateAchievements", mock.Anything, mock.Anything)
	})

	t.Run("unknown event code", func(t *testing.T) {
		_, eventRepo, _, _, svc := newFixture()

		eventRepo.On("GetByAccessCode", mock.Anything, "NOPE").Return(nil, repositories.ErrEventNotFound)

		_, err := svc.CheckIn(context.Background(), 1, CheckInRequest{
			EventCode: "NOPE",
			Method:    models.CheckInMethodCode,
		})
		assert.ErrorIs(t, err, appErrors.ErrEventNotFound)
	})

	t.Run("passport-disabled event rejects check-ins", func(t *testing.T) {
		_, eventRepo, _, _, svc := newFixture()

		event := summerFest()
		event.PassportEnabled = false
		eventRepo.On("GetByAccessCode", mock.Anything, "SUMMER24").Return(event, nil)

		_, err := svc.CheckIn(context.Background(), 1, CheckInRequest{
			EventCode: "SUMMER24",
			Method:    models.CheckInMethodCode,
		})
		assert.ErrorIs(t, err, appErrors.ErrPassportNotEnabled)
	})
}

func TestCheckInService_Geo(t *testing.T) {
	t.Run("inside the radius checks in", func(t *testing.T) {
		checkInRepo, eventRepo, creditSvc, loyaltySvc, svc := newFixture()

		eventRepo.On("GetByAccessCode", mock.Anything, "SUMMER24").Return(summerFest(), nil)
		checkInRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.CheckIn) bool {
			return c.Method == models.CheckInMethodGeo
		})).Return(nil)
		creditSvc.On("Earn", mock.Anything, uint(1), int64(60), models.CreditReasonCheckIn, "Summer Fest").Return(int64(60), nil)
		loyaltySvc.On("EvaluateAchievements", mock.Anything, uint(1)).Return([]loyalty.UnlockedAchievement{}, nil)

		// ~50m north of the venue.
		result, err := svc.CheckIn(context.Background(), 1, CheckInRequest{
			EventCode: "SUMMER24",
			Method:    models.CheckInMethodGeo,
			Latitude:  38.72275,
			Longitude: -9.1393,
		})
		require.NoError(t, err)
		assert.False(t, result.AlreadyCheckedIn)
	})

	t.Run("outside the radius is rejected before any insert", func(t *testing.T) {
		checkInRepo, eventRepo, _, _, svc := newFixture()

		eventRepo.On("GetByAccessCode", mock.Anything, "SUMMER24").Return(summerFest(), nil)

		// ~1.1km away.
		_, err := svc.CheckIn(context.Background(), 1, CheckInRequest{
			EventCode: "SUMMER24",
			Method:    models.CheckInMethodGeo,
			Latitude:  38.7323,
			Longitude: -9.1393,
		})
		assert.ErrorIs(t, err, appErrors.ErrOutOfRange)

		checkInRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCheckInService_QRScan(t *testing.T) {
	t.Run("staff scan checks in the token's owner", func(t *testing.T) {
		checkInRepo, eventRepo, creditSvc, loyaltySvc, svc := newFixture()

		eventRepo.On("GetByAccessCode", mock.Anything, "SUMMER24").Return(summerFest(), nil)
		loyaltySvc.On("ValidateQRToken", mock.Anything, "passport-token").Return(uint(42), nil)
		checkInRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.CheckIn) bool {
			return c.UserID == 42 && c.Method == models.CheckInMethodQR
		})).Return(nil)
		creditSvc.On("Earn", mock.Anything, uint(42), int64(60), models.CreditReasonCheckIn, "Summer Fest").Return(int64(60), nil)
		loyaltySvc.On("EvaluateAchievements", mock.Anything, uint(42)).Return([]loyalty.UnlockedAchievement{}, nil)

		// Caller 5 is the staff account; the reward goes to user 42.
		result, err := svc.CheckIn(context.Background(), 5, CheckInRequest{
			EventCode: "SUMMER24",
			Method:    models.CheckInMethodQR,
			QRToken:   "passport-token",
		})
		require.NoError(t, err)
		assert.Equal(t, uint(42), result.UserID)
	})

	t.Run("stale token rejected", func(t *testing.T) {
		checkInRepo, eventRepo, _, loyaltySvc, svc := newFixture()

		eventRepo.On("GetByAccessCode", mock.Anything, "SUMMER24").Return(summerFest(), nil)
		loyaltySvc.On("ValidateQRToken", mock.Anything, "stale").Return(uint(0), loyalty.ErrInvalidToken)

		_, err := svc.CheckIn(context.Background(), 5, CheckInRequest{
			EventCode: "SUMMER24",
			Method:    models.CheckInMethodQR,
			QRToken:   "stale",
		})
		assert.ErrorIs(t, err, appErrors.ErrInvalidOrExpiredCode)

		checkInRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCheckInService_UnsupportedMethod(t *testing.T) {
	_, eventRepo, _, _, svc := newFixture()

	eventRepo.On("GetByAccessCode", mock.Anything, "SUMMER24").Return(summerFest(), nil)

	_, err := svc.CheckIn(context.Background(), 1, CheckInRequest{
		EventCode: "SUMMER24",
		Method:    "CARRIER_PIGEON",
	})
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestHaversineDistance(t *testing.T) {
	// Lisbon to Porto is roughly 274km.
	d := haversineDistanceM(38.7223, -9.1393, 41.1579, -8.6291)
	assert.InDelta(t, 274000, d, 10000)

	assert.Zero(t, haversineDistanceM(38.7223, -9.1393, 38.7223, -9.1393))
}
