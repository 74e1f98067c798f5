package loyalty

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"stagex/internal/models"
	"stagex/internal/repositories"
	"stagex/internal/services/credit"
	"stagex/internal/services/ticketcode"
)

// ErrInvalidToken covers forged, expired and superseded passport tokens.
var ErrInvalidToken = errors.New("passport token is invalid or expired")

// Config holds loyalty engine configuration.
type Config struct {
	// SigningSecret keys the rotating passport check-in token.
	SigningSecret string
}

type service struct {
	creditRepo      repositories.CreditRepository
	achievementRepo repositories.AchievementRepository
	checkInRepo     repositories.CheckInRepository
	creditSvc       credit.Service
	cache           ProfileCache
	config          Config
}

// NewService creates the tier and achievement engine. cache may be nil.
func NewService(
	creditRepo repositories.CreditRepository,
	achievementRepo repositories.AchievementRepository,
	checkInRepo repositories.CheckInRepository,
	creditSvc credit.Service,
	cache ProfileCache,
	config Config,
) Service {
	if creditRepo == nil || achievementRepo == nil || checkInRepo == nil {
		panic("loyalty repositories are required")
	}
	if creditSvc == nil {
		panic("credit service is required")
	}
	return &service{
		creditRepo:      creditRepo,
		achievementRepo: achievementRepo,
		checkInRepo:     checkInRepo,
		creditSvc:       creditSvc,
		cache:           cache,
		config:          config,
	}
}

func (s *service) Profile(ctx context.Context, userID uint) (*models.PassportProfile, error) {
	if s.cache != nil {
		if profile, found, err := s.cache.GetProfile(ctx, userID); err == nil && found {
			profile.CurrentTier = TierFor(profile.TotalPoints)
			return profile, nil
		}
	}

	profile, err := s.creditRepo.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	// The stored tier is a cache; recompute and repair it when stale.
	tier := TierFor(profile.TotalPoints)
	if profile.CurrentTier != tier {
		if err := s.creditRepo.UpdateProfileTier(ctx, userID, tier); err != nil {
			log.Printf("failed to refresh tier for user %d: %v", userID, err)
		}
		profile.CurrentTier = tier
	}

	if s.cache != nil {
		if err := s.cache.CacheProfile(ctx, profile); err != nil {
			log.Printf("failed to cache profile for user %d: %v", userID, err)
		}
	}
	return profile, nil
}

// EvaluateAchievements runs once over the catalog. Bonuses it pays out are
// themselves EARN rows, so predicates that depend on lifetime points pick
// them up on the next evaluation after that mutation commits.
func (s *service) EvaluateAchievements(ctx context.Context, userID uint) ([]UnlockedAchievement, error) {
	catalog, err := s.achievementRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(catalog) == 0 {
		return nil, nil
	}

	unlocks, err := s.achievementRepo.ListUnlocks(ctx, userID)
	if err != nil {
		return nil, err
	}
	unlocked := make(map[uint]bool, len(unlocks))
	for _, u := range unlocks {
		unlocked[u.AchievementID] = true
	}

	agg, err := s.loadAggregates(ctx, userID)
	if err != nil {
		return nil, err
	}

	var fresh []UnlockedAchievement
	for _, a := range catalog {
		if unlocked[a.ID] || !agg.satisfies(a) {
			continue
		}

		err := s.achievementRepo.CreateUnlock(ctx, &models.AchievementUnlock{
			UserID:        userID,
			AchievementID: a.ID,
			UnlockedAt:    time.Now().UTC(),
		})
		if err != nil {
			// A concurrent evaluation beat us to it; the unique unlock
			// record makes this a no-op, not a second bonus.
			if errors.Is(err, repositories.ErrAlreadyUnlocked) {
				continue
			}
			return fresh, err
		}

		if a.CreditBonus > 0 {
			_, err := s.creditSvc.Earn(ctx, userID, a.CreditBonus, models.CreditReasonAchievementBonus, a.Name)
			if err != nil {
				log.Printf("achievement %q unlocked but bonus earn failed for user %d: %v", a.Code, userID, err)
			}
		}

		fresh = append(fresh, UnlockedAchievement{Achievement: a, BonusEarned: a.CreditBonus})
	}

	if len(fresh) > 0 && s.cache != nil {
		if err := s.cache.InvalidateProfile(ctx, userID); err != nil {
			log.Printf("failed to invalidate profile cache for user %d: %v", userID, err)
		}
	}
	return fresh, nil
}

func (s *service) ListAchievements(ctx context.Context, userID uint) ([]AchievementStatus, error) {
	catalog, err := s.achievementRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	unlocks, err := s.achievementRepo.ListUnlocks(ctx, userID)
	if err != nil {
		return nil, err
	}
	unlocked := make(map[uint]bool, len(unlocks))
	for _, u := range unlocks {
		unlocked[u.AchievementID] = true
	}

	statuses := make([]AchievementStatus, 0, len(catalog))
	for _, a := range catalog {
		statuses = append(statuses, AchievementStatus{Achievement: a, Unlocked: unlocked[a.ID]})
	}
	return statuses, nil
}

func (s *service) RotateQR(ctx context.Context, userID uint) (string, error) {
	if _, err := s.creditRepo.GetOrCreateProfile(ctx, userID); err != nil {
		return "", fmt.Errorf("failed to load profile: %w", err)
	}

	now := time.Now().UTC()
	token := ticketcode.IssueToken(userID, now, s.config.SigningSecret)
	if err := s.creditRepo.UpdateProfileQR(ctx, userID, token, now); err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateProfile(ctx, userID); err != nil {
			log.Printf("failed to invalidate profile cache for user %d: %v", userID, err)
		}
	}
	return token, nil
}

func (s *service) ValidateQRToken(ctx context.Context, token string) (uint, error) {
	userID, err := ticketcode.VerifyToken(token, time.Now().UTC(), s.config.SigningSecret)
	if err != nil {
		return 0, ErrInvalidToken
	}

	profile, err := s.creditRepo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return 0, ErrInvalidToken
		}
		return 0, err
	}

	// Only one token is live per user: rotating stores the replacement, so
	// anything else fails even inside its signature window.
	if profile.QRData != token {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

type aggregates struct {
	events    int64
	countries int64
	lifetime  int64
	tierRank  int64
}

func (a aggregates) satisfies(ach models.Achievement) bool {
	switch ach.CriteriaType {
	case models.CriteriaEventsAttended:
		return a.events >= ach.Threshold
	case models.CriteriaCountriesVisited:
		return a.countries >= ach.Threshold
	case models.CriteriaPointsEarned:
		return a.lifetime >= ach.Threshold
	case models.CriteriaTierReached:
		return a.tierRank >= ach.Threshold
	default:
		return false
	}
}

func (s *service) loadAggregates(ctx context.Context, userID uint) (aggregates, error) {
	events, err := s.checkInRepo.CountByUser(ctx, userID)
	if err != nil {
		return aggregates{}, err
	}
	countries, err := s.checkInRepo.CountDistinctCountries(ctx, userID)
	if err != nil {
		return aggregates{}, err
	}
	profile, err := s.creditRepo.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return aggregates{}, err
	}
	return aggregates{
		events:    events,
		countries: countries,
		lifetime:  profile.LifetimeEarned,
		tierRank:  TierRank(TierFor(profile.TotalPoints)),
	}, nil
}
