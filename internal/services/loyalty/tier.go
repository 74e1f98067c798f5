package loyalty

import "stagex/internal/models"

// Tier thresholds in points. The persisted CurrentTier is only ever a cache
// of TierFor over TotalPoints.
const (
	SilverThreshold = 500
	GoldThreshold   = 1500
	EliteThreshold  = 3500
)

// TierFor maps a point total to its tier. Pure function of points alone.
func TierFor(points int64) string {
	switch {
	case points >= EliteThreshold:
		return models.TierElite
	case points >= GoldThreshold:
		return models.TierGold
	case points >= SilverThreshold:
		return models.TierSilver
	default:
		return models.TierBronze
	}
}

var tierRanks = map[string]int64{
	models.TierBronze: 1,
	models.TierSilver: 2,
	models.TierGold:   3,
	models.TierElite:  4,
}

// TierRank orders tiers for TIER_REACHED achievement predicates.
func TierRank(tier string) int64 {
	return tierRanks[tier]
}
