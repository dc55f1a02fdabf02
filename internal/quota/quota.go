// Package quota holds the daily recommendation allowance per tier.
package quota

import "github.com/illegalcall/wardrobe/internal/models"

const (
	FreemiumDailyLimit = 3
	PremiumDailyLimit  = 8
)

// Limit returns the number of generation calls a tier may make per day.
func Limit(tier models.Tier) int {
	if tier == models.TierPremium {
		return PremiumDailyLimit
	}
	return FreemiumDailyLimit
}

// Status reports the quota of a tier after used calls. Remaining is floored at zero.
func Status(tier models.Tier, used int) models.QuotaStatus {
	limit := Limit(tier)
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	if tier == "" {
		tier = models.TierFreemium
	}
	return models.QuotaStatus{Used: used, Limit: limit, Remaining: remaining, Tier: tier}
}

// Allowed reports whether another generation call fits in the quota.
func Allowed(tier models.Tier, used int) bool {
	return used < Limit(tier)
}
