package dataset

import "beerdash/domain/brewery"

// Tier boundaries; both ends belong to the Avg tier.
const (
	AvgTierMin = 0.05
	AvgTierMax = 0.06
)

// Categorize maps an average ABV to its tier. Defined for every float,
// NaN included (it lands in Low).
func Categorize(avgABV float64) brewery.Tier {
	switch {
	case avgABV > AvgTierMax:
		return brewery.TierHigh
	case avgABV >= AvgTierMin:
		return brewery.TierAvg
	default:
		return brewery.TierLow
	}
}
