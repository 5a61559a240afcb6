package dataset

import (
	"sort"

	"beerdash/domain/brewery"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the loaded dataset for the "Data Description" panel
type Summary struct {
	Beers        int            `json:"beers"`
	Breweries    int            `json:"breweries"`
	Rejected     int            `json:"rejected_rows"`
	MeanABV      float64        `json:"mean_abv"`
	MedianABV    float64        `json:"median_abv"`
	StdDevABV    float64        `json:"stddev_abv"`
	MinABV       float64        `json:"min_abv"`
	MaxABV       float64        `json:"max_abv"`
	TierCounts   map[string]int `json:"tier_counts"`
	LargestName  string         `json:"largest_brewery"`
	LargestBeers int            `json:"largest_brewery_beers"`
}

// TierCount is the number of breweries in one ABV tier
type TierCount struct {
	Label     string
	Breweries int
}

// OrderedTiers returns the tier counts in legend order
func (s Summary) OrderedTiers() []TierCount {
	out := make([]TierCount, 0, len(brewery.Tiers))
	for _, tier := range brewery.Tiers {
		out = append(out, TierCount{Label: tier.Label(), Breweries: s.TierCounts[tier.Label()]})
	}
	return out
}

// Summarize computes beer-level ABV statistics and brewery tier counts
func Summarize(rows []brewery.Row, t *Table) Summary {
	s := Summary{
		Beers:      len(rows),
		TierCounts: make(map[string]int, len(brewery.Tiers)),
	}
	for _, tier := range brewery.Tiers {
		s.TierCounts[tier.Label()] = 0
	}
	if t != nil {
		s.Breweries = t.Len()
		for _, e := range t.entries {
			s.TierCounts[e.Tier.Label()]++
			// ties keep the alphabetically first brewery
			if e.BeerCount > s.LargestBeers {
				s.LargestName = e.Brewery
				s.LargestBeers = e.BeerCount
			}
		}
	}
	if len(rows) == 0 {
		return s
	}

	abvs := make([]float64, len(rows))
	for i, r := range rows {
		abvs[i] = r.ABV
	}
	sort.Float64s(abvs)

	s.MeanABV = stat.Mean(abvs, nil)
	s.MedianABV = stat.Quantile(0.5, stat.Empirical, abvs, nil)
	if len(abvs) > 1 {
		s.StdDevABV = stat.StdDev(abvs, nil)
	}
	s.MinABV = floats.Min(abvs)
	s.MaxABV = floats.Max(abvs)
	return s
}
