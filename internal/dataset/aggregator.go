// Package dataset derives the per-brewery table the dashboard draws from.
//
// The table is computed once from the source rows and is read-only
// afterwards; every chart redraw only filters it.
package dataset

import (
	"beerdash/domain/brewery"
	"beerdash/domain/core"

	"github.com/montanaflynn/stats"
)

// Aggregate reduces rows to one Stat per distinct brewery. BeerCount is the
// number of rows for the brewery and AvgABV the arithmetic mean of their abv.
func Aggregate(rows []brewery.Row) (map[string]brewery.Stat, error) {
	if len(rows) == 0 {
		return nil, core.ErrEmptyInput
	}

	groups := make(map[string]stats.Float64Data)
	for _, r := range rows {
		groups[r.Brewery] = append(groups[r.Brewery], r.ABV)
	}

	out := make(map[string]brewery.Stat, len(groups))
	for name, abvs := range groups {
		mean, err := stats.Mean(abvs)
		if err != nil {
			// only returned for empty input, which grouping rules out
			return nil, err
		}
		out[name] = brewery.Stat{
			Brewery:   name,
			BeerCount: abvs.Len(),
			AvgABV:    mean,
		}
	}
	return out, nil
}
