package brewery

import (
	"fmt"
	"strings"

	"beerdash/domain/core"
)

// Row is a single beer record from the source table
type Row struct {
	Brewery string  `json:"brewery" db:"brewery"`
	Beer    string  `json:"beer" db:"beer"`
	ABV     float64 `json:"abv" db:"abv"`
}

// Stat is the per-brewery aggregate derived from the rows
type Stat struct {
	Brewery   string  `json:"brewery"`
	BeerCount int     `json:"beer_count"`
	AvgABV    float64 `json:"avg_abv"`
}

// Tier is the ABV bucket a brewery falls into
type Tier int

const (
	TierLow Tier = iota
	TierAvg
	TierHigh
)

// Tiers lists every tier in legend order
var Tiers = []Tier{TierLow, TierAvg, TierHigh}

// Label returns the display label used in the legend
func (t Tier) Label() string {
	switch t {
	case TierAvg:
		return "Avg ABV"
	case TierHigh:
		return "High ABV"
	default:
		return "Low ABV"
	}
}

// Color returns the bar color for the tier as a hex string
func (t Tier) Color() string {
	switch t {
	case TierAvg:
		return "#FF8C00" // DarkOrange
	case TierHigh:
		return "#006400" // DarkGreen
	default:
		return "#8B0000" // DarkRed
	}
}

func (t Tier) String() string { return t.Label() }

// MarshalText encodes the tier as its label
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.Label()), nil
}

// Entry is a brewery stat with its tier attached
type Entry struct {
	Stat
	Tier Tier `json:"tier"`
}

// Metric selects which stat drives the bar length
type Metric int

const (
	MetricBeerCount Metric = iota
	MetricAvgABV
)

// Metrics lists the selectable metrics in radio order
var Metrics = []Metric{MetricBeerCount, MetricAvgABV}

// Key returns the wire identifier of the metric
func (m Metric) Key() string {
	if m == MetricAvgABV {
		return "avg_abv"
	}
	return "beer_count"
}

// Label returns the human-readable metric name
func (m Metric) Label() string {
	if m == MetricAvgABV {
		return "Average ABV"
	}
	return "Number of Beers"
}

func (m Metric) String() string { return m.Label() }

// Value extracts the metric from a stat
func (m Metric) Value(s Stat) float64 {
	if m == MetricAvgABV {
		return s.AvgABV
	}
	return float64(s.BeerCount)
}

// MarshalText encodes the metric as its key
func (m Metric) MarshalText() ([]byte, error) {
	return []byte(m.Key()), nil
}

// UnmarshalText accepts either the key or the label
func (m *Metric) UnmarshalText(text []byte) error {
	parsed, err := ParseMetric(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMetric parses a metric from its key or label, case-insensitively
func ParseMetric(s string) (Metric, error) {
	v := strings.TrimSpace(s)
	for _, m := range Metrics {
		if strings.EqualFold(v, m.Key()) || strings.EqualFold(v, m.Label()) {
			return m, nil
		}
	}
	return MetricBeerCount, fmt.Errorf("%w: %q", core.ErrUnknownMetric, s)
}

// SelectionState is the user-chosen brewery subset and metric
type SelectionState struct {
	Breweries []string `json:"breweries"`
	Metric    Metric   `json:"metric"`
}

// Set returns the selected breweries as a lookup set
func (s SelectionState) Set() map[string]struct{} {
	set := make(map[string]struct{}, len(s.Breweries))
	for _, b := range s.Breweries {
		set[b] = struct{}{}
	}
	return set
}

// Clone returns a copy that shares no slice memory with s
func (s SelectionState) Clone() SelectionState {
	out := SelectionState{Metric: s.Metric, Breweries: make([]string, len(s.Breweries))}
	copy(out.Breweries, s.Breweries)
	return out
}
