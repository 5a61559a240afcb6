// Package chart builds the renderer-agnostic description of the brewery
// bar chart.
package chart

import (
	"sort"

	"beerdash/domain/brewery"
)

// Layout constants of the dashboard figure
const (
	Orientation       = "h"
	CategoryOrderAsc  = "total ascending"
	AxisFontSize      = 20
	BarTextFontSize   = 20
	LegendBorderColor = "black"
	LegendBorderWidth = 1
	LegendOrientation = "h"
	LegendXAnchor     = "left"
	LegendYAnchor     = "bottom"
	LegendX           = 0.0
	LegendY           = 1.0
)

// Bar is one horizontal bar
type Bar struct {
	Brewery   string  `json:"brewery"`
	Value     float64 `json:"value"`
	Tier      string  `json:"tier"`
	Color     string  `json:"color"`
	Text      string  `json:"text"`
	BeerCount int     `json:"beer_count"`
	AvgABV    float64 `json:"avg_abv"`
}

// Axis describes title and tick decoration of one axis
type Axis struct {
	Title          string `json:"title"`
	TitleFontSize  int    `json:"title_font_size,omitempty"`
	TickFontSize   int    `json:"tick_font_size,omitempty"`
	ShowTickLabels bool   `json:"show_tick_labels"`
	CategoryOrder  string `json:"category_order,omitempty"`
}

// LegendEntry is one tier in the legend
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Legend holds the entries in display order plus placement
type Legend struct {
	Title       string        `json:"title"`
	Entries     []LegendEntry `json:"entries"`
	Orientation string        `json:"orientation"`
	XAnchor     string        `json:"x_anchor"`
	YAnchor     string        `json:"y_anchor"`
	X           float64       `json:"x"`
	Y           float64       `json:"y"`
	BorderColor string        `json:"border_color"`
	BorderWidth int           `json:"border_width"`
}

// Margin in pixels
type Margin struct {
	Left   int `json:"l"`
	Right  int `json:"r"`
	Top    int `json:"t"`
	Bottom int `json:"b"`
}

// Spec is the full chart description handed to a renderer
type Spec struct {
	Orientation     string `json:"orientation"`
	Metric          string `json:"metric"`
	Bars            []Bar  `json:"bars"`
	ValueAxis       Axis   `json:"value_axis"`
	CategoryAxis    Axis   `json:"category_axis"`
	Legend          Legend `json:"legend"`
	Margin          Margin `json:"margin"`
	BarTextFontSize int    `json:"bar_text_font_size"`
}

// XAxisLabel is the value axis title
func (s Spec) XAxisLabel() string { return s.ValueAxis.Title }

// LegendOrder returns the legend labels in display order
func (s Spec) LegendOrder() []string {
	out := make([]string, len(s.Legend.Entries))
	for i, e := range s.Legend.Entries {
		out[i] = e.Label
	}
	return out
}

// Breweries returns the bar labels in display order
func (s Spec) Breweries() []string {
	out := make([]string, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Brewery
	}
	return out
}

// MaxValue is the largest bar value, 0 when there are no bars
func (s Spec) MaxValue() float64 {
	var max float64
	for _, b := range s.Bars {
		if b.Value > max {
			max = b.Value
		}
	}
	return max
}

// Build turns the filtered entries and metric into a Spec. Bars are sorted
// ascending by value; equal values keep their input order. The legend lists
// the tiers present in Low, Avg, High order.
func Build(entries []brewery.Entry, metric brewery.Metric) Spec {
	bars := make([]Bar, len(entries))
	present := make(map[brewery.Tier]bool, len(brewery.Tiers))
	for i, e := range entries {
		bars[i] = Bar{
			Brewery:   e.Brewery,
			Value:     metric.Value(e.Stat),
			Tier:      e.Tier.Label(),
			Color:     e.Tier.Color(),
			Text:      e.Brewery,
			BeerCount: e.BeerCount,
			AvgABV:    e.AvgABV,
		}
		present[e.Tier] = true
	}
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Value < bars[j].Value
	})

	legend := make([]LegendEntry, 0, len(present))
	for _, tier := range brewery.Tiers {
		if present[tier] {
			legend = append(legend, LegendEntry{Label: tier.Label(), Color: tier.Color()})
		}
	}

	return Spec{
		Orientation: Orientation,
		Metric:      metric.Key(),
		Bars:        bars,
		ValueAxis: Axis{
			Title:          metric.Label(),
			TitleFontSize:  AxisFontSize,
			TickFontSize:   AxisFontSize,
			ShowTickLabels: true,
		},
		CategoryAxis: Axis{
			ShowTickLabels: false,
			CategoryOrder:  CategoryOrderAsc,
		},
		Legend: Legend{
			Entries:     legend,
			Orientation: LegendOrientation,
			XAnchor:     LegendXAnchor,
			YAnchor:     LegendYAnchor,
			X:           LegendX,
			Y:           LegendY,
			BorderColor: LegendBorderColor,
			BorderWidth: LegendBorderWidth,
		},
		Margin:          Margin{},
		BarTextFontSize: BarTextFontSize,
	}
}
