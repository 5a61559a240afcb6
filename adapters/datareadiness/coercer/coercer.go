package coercer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"beerdash/domain/brewery"
	"beerdash/domain/core"
	"beerdash/ports"
)

// ColumnMap lists the accepted header names for each row field, matched
// case-insensitively
type ColumnMap struct {
	Brewery []string `json:"brewery"`
	Beer    []string `json:"beer"`
	ABV     []string `json:"abv"`
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	Columns          ColumnMap `json:"columns"`
	NormalizeStrings bool      `json:"normalize_strings"` // trim and collapse inner whitespace
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		Columns: ColumnMap{
			Brewery: []string{"brewery", "brewery_name", "brewer"},
			Beer:    []string{"beer", "beer_name", "name"},
			ABV:     []string{"abv", "alcohol", "alcohol_by_volume"},
		},
		NormalizeStrings: true,
	}
}

// Columns are the resolved header names for one source
type Columns struct {
	Brewery string
	Beer    string
	ABV     string
}

// RowCoercer turns raw string records into validated rows
type RowCoercer struct {
	config CoercionConfig
}

// NewRowCoercer creates a coercer with the given config
func NewRowCoercer(config CoercionConfig) *RowCoercer {
	return &RowCoercer{config: config}
}

// ResolveColumns finds the header used for each field
func (c *RowCoercer) ResolveColumns(headers []string) (Columns, error) {
	var cols Columns
	var err error
	if cols.Brewery, err = pick(headers, c.config.Columns.Brewery, "brewery"); err != nil {
		return cols, err
	}
	if cols.Beer, err = pick(headers, c.config.Columns.Beer, "beer"); err != nil {
		return cols, err
	}
	if cols.ABV, err = pick(headers, c.config.Columns.ABV, "abv"); err != nil {
		return cols, err
	}
	return cols, nil
}

func pick(headers, aliases []string, field string) (string, error) {
	for _, alias := range aliases {
		for _, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), alias) {
				return h, nil
			}
		}
	}
	return "", core.NewMissingColumnError(field)
}

// CoerceRecord validates one record. line is only used in error messages.
func (c *RowCoercer) CoerceRecord(cols Columns, record map[string]string, line int) (brewery.Row, error) {
	name := c.normalize(record[cols.Brewery])
	if name == "" {
		return brewery.Row{}, core.NewMalformedRowError(line, "missing brewery")
	}
	beer := c.normalize(record[cols.Beer])
	if beer == "" {
		return brewery.Row{}, core.NewMalformedRowError(line, "missing beer")
	}
	raw := strings.TrimSpace(record[cols.ABV])
	if raw == "" {
		return brewery.Row{}, core.NewMalformedRowError(line, "missing abv")
	}
	abv, ok := ParseABV(raw)
	if !ok {
		return brewery.Row{}, core.NewMalformedRowError(line, fmt.Sprintf("non-numeric abv %q", raw))
	}
	return brewery.Row{Brewery: name, Beer: beer, ABV: abv}, nil
}

// CoerceAll validates every record, collecting rejects in the report.
// firstLine is the line number of records[0] in the source.
func (c *RowCoercer) CoerceAll(source string, headers []string, records []map[string]string, firstLine int) (*ports.IngestResult, error) {
	cols, err := c.ResolveColumns(headers)
	if err != nil {
		return nil, err
	}

	result := &ports.IngestResult{
		Rows:   make([]brewery.Row, 0, len(records)),
		Report: ports.IngestReport{Source: source, Read: len(records)},
	}
	for i, rec := range records {
		row, err := c.CoerceRecord(cols, rec, firstLine+i)
		if err != nil {
			result.Report.Reject(err.Error())
			continue
		}
		result.Rows = append(result.Rows, row)
	}
	result.Report.Accepted = len(result.Rows)

	if len(result.Rows) == 0 {
		return result, fmt.Errorf("%w: %s produced %d rows, all rejected", core.ErrEmptyInput, source, len(records))
	}
	return result, nil
}

func (c *RowCoercer) normalize(s string) string {
	if !c.config.NormalizeStrings {
		return s
	}
	return strings.Join(strings.Fields(s), " ")
}

// ParseABV parses an ABV cell. Plain numbers are taken as fractions
// ("0.055"); a trailing percent sign is divided out ("5.5%" is 0.055).
// A lone comma is read as a decimal separator.
func ParseABV(raw string) (float64, bool) {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return 0, false
	}

	percent := false
	if strings.HasSuffix(clean, "%") {
		percent = true
		clean = strings.TrimSpace(strings.TrimSuffix(clean, "%"))
	}
	if strings.Contains(clean, ",") && !strings.Contains(clean, ".") {
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	val, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	if percent {
		val /= 100
	}
	return val, true
}
