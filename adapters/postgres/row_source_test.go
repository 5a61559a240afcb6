package postgres

import (
	"database/sql"
	"errors"
	"math"
	"testing"

	"beerdash/domain/brewery"
	"beerdash/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery(t *testing.T) {
	s := NewRowSource(nil, "craft.beers")
	assert.Equal(t, `SELECT id, brewery, beer, abv FROM "craft"."beers" ORDER BY id`, s.Query())
	assert.Equal(t, "postgres:craft.beers", s.Name())
}

func TestConvertRecords(t *testing.T) {
	str := func(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }
	num := func(f float64) sql.NullFloat64 { return sql.NullFloat64{Float64: f, Valid: true} }

	records := []beerRecord{
		{ID: 1, Brewery: str("X"), Beer: str("b1"), ABV: num(0.04)},
		{ID: 2, Brewery: str("X"), Beer: str("b2"), ABV: sql.NullFloat64{}},
		{ID: 3, Brewery: sql.NullString{}, Beer: str("b3"), ABV: num(0.08)},
		{ID: 4, Brewery: str("Y"), Beer: str(""), ABV: num(0.08)},
		{ID: 5, Brewery: str("Y"), Beer: str("b5"), ABV: num(0.08)},
	}

	result, err := convertRecords("postgres:beers", records)
	require.NoError(t, err)
	assert.Equal(t, []brewery.Row{
		{Brewery: "X", Beer: "b1", ABV: 0.04},
		{Brewery: "Y", Beer: "b5", ABV: 0.08},
	}, result.Rows)
	assert.Equal(t, 3, result.Report.Rejected)
	assert.Equal(t, []string{"id 2: missing abv", "id 3: missing brewery", "id 4: missing beer"}, result.Report.Problems)
}

func TestConvertRecordsRejectsNonFiniteABV(t *testing.T) {
	str := func(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }
	num := func(f float64) sql.NullFloat64 { return sql.NullFloat64{Float64: f, Valid: true} }

	records := []beerRecord{
		{ID: 1, Brewery: str("X"), Beer: str("b1"), ABV: num(math.NaN())},
		{ID: 2, Brewery: str("X"), Beer: str("b2"), ABV: num(math.Inf(1))},
		{ID: 3, Brewery: str("X"), Beer: str("b3"), ABV: num(math.Inf(-1))},
		{ID: 4, Brewery: str("X"), Beer: str("b4"), ABV: num(0.05)},
	}

	result, err := convertRecords("postgres:beers", records)
	require.NoError(t, err)
	assert.Equal(t, []brewery.Row{{Brewery: "X", Beer: "b4", ABV: 0.05}}, result.Rows)
	assert.Equal(t, 3, result.Report.Rejected)
	assert.Equal(t, 1, result.Report.Accepted)
	for _, p := range result.Report.Problems {
		assert.Contains(t, p, "non-numeric abv")
	}

	_, err = convertRecords("postgres:beers", records[:1])
	assert.True(t, errors.Is(err, core.ErrEmptyInput))
}

func TestConvertRecordsEmpty(t *testing.T) {
	_, err := convertRecords("postgres:beers", nil)
	assert.True(t, errors.Is(err, core.ErrEmptyInput))
}
