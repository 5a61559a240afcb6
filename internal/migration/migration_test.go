package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteTable(t *testing.T) {
	assert.Equal(t, `"beers"`, QuoteTable("beers"))
	assert.Equal(t, `"public"."beers"`, QuoteTable("public.beers"))
	assert.Equal(t, `"we""ird"`, QuoteTable(`we"ird`))
}

func TestStatements(t *testing.T) {
	r := NewRunner("public.beers")
	stmts := r.Statements()
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[0], `CREATE TABLE IF NOT EXISTS "public"."beers"`)
	assert.Contains(t, stmts[1], `"idx_public_beers_brewery"`)
	assert.Equal(t, "1.0.0", r.Version())
}
