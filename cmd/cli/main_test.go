package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"beerdash/domain/core"
	"beerdash/internal/chart"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const beersCSV = `brewery,beer,abv
Moab Brewery,Dead Horse,0.065
Big Muddy Brewing,Pale,0.055
Big Muddy Brewing,Stout,0.05
Anchor,Steam,0.049
`

// writeBeers writes the fixture CSV and clears environment the commands read
func writeBeers(t *testing.T) string {
	t.Helper()
	for _, key := range []string{"DATA_SOURCE", "PORT", "API_PORT", "DATABASE_URL", "DEFAULT_BREWERIES"} {
		t.Setenv(key, "")
	}
	t.Setenv("LOG_LEVEL", "ERROR")

	path := filepath.Join(t.TempDir(), "beers.csv")
	require.NoError(t, os.WriteFile(path, []byte(beersCSV), 0o644))
	return path
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTableCommand(t *testing.T) {
	source := writeBeers(t)

	out, err := run(t, newTableCmd(&source))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"BREWERY", "BEERS", "AVG", "ABV", "TIER"}, strings.Fields(lines[0]))

	// name order
	assert.True(t, strings.HasPrefix(lines[1], "Anchor "))
	assert.Contains(t, lines[1], "0.0490")
	assert.Contains(t, lines[1], "Low ABV")
	assert.True(t, strings.HasPrefix(lines[2], "Big Muddy Brewing "))
	assert.Contains(t, lines[2], "0.0525")
	assert.Contains(t, lines[2], "Avg ABV")
	assert.True(t, strings.HasPrefix(lines[3], "Moab Brewery "))
	assert.Contains(t, lines[3], "High ABV")
}

func TestTableCommandMissingFile(t *testing.T) {
	writeBeers(t)
	source := filepath.Join(t.TempDir(), "missing.csv")

	_, err := run(t, newTableCmd(&source))
	assert.Error(t, err)
}

func TestChartCommandSelection(t *testing.T) {
	source := writeBeers(t)

	out, err := run(t, newChartCmd(&source),
		"--brewery", "Moab Brewery", "--brewery", "Anchor", "--metric", "avg_abv")
	require.NoError(t, err)

	var spec chart.Spec
	require.NoError(t, json.Unmarshal([]byte(out), &spec))
	assert.Equal(t, "avg_abv", spec.Metric)
	assert.Equal(t, []string{"Anchor", "Moab Brewery"}, spec.Breweries())
	assert.InDelta(t, 0.049, spec.Bars[0].Value, 1e-9)
	assert.InDelta(t, 0.065, spec.Bars[1].Value, 1e-9)
	assert.Equal(t, []string{"Low ABV", "High ABV"}, spec.LegendOrder())
}

func TestChartCommandDefaults(t *testing.T) {
	source := writeBeers(t)

	out, err := run(t, newChartCmd(&source))
	require.NoError(t, err)

	var spec chart.Spec
	require.NoError(t, json.Unmarshal([]byte(out), &spec))
	assert.Equal(t, "beer_count", spec.Metric)
	assert.Equal(t, []string{"Moab Brewery", "Big Muddy Brewing"}, spec.Breweries())
}

func TestChartCommandSVGToFile(t *testing.T) {
	source := writeBeers(t)
	output := filepath.Join(t.TempDir(), "chart.svg")

	out, err := run(t, newChartCmd(&source), "--format", "svg", "-o", output)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestChartCommandRejectsBadFlags(t *testing.T) {
	source := writeBeers(t)

	_, err := run(t, newChartCmd(&source), "--metric", "ibu")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownMetric)

	_, err = run(t, newChartCmd(&source), "--format", "gif")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")

	_, err = run(t, newChartCmd(&source), "--format", "png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output")
}

func TestSummaryCommand(t *testing.T) {
	source := writeBeers(t)

	out, err := run(t, newSummaryCmd(&source))
	require.NoError(t, err)
	assert.Contains(t, out, "Beers: 4\nBreweries: 3\n")
	assert.Contains(t, out, "Low ABV: 1 breweries\nAvg ABV: 1 breweries\nHigh ABV: 1 breweries\n")
	assert.Contains(t, out, "Most beers: Big Muddy Brewing (2)")
}
