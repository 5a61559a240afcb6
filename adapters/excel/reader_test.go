package excel

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"beerdash/domain/brewery"
	"beerdash/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const beersCSV = `,count.x,abv,ibu,id,beer,style,brewery_id,ounces,brewery
0,1,0.05,,1436,Pub Beer,American Pale Lager,408,12.0,10 Barrel Brewing Company
1,2,0.066,,2265,Devil's Cup,American Pale Ale (APA),177,12.0,18th Street Brewery
2,3,,,2264,Rise of the Phoenix,American IPA,177,12.0,18th Street Brewery
3,4,0.09,,2263,Sinister,American Double / Imperial IPA,177,12.0,18th Street Brewery
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newReader(path string) *DataReader {
	cfg := DefaultExcelConfig()
	cfg.FilePath = path
	return NewDataReader(cfg)
}

func TestReadRowsCSV(t *testing.T) {
	r := newReader(writeFile(t, "beers.csv", beersCSV))

	result, err := r.ReadRows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []brewery.Row{
		{Brewery: "10 Barrel Brewing Company", Beer: "Pub Beer", ABV: 0.05},
		{Brewery: "18th Street Brewery", Beer: "Devil's Cup", ABV: 0.066},
		{Brewery: "18th Street Brewery", Beer: "Sinister", ABV: 0.09},
	}, result.Rows)
	assert.Equal(t, 4, result.Report.Read)
	assert.Equal(t, 1, result.Report.Rejected)
	assert.Contains(t, result.Report.Problems[0], "line 4")
}

func TestReadRowsXLSXMatchesCSV(t *testing.T) {
	csvData, err := ReadCSV(strings.NewReader(beersCSV))
	require.NoError(t, err)

	f := excelize.NewFile()
	header := make([]interface{}, len(csvData.Headers))
	for i, h := range csvData.Headers {
		header[i] = h
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range csvData.Rows {
		values := make([]interface{}, len(csvData.Headers))
		for j, h := range csvData.Headers {
			values[j] = row[h]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &values))
	}
	path := filepath.Join(t.TempDir(), "beers.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	fromXLSX, err := newReader(path).ReadRows(context.Background())
	require.NoError(t, err)
	fromCSV, err := newReader(writeFile(t, "beers.csv", beersCSV)).ReadRows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fromCSV.Rows, fromXLSX.Rows)
}

func TestReadRowsMissingFile(t *testing.T) {
	_, err := newReader(filepath.Join(t.TempDir(), "nope.csv")).ReadRows(context.Background())
	assert.Error(t, err)
}

func TestReadRowsHeaderOnly(t *testing.T) {
	_, err := newReader(writeFile(t, "empty.csv", "brewery,beer,abv\n")).ReadRows(context.Background())
	assert.True(t, errors.Is(err, core.ErrEmptyInput))
}

func TestReadRowsMissingColumn(t *testing.T) {
	_, err := newReader(writeFile(t, "cols.csv", "brewery,abv\nX,0.05\n")).ReadRows(context.Background())
	assert.True(t, errors.Is(err, core.ErrMissingColumn))
}

func TestWriteStats(t *testing.T) {
	entries := []brewery.Entry{
		{Stat: brewery.Stat{Brewery: "X", BeerCount: 2, AvgABV: 0.05}, Tier: brewery.TierAvg},
		{Stat: brewery.Stat{Brewery: "Y", BeerCount: 1, AvgABV: 0.08}, Tier: brewery.TierHigh},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteStats(&buf, entries))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(StatsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"brewery", "Number of Beers", "Average ABV", "abv_color"}, rows[0])
	assert.Equal(t, "X", rows[1][0])
	assert.Equal(t, "2", rows[1][1])
	assert.Equal(t, "High ABV", rows[2][3])
}
