package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"beerdash/adapters/api"
	"beerdash/adapters/excel"
	"beerdash/domain/core"
	"beerdash/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(source string) *config.Config {
	return &config.Config{
		Data: config.DataConfig{Source: source},
		Dashboard: config.DashboardConfig{
			DefaultBreweries: []string{"Big Muddy Brewing", "Moab Brewery"},
			SessionTTL:       time.Minute,
		},
		Chart: config.ChartConfig{Width: 800, Height: 600},
	}
}

func TestNewFileOrRemoteSource(t *testing.T) {
	src, err := NewFileOrRemoteSource(config.DataConfig{Source: "https://example.com/beers.csv"})
	require.NoError(t, err)
	assert.IsType(t, &api.RemoteReader{}, src)

	src, err = NewFileOrRemoteSource(config.DataConfig{Source: "data/beers.CSV"})
	require.NoError(t, err)
	assert.IsType(t, &excel.DataReader{}, src)

	src, err = NewFileOrRemoteSource(config.DataConfig{Source: "beers.xlsx"})
	require.NoError(t, err)
	assert.IsType(t, &excel.DataReader{}, src)

	_, err = NewFileOrRemoteSource(config.DataConfig{Source: "beers.parquet"})
	assert.ErrorIs(t, err, core.ErrUnsupportedSource)

	_, err = NewFileOrRemoteSource(config.DataConfig{Source: PostgresSource})
	assert.ErrorIs(t, err, core.ErrUnsupportedSource)
}

func TestLoadFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beers.csv")
	content := "brewery,beer,abv\nBig Muddy Brewing,Pale,0.05\nMoab Brewery,Stout,0.07\nMoab Brewery,Lager,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := New(testConfig(path))
	require.NoError(t, err)
	require.NoError(t, c.Load(context.Background()))

	assert.Equal(t, 2, c.Dashboard.Table().Len())
	assert.Equal(t, 1, c.Dashboard.Report().Rejected)

	s := c.Sessions.Create()
	assert.Equal(t, []string{"Big Muddy Brewing", "Moab Brewery"}, s.State().Breweries)
	assert.Len(t, s.Chart().Bars, 2)
	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestLoadEmptySourceIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beers.csv")
	require.NoError(t, os.WriteFile(path, []byte("brewery,beer,abv\n"), 0o644))

	c, err := New(testConfig(path))
	require.NoError(t, err)
	err = c.Load(context.Background())
	assert.ErrorIs(t, err, core.ErrEmptyInput)
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}
