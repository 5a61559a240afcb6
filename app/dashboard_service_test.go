package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"beerdash/domain/brewery"
	"beerdash/domain/core"
	"beerdash/internal/chart"
	"beerdash/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRowSource struct {
	mock.Mock
}

func (m *mockRowSource) Name() string { return "mock" }

func (m *mockRowSource) ReadRows(ctx context.Context) (*ports.IngestResult, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*ports.IngestResult)
	return res, args.Error(1)
}

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Render(ctx context.Context, spec chart.Spec, format ports.ImageFormat, w io.Writer) error {
	args := m.Called(ctx, spec, format)
	if err := args.Error(0); err != nil {
		return err
	}
	_, err := io.WriteString(w, "<svg/>")
	return err
}

func scenarioResult() *ports.IngestResult {
	return &ports.IngestResult{
		Rows: []brewery.Row{
			{Brewery: "X", Beer: "b1", ABV: 0.04},
			{Brewery: "X", Beer: "b2", ABV: 0.06},
			{Brewery: "Y", Beer: "b3", ABV: 0.08},
		},
		Report: ports.IngestReport{Source: "mock", Read: 4, Accepted: 3, Rejected: 1},
	}
}

func loadScenario(t *testing.T) *DashboardService {
	t.Helper()
	src := &mockRowSource{}
	src.On("ReadRows", mock.Anything).Return(scenarioResult(), nil).Once()

	svc, err := LoadDashboard(context.Background(), src, nil)
	require.NoError(t, err)
	src.AssertExpectations(t)
	return svc
}

func TestEndToEndScenario(t *testing.T) {
	svc := loadScenario(t)

	spec := svc.ChartSpec(brewery.SelectionState{
		Breweries: []string{"X", "Y"},
		Metric:    brewery.MetricBeerCount,
	})

	require.Len(t, spec.Bars, 2)
	assert.Equal(t, []string{"Y", "X"}, spec.Breweries())
	assert.Equal(t, 1.0, spec.Bars[0].Value)
	assert.Equal(t, 2.0, spec.Bars[1].Value)
	assert.Equal(t, brewery.TierHigh.Color(), spec.Bars[0].Color)
	assert.Equal(t, brewery.TierAvg.Color(), spec.Bars[1].Color)
	assert.Equal(t, []string{"Avg ABV", "High ABV"}, spec.LegendOrder())
	assert.Equal(t, "Number of Beers", spec.XAxisLabel())
}

func TestLoadDashboardDerivedData(t *testing.T) {
	svc := loadScenario(t)

	assert.Equal(t, []string{"X", "Y"}, svc.Options())
	assert.Len(t, svc.Stats(), 2)
	assert.Equal(t, 3, svc.RowCount())
	assert.Equal(t, 1, svc.Report().Rejected)

	sum := svc.Summary()
	assert.Equal(t, 3, sum.Beers)
	assert.Equal(t, 2, sum.Breweries)
	assert.Equal(t, 1, sum.Rejected)
}

func TestLoadDashboardEmptySource(t *testing.T) {
	src := &mockRowSource{}
	src.On("ReadRows", mock.Anything).Return(&ports.IngestResult{}, nil)

	_, err := LoadDashboard(context.Background(), src, nil)
	assert.True(t, errors.Is(err, core.ErrEmptyInput))
}

func TestLoadDashboardSourceError(t *testing.T) {
	boom := errors.New("connection refused")
	src := &mockRowSource{}
	src.On("ReadRows", mock.Anything).Return(nil, boom)

	_, err := LoadDashboard(context.Background(), src, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
}

func TestRenderIsPure(t *testing.T) {
	svc := loadScenario(t)
	sel := brewery.SelectionState{Breweries: []string{"Y", "Nowhere"}, Metric: brewery.MetricAvgABV}

	first := Render(sel, svc.Table())
	second := Render(sel, svc.Table())
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"Y"}, first.Breweries())
	assert.InDelta(t, 0.08, first.Bars[0].Value, 1e-9)
}

func TestEmptySelectionRendersEmptyChart(t *testing.T) {
	svc := loadScenario(t)

	spec := svc.ChartSpec(brewery.SelectionState{Metric: brewery.MetricAvgABV})
	assert.Empty(t, spec.Bars)
	assert.Empty(t, spec.LegendOrder())
	assert.Equal(t, "Average ABV", spec.XAxisLabel())
}

func TestSelectionHash(t *testing.T) {
	svc := loadScenario(t)
	a := brewery.SelectionState{Breweries: []string{"X", "Y"}}
	b := brewery.SelectionState{Breweries: []string{"Y", "X"}}

	assert.Equal(t, svc.SelectionHash(a, ports.FormatSVG), svc.SelectionHash(b, ports.FormatSVG))
	assert.NotEqual(t, svc.SelectionHash(a, ports.FormatSVG), svc.SelectionHash(a, ports.FormatPNG))
}

func TestRenderImage(t *testing.T) {
	r := &mockRenderer{}
	src := &mockRowSource{}
	src.On("ReadRows", mock.Anything).Return(scenarioResult(), nil)
	svc, err := LoadDashboard(context.Background(), src, r)
	require.NoError(t, err)

	spec := svc.ChartSpec(brewery.SelectionState{Breweries: []string{"X"}})
	r.On("Render", mock.Anything, spec, ports.FormatSVG).Return(nil).Once()

	var buf bytes.Buffer
	require.NoError(t, svc.RenderImage(context.Background(), spec, ports.FormatSVG, &buf))
	assert.Equal(t, "<svg/>", buf.String())
	r.AssertExpectations(t)

	r.On("Render", mock.Anything, spec, ports.FormatPNG).Return(errors.New("no font"))
	assert.Error(t, svc.RenderImage(context.Background(), spec, ports.FormatPNG, &buf))
}

func TestRenderImageWithoutRenderer(t *testing.T) {
	svc := loadScenario(t)
	err := svc.RenderImage(context.Background(), chart.Spec{}, ports.FormatSVG, io.Discard)
	assert.Error(t, err)
}
