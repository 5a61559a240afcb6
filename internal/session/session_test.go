package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"beerdash/domain/brewery"
	"beerdash/domain/core"
	"beerdash/internal/chart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingPipeline records every selection it is asked to render
type countingPipeline struct {
	mu    sync.Mutex
	calls []brewery.SelectionState
}

func (p *countingPipeline) render(sel brewery.SelectionState) chart.Spec {
	p.mu.Lock()
	p.calls = append(p.calls, sel)
	p.mu.Unlock()

	entries := make([]brewery.Entry, 0, len(sel.Breweries))
	for i, name := range sel.Breweries {
		entries = append(entries, brewery.Entry{
			Stat: brewery.Stat{Brewery: name, BeerCount: i + 1, AvgABV: 0.05},
			Tier: brewery.TierAvg,
		})
	}
	return chart.Build(entries, sel.Metric)
}

func (p *countingPipeline) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func defaults() brewery.SelectionState {
	return brewery.SelectionState{
		Breweries: []string{"Big Muddy Brewing", "Moab Brewery"},
		Metric:    brewery.MetricBeerCount,
	}
}

func TestNewSessionBuildsInitialChart(t *testing.T) {
	p := &countingPipeline{}
	s := New(core.NewSessionID(), defaults(), p.render)

	assert.Equal(t, 1, s.Recomputes())
	assert.Equal(t, 1, p.count())
	assert.Equal(t, defaults(), s.State())
	assert.Equal(t, "Number of Beers", s.Chart().XAxisLabel())
	assert.ElementsMatch(t, []string{"Big Muddy Brewing", "Moab Brewery"}, s.Chart().Breweries())
}

func TestSettersRecomputeOncePerCall(t *testing.T) {
	p := &countingPipeline{}
	s := New(core.NewSessionID(), defaults(), p.render)

	spec := s.SetSelectedBreweries([]string{"Moab Brewery", "Nowhere Brewing"})
	assert.Equal(t, 2, s.Recomputes())
	assert.Equal(t, []string{"Moab Brewery", "Nowhere Brewing"}, spec.Breweries())

	spec = s.SetMetric(brewery.MetricAvgABV)
	assert.Equal(t, 3, s.Recomputes())
	assert.Equal(t, "Average ABV", spec.XAxisLabel())

	s.Apply(brewery.SelectionState{Metric: brewery.MetricBeerCount})
	assert.Equal(t, 4, s.Recomputes())
	assert.Equal(t, 4, p.count())
	assert.Empty(t, s.Chart().Bars)
}

func TestStateIsIsolatedFromCaller(t *testing.T) {
	p := &countingPipeline{}
	s := New(core.NewSessionID(), defaults(), p.render)

	names := []string{"A", "B"}
	s.SetSelectedBreweries(names)
	names[0] = "mutated"
	assert.Equal(t, []string{"A", "B"}, s.State().Breweries)

	st := s.State()
	st.Breweries[1] = "mutated"
	assert.Equal(t, []string{"A", "B"}, s.State().Breweries)
}

func TestManagerSessionsAreIndependent(t *testing.T) {
	p := &countingPipeline{}
	m := NewManager(defaults(), p.render, time.Minute)

	a := m.Create()
	b := m.Create()
	require.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, m.Len())

	a.SetMetric(brewery.MetricAvgABV)
	assert.Equal(t, brewery.MetricAvgABV, a.State().Metric)
	assert.Equal(t, brewery.MetricBeerCount, b.State().Metric)

	got, err := m.Get(a.ID())
	require.NoError(t, err)
	assert.Same(t, a, got)
}

func TestManagerGetUnknown(t *testing.T) {
	m := NewManager(defaults(), (&countingPipeline{}).render, time.Minute)

	_, err := m.Get(core.NewSessionID())
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestManagerGetOrCreate(t *testing.T) {
	m := NewManager(defaults(), (&countingPipeline{}).render, time.Minute)

	s, created := m.GetOrCreate("not-a-uuid")
	assert.True(t, created)

	again, created := m.GetOrCreate(s.ID().String())
	assert.False(t, created)
	assert.Same(t, s, again)

	_, created = m.GetOrCreate(core.NewSessionID().String())
	assert.True(t, created)
	assert.Equal(t, 2, m.Len())
}

func TestManagerDelete(t *testing.T) {
	m := NewManager(defaults(), (&countingPipeline{}).render, time.Minute)
	s := m.Create()

	assert.True(t, m.Delete(s.ID()))
	assert.False(t, m.Delete(s.ID()))
	assert.Equal(t, 0, m.Len())
}

func TestManagerSweepEvictsIdleSessions(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(defaults(), (&countingPipeline{}).render, 10*time.Minute)
	m.now = func() time.Time { return now }

	idle := m.Create()
	now = now.Add(8 * time.Minute)
	active := m.Create()

	now = now.Add(5 * time.Minute)
	active.Chart()

	assert.Equal(t, 1, m.Sweep())
	_, err := m.Get(idle.ID())
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	_, err = m.Get(active.ID())
	assert.NoError(t, err)
}

func TestManagerRunStopsOnCancel(t *testing.T) {
	m := NewManager(defaults(), (&countingPipeline{}).render, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestConcurrentSetters(t *testing.T) {
	p := &countingPipeline{}
	s := New(core.NewSessionID(), defaults(), p.render)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				s.SetMetric(brewery.MetricAvgABV)
			} else {
				s.SetSelectedBreweries([]string{"A"})
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 21, s.Recomputes())
}
