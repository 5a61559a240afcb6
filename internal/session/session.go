// Package session holds the per-client selection state. Each setter is one
// UI event and triggers exactly one chart recompute.
package session

import (
	"sync"
	"time"

	"beerdash/domain/brewery"
	"beerdash/domain/core"
	"beerdash/internal/chart"
)

// Pipeline recomputes the chart for a selection. It must be pure.
type Pipeline func(brewery.SelectionState) chart.Spec

// Session is one client's selection and the chart last built for it
type Session struct {
	id       core.SessionID
	pipeline Pipeline
	now      func() time.Time

	mu         sync.Mutex
	state      brewery.SelectionState
	current    chart.Spec
	recomputes int
	lastSeen   time.Time
}

// New creates a session and builds its initial chart
func New(id core.SessionID, initial brewery.SelectionState, pipeline Pipeline) *Session {
	return newSession(id, initial, pipeline, time.Now)
}

func newSession(id core.SessionID, initial brewery.SelectionState, pipeline Pipeline, now func() time.Time) *Session {
	s := &Session{
		id:       id,
		pipeline: pipeline,
		now:      now,
		state:    initial.Clone(),
		lastSeen: now(),
	}
	s.recomputeLocked()
	return s
}

// ID returns the session identifier
func (s *Session) ID() core.SessionID { return s.id }

// State returns a copy of the current selection
func (s *Session) State() brewery.SelectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Chart returns the chart built for the current selection
func (s *Session) Chart() chart.Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	return s.current
}

// SetSelectedBreweries replaces the brewery selection. Names are not
// checked against the table.
func (s *Session) SetSelectedBreweries(breweries []string) chart.Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Breweries = append([]string(nil), breweries...)
	return s.recomputeLocked()
}

// SetMetric replaces the metric
func (s *Session) SetMetric(m brewery.Metric) chart.Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Metric = m
	return s.recomputeLocked()
}

// Apply replaces the whole selection as a single event
func (s *Session) Apply(state brewery.SelectionState) chart.Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
	return s.recomputeLocked()
}

// Recomputes counts how many times the pipeline ran, the initial build included
func (s *Session) Recomputes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recomputes
}

func (s *Session) recomputeLocked() chart.Spec {
	s.current = s.pipeline(s.state.Clone())
	s.recomputes++
	s.lastSeen = s.now()
	return s.current
}

func (s *Session) idleSince(t time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t.Sub(s.lastSeen)
}
