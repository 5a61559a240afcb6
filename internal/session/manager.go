package session

import (
	"context"
	"log"
	"sync"
	"time"

	"beerdash/domain/brewery"
	"beerdash/domain/core"
)

// Manager owns the live sessions. Sessions never share state.
type Manager struct {
	defaults brewery.SelectionState
	pipeline Pipeline
	ttl      time.Duration
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[core.SessionID]*Session
}

// NewManager creates a manager whose sessions start from defaults and
// expire after ttl without activity
func NewManager(defaults brewery.SelectionState, pipeline Pipeline, ttl time.Duration) *Manager {
	return &Manager{
		defaults: defaults.Clone(),
		pipeline: pipeline,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[core.SessionID]*Session),
	}
}

// Defaults returns the initial selection of new sessions
func (m *Manager) Defaults() brewery.SelectionState {
	return m.defaults.Clone()
}

// Create starts a new session with the default selection
func (m *Manager) Create() *Session {
	s := newSession(core.NewSessionID(), m.defaults, m.pipeline, m.now)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	log.Printf("[SessionManager] Created session %s", s.ID())
	return s
}

// Get returns a live session
func (m *Manager) Get(id core.SessionID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return s, nil
}

// GetOrCreate resolves a raw session ID, creating a fresh session when the
// ID is invalid, unknown or expired
func (m *Manager) GetOrCreate(raw string) (s *Session, created bool) {
	if id, err := core.ParseSessionID(raw); err == nil {
		if s, err := m.Get(id); err == nil {
			return s, false
		}
	}
	return m.Create(), true
}

// Delete ends a session
func (m *Manager) Delete(id core.SessionID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

// Len is the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep evicts sessions idle for longer than the TTL
func (m *Manager) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, s := range m.sessions {
		if s.idleSince(now) > m.ttl {
			delete(m.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		log.Printf("[SessionManager] Evicted %d idle sessions (%d live)", evicted, len(m.sessions))
	}
	return evicted
}

// Run sweeps periodically until ctx is done
func (m *Manager) Run(ctx context.Context) {
	interval := m.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
