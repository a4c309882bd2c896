package session

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marianozunino/uploadpro/internal/model"
)

// Manager owns the sessions of all visitors
type Manager struct {
	deps Deps
	ttl  time.Duration

	mu       sync.Mutex
	sessions map[string]*Session

	unsubscribe func()
}

// NewManager creates a manager whose sessions expire after ttl without requests.
// It follows settings changes so running countdowns pick up edited durations.
func NewManager(deps Deps, ttl time.Duration) *Manager {
	m := &Manager{
		deps:     deps,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
	if deps.Settings != nil {
		m.unsubscribe = deps.Settings.Subscribe(m.settingsChanged)
	}
	return m
}

// Get returns the session of a visitor, if it is still alive
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Create starts a session for a new visitor
func (m *Manager) Create(loc string) *Session {
	return m.Restore(uuid.NewString(), loc)
}

// Restore returns the session for id, creating a fresh one when it expired
func (m *Manager) Restore(id, loc string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := New(id, loc, m.deps)
	m.sessions[id] = s
	return s
}

// Len counts live sessions
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than the ttl and returns how many went
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if now.Sub(s.IdleSince()) > m.ttl {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	if len(expired) > 0 {
		log.Printf("Expired %d idle sessions", len(expired))
	}
	return len(expired)
}

// Close cancels the timers of every session and stops following settings
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

func (m *Manager) all() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

func (m *Manager) settingsChanged(old, updated model.AppState) {
	for _, s := range m.all() {
		s.SettingsChanged(old.Settings, updated.Settings)
	}
}
