package application

import (
	"context"
	"sync"

	"lottosim/domain/interfaces"
	"lottosim/domain/random"

	log "github.com/sirupsen/logrus"
)

// SessionManager hands out one session per key, typically a Discord channel
type SessionManager struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	source    random.Source
	publisher interfaces.EventPublisher
	cfg       SessionConfig
}

// NewSessionManager creates an empty manager
func NewSessionManager(source random.Source, publisher interfaces.EventPublisher, cfg SessionConfig) *SessionManager {
	return &SessionManager{
		sessions:  make(map[string]*Session),
		source:    source,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Get returns the session for id, creating it on first use
func (m *SessionManager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := NewSession(id, m.source, m.publisher, m.cfg)
	m.sessions[id] = s
	log.WithField("session_id", id).Debug("Created session")
	return s
}

// Lookup returns an existing session without creating one
func (m *SessionManager) Lookup(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Len returns the number of sessions
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// CloseAll stops every running draw and simulation
func (m *SessionManager) CloseAll(ctx context.Context) {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		if err := s.Close(ctx); err != nil {
			log.WithError(err).WithField("session_id", s.ID()).Warn("Failed to close session")
		}
	}
}
