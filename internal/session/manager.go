package session

import (
	"errors"
	"sync"
	"time"

	"elysoir/storefront/internal/concierge"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager is the registry of live storefront sessions, keyed by a random id.
type Manager struct {
	catalog   Catalog
	concierge concierge.Concierge
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(catalog Catalog, c concierge.Concierge) *Manager {
	return &Manager{
		catalog:   catalog,
		concierge: c,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString(), m.catalog, m.concierge, m.now)

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	log.Debugf("Session %s created", s.id)
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *Manager) Delete(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.Close()
	}
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Prune drops sessions idle for longer than maxIdle and returns how many.
func (m *Manager) Prune(maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	if len(stale) > 0 {
		log.Infof("🧹 Pruned %d idle sessions", len(stale))
	}
	return len(stale)
}
