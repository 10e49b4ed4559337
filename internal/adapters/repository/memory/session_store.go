// Package memory holds the in-process session store. Sessions are not
// persisted; a restart drops every running game.
package memory

import (
	"sync"

	"github.com/botornot/api/internal/core/domain"
	"github.com/botornot/api/internal/core/ports"
)

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*domain.Session
}

func NewSessionStore() ports.SessionStore {
	return &sessionStore{
		sessions: make(map[int64]*domain.Session),
	}
}

func (s *sessionStore) CreateOrReplace(chatID, adminID int64) *domain.Session {
	session := domain.NewSession(chatID, adminID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = session
	return session
}

func (s *sessionStore) Get(chatID int64) (*domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[chatID]
	return session, ok
}

func (s *sessionStore) Remove(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[chatID]
	delete(s.sessions, chatID)
	return ok
}

func (s *sessionStore) FindActiveFor(userID int64, phase domain.Phase) (int64, *domain.Session, bool) {
	s.mu.RLock()
	candidates := make(map[int64]*domain.Session, len(s.sessions))
	for chatID, session := range s.sessions {
		candidates[chatID] = session
	}
	s.mu.RUnlock()

	// Matches takes the session lock, so the scan happens outside the map
	// lock to keep store operations from stalling behind a busy session.
	for chatID, session := range candidates {
		if session.Matches(userID, phase) {
			return chatID, session, true
		}
	}
	return 0, nil, false
}
