package memory

import (
	"sync"

	"dgca-prep-service/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Practice
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.Practice),
	}
}

func (s *SessionStore) Put(p *app.Practice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[p.ID] = p
}

func (s *SessionStore) Get(id string) (*app.Practice, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	practice, ok := s.sessions[id]
	return practice, ok
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
