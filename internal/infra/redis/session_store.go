package redis

import (
	"context"
	"sync"
	"time"

	"dgca-prep-service/internal/app"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Live sessions stay in a local in-memory map: the state machine is
//     exclusively owned by one process for the lifetime of an attempt.
//   - Redis marks session liveness per user, so dashboards and other
//     instances can see who is mid-test.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Practice
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Practice),
	}
}

func (s *SessionStore) Put(p *app.Practice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[p.ID] = p
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(p.ID), p.UserID, s.ttl).Err()
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
	if _, ok := s.sessions[id]; !ok {
		return
	}
	delete(s.sessions, id)
	_ = s.client.Del(context.Background(), s.key(id)).Err()
}

func (s *SessionStore) key(id string) string {
	return "practice:session:" + id
}
