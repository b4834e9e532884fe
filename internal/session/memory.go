// Package session implements the session repository behind the dialogue
// engine. The memory backend is the default; the Redis backend survives
// restarts and can be shared by replicas.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/escalate-labs/escalatebot/internal/domain"
)

// MemoryStore keeps sessions in a process-local map. Entries older than the
// TTL are dropped lazily on read and swept by Janitor.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[int64]domain.Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates a MemoryStore with the given idle TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[int64]domain.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the user's session, or a fresh idle session when none exists
// or the stored one has gone stale.
func (s *MemoryStore) Get(_ context.Context, userID int64) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok || s.expired(sess) {
		return domain.Session{UserID: userID}, nil
	}
	return sess, nil
}

// Put stores the session, stamping UpdatedAt.
func (s *MemoryStore) Put(_ context.Context, sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.UpdatedAt = s.now()
	s.sessions[sess.UserID] = sess
	return nil
}

// Clear removes the user's session entirely.
func (s *MemoryStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}

// Janitor sweeps expired sessions every interval until ctx is done.
func (s *MemoryStore) Janitor(ctx context.Context, interval time.Duration) error {
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			s.sweep()
		}
	}
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
		}
	}
}

func (s *MemoryStore) expired(sess domain.Session) bool {
	return s.ttl > 0 && s.now().Sub(sess.UpdatedAt) > s.ttl
}

var _ domain.SessionStore = (*MemoryStore)(nil)
