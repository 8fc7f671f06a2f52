package state

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

// NewMemoryStore constructs an in-memory Store implementation for tests and development.
func NewMemoryStore() Store {
	return &memoryStore{
		sessions: make(map[int64]Session),
	}
}

// Load returns a copy of the stored session or ErrNotFound.
func (m *memoryStore) Load(_ context.Context, userID int64) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[userID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := sess
	return &copied, nil
}

// Save upserts the session keyed by its user id.
func (m *memoryStore) Save(_ context.Context, sess *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[sess.UserID] = *sess
	return nil
}
