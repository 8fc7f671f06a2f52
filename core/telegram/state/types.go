package state

import (
	"context"
	"errors"
)

// State identifies a finite-state-machine step used in conversations.
type State string

// Session stores conversation state and the remembered display name for a user.
type Session struct {
	UserID      int64
	DisplayName string
	State       State
}

// DisplayNameOr returns the remembered display name or fallback when none was recorded.
func (s *Session) DisplayNameOr(fallback string) string {
	if s == nil || s.DisplayName == "" {
		return fallback
	}
	return s.DisplayName
}

// ErrNotFound is returned by a Store when no session exists for a user.
var ErrNotFound = errors.New("state: session not found")

// Store persists sessions keyed by user id. Implementations must upsert on Save.
type Store interface {
	Load(ctx context.Context, userID int64) (*Session, error)
	Save(ctx context.Context, session *Session) error
}
