package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/askbot/core/telegram/state"
)

// SessionStore persists conversation sessions in Postgres. It implements
// state.Store, so sessions survive restarts.
type SessionStore struct {
	db *sqlx.DB
}

func NewSessionStore(db *sqlx.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Load(ctx context.Context, userID int64) (*state.Session, error) {
	var row struct {
		UserID      int64          `db:"user_id"`
		DisplayName sql.NullString `db:"display_name"`
		State       string         `db:"state"`
	}
	err := s.db.GetContext(ctx, &row,
		`SELECT user_id, display_name, state FROM sessions WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, state.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}
	return &state.Session{
		UserID:      row.UserID,
		DisplayName: row.DisplayName.String,
		State:       state.State(row.State),
	}, nil
}

// Save upserts the whole session row. Last write wins.
func (s *SessionStore) Save(ctx context.Context, sess *state.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (user_id, display_name, state, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, now())
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			state        = EXCLUDED.state,
			updated_at   = now()`,
		sess.UserID, sess.DisplayName, string(sess.State))
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *SessionStore) CountSessions(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT count(*) FROM sessions`); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return count, nil
}
