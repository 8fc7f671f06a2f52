package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/m3rciful/askbot/core/logger"
	tghelpers "github.com/m3rciful/askbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Manager orchestrates durable user sessions and FSM state transitions.
// Handlers are registered per state; Dispatch routes an incoming update to
// the handler matching the sender's current state.
type Manager struct {
	store    Store
	handlers map[State]tele.HandlerFunc
}

// NewManager constructs a Manager backed by the given session store.
func NewManager(store Store) *Manager {
	return &Manager{
		store:    store,
		handlers: make(map[State]tele.HandlerFunc),
	}
}

// Handle associates a state with its handler.
func (m *Manager) Handle(st State, h tele.HandlerFunc) {
	if h == nil {
		return
	}
	m.handlers[st] = h
}

// Session loads the session for a user. It returns ErrNotFound when the user
// has never started a conversation.
func (m *Manager) Session(ctx context.Context, userID int64) (*Session, error) {
	sess, err := m.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Begin upserts the session into the given state, preserving a previously
// remembered display name. Used by conversation entry points.
func (m *Manager) Begin(ctx context.Context, userID int64, st State) (*Session, error) {
	sess, err := m.store.Load(ctx, userID)
	switch {
	case errors.Is(err, ErrNotFound):
		sess = &Session{UserID: userID}
	case err != nil:
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, m.Transition(ctx, sess, st)
}

// Transition moves the session into the given state and persists it.
// The save happens before any reply is sent, so a failed send never leaves
// the machine half-applied.
func (m *Manager) Transition(ctx context.Context, sess *Session, st State) error {
	if sess == nil {
		return errors.New("state: nil session")
	}
	prev := sess.State
	sess.State = st
	if err := m.store.Save(ctx, sess); err != nil {
		sess.State = prev
		return fmt.Errorf("save session: %w", err)
	}
	logger.Debug(ctx, "service.sessions", "fsm.transition",
		slog.String("status", "ok"),
		slog.Int64("user_id", sess.UserID),
		slog.String("state", string(st)),
	)
	return nil
}

// Dispatch routes the update to the handler registered for the sender's
// current state. It reports false when the user has no active conversation
// or no handler matches, leaving the update for the caller's fallbacks.
func (m *Manager) Dispatch(c tele.Context) (bool, error) {
	userID := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	sess, err := m.store.Load(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load session: %w", err)
	}

	handler, ok := m.handlers[sess.State]
	logger.Debug(ctx, "service.sessions", "fsm.dispatch",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("state", string(sess.State)),
		slog.Bool("matched", ok),
	)
	if !ok {
		return false, nil
	}

	stashSession(c, sess)
	return true, handler(c)
}
