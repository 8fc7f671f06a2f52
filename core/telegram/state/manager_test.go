package state

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

type fakeCtx struct {
	tele.Context
	sender *tele.User
	store  map[string]any
	text   string
}

func newFakeCtx(userID int64, text string) *fakeCtx {
	return &fakeCtx{
		sender: &tele.User{ID: userID},
		store:  make(map[string]any),
		text:   text,
	}
}

func (f *fakeCtx) Sender() *tele.User            { return f.sender }
func (f *fakeCtx) Chat() *tele.Chat              { return &tele.Chat{ID: f.sender.ID} }
func (f *fakeCtx) Update() tele.Update           { return tele.Update{ID: 1} }
func (f *fakeCtx) Text() string                  { return f.text }
func (f *fakeCtx) Get(key string) any            { return f.store[key] }
func (f *fakeCtx) Set(key string, val any)       { f.store[key] = val }

type failingStore struct {
	Store
	saveErr error
}

func (s *failingStore) Save(_ context.Context, _ *Session) error { return s.saveErr }

func TestBeginCreatesSession(t *testing.T) {
	m := NewManager(NewMemoryStore())

	sess, err := m.Begin(context.Background(), 42, State("greeting"))
	require.NoError(t, err)
	assert.Equal(t, int64(42), sess.UserID)
	assert.Equal(t, State("greeting"), sess.State)

	loaded, err := m.Session(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, State("greeting"), loaded.State)
}

func TestBeginPreservesDisplayName(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), &Session{
		UserID:      42,
		DisplayName: "Alice",
		State:       State("idle"),
	}))

	m := NewManager(store)
	sess, err := m.Begin(context.Background(), 42, State("greeting"))
	require.NoError(t, err)
	assert.Equal(t, "Alice", sess.DisplayName)
	assert.Equal(t, State("greeting"), sess.State)
}

func TestSessionNotFound(t *testing.T) {
	m := NewManager(NewMemoryStore())

	_, err := m.Session(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransitionPersistsBeforeReturning(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store)

	sess, err := m.Begin(context.Background(), 1, State("a"))
	require.NoError(t, err)

	require.NoError(t, m.Transition(context.Background(), sess, State("b")))

	loaded, err := store.Load(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, State("b"), loaded.State)
}

func TestTransitionRollsBackOnSaveError(t *testing.T) {
	m := NewManager(&failingStore{saveErr: errors.New("disk full")})
	sess := &Session{UserID: 1, State: State("a")}

	err := m.Transition(context.Background(), sess, State("b"))
	require.Error(t, err)
	assert.Equal(t, State("a"), sess.State)
}

func TestDispatchRoutesByState(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store)

	var gotName string
	m.Handle(State("awaiting_name"), func(c tele.Context) error {
		sess, ok := SessionFrom(c)
		require.True(t, ok)
		gotName = c.Text()
		return m.Transition(context.Background(), sess, State("done"))
	})

	_, err := m.Begin(context.Background(), 9, State("awaiting_name"))
	require.NoError(t, err)

	handled, err := m.Dispatch(newFakeCtx(9, "Bob"))
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, "Bob", gotName)

	loaded, err := store.Load(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, State("done"), loaded.State)
}

func TestDispatchIgnoresUnknownUser(t *testing.T) {
	m := NewManager(NewMemoryStore())
	m.Handle(State("any"), func(tele.Context) error { return nil })

	handled, err := m.Dispatch(newFakeCtx(404, "hello"))
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestDispatchNoHandlerForState(t *testing.T) {
	m := NewManager(NewMemoryStore())
	_, err := m.Begin(context.Background(), 3, State("orphan"))
	require.NoError(t, err)

	handled, err := m.Dispatch(newFakeCtx(3, "hello"))
	require.NoError(t, err)
	assert.False(t, handled)
}
