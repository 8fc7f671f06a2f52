package bot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"

	coretelegram "github.com/m3rciful/askbot/core/telegram"
	"github.com/m3rciful/askbot/core/telegram/router"
	"github.com/m3rciful/askbot/core/telegram/state"
	"github.com/m3rciful/askbot/qa"
)

type fakeContext struct {
	tele.Context
	sender *tele.User
	text   string
	store  map[string]any
	sent   []any
}

func newFakeContext(userID int64, text string) *fakeContext {
	return &fakeContext{
		sender: &tele.User{ID: userID},
		text:   text,
		store:  make(map[string]any),
	}
}

func (f *fakeContext) Sender() *tele.User      { return f.sender }
func (f *fakeContext) Chat() *tele.Chat        { return &tele.Chat{ID: f.sender.ID} }
func (f *fakeContext) Update() tele.Update     { return tele.Update{ID: 1} }
func (f *fakeContext) Text() string            { return f.text }
func (f *fakeContext) Get(key string) any      { return f.store[key] }
func (f *fakeContext) Set(key string, val any) { f.store[key] = val }

func (f *fakeContext) Send(what any, _ ...any) error {
	f.sent = append(f.sent, what)
	return nil
}

func (f *fakeContext) lastText(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.sent)
	text, ok := f.sent[len(f.sent)-1].(string)
	require.True(t, ok, "last send was not text: %T", f.sent[len(f.sent)-1])
	return text
}

func (f *fakeContext) lastPhoto(t *testing.T) *tele.Photo {
	t.Helper()
	require.NotEmpty(t, f.sent)
	photo, ok := f.sent[len(f.sent)-1].(*tele.Photo)
	require.True(t, ok, "last send was not a photo: %T", f.sent[len(f.sent)-1])
	return photo
}

type stubQuestions struct {
	rows map[string]qa.Answer
}

func (s *stubQuestions) ListQuestions(context.Context) ([]string, error) {
	questions := make([]string, 0, len(s.rows))
	for q := range s.rows {
		questions = append(questions, q)
	}
	return questions, nil
}

func (s *stubQuestions) GetAnswer(_ context.Context, question string) (qa.Answer, error) {
	answer, ok := s.rows[question]
	if !ok {
		return qa.Answer{}, qa.ErrNotFound
	}
	return answer, nil
}

func newTestApp(rows map[string]qa.Answer, store state.Store) *App {
	a := &App{
		cfg: &Config{},
		qa:  qa.NewService(&stubQuestions{rows: rows}, qa.Config{}),
		fsm: state.NewManager(store),
	}
	a.registerStates()
	return a
}

func mustState(t *testing.T, store state.Store, userID int64) *state.Session {
	t.Helper()
	sess, err := store.Load(context.Background(), userID)
	require.NoError(t, err)
	return sess
}

func TestStartAsksForName(t *testing.T) {
	store := state.NewMemoryStore()
	a := newTestApp(nil, store)

	fc := newFakeContext(1, "/start")
	require.NoError(t, a.handleStart(fc))

	assert.Equal(t, "Hi! What is your name?", fc.lastText(t))
	assert.Equal(t, StateAwaitingName, mustState(t, store, 1).State)
}

func TestNameFlowGreetsAndMovesToQuestions(t *testing.T) {
	store := state.NewMemoryStore()
	a := newTestApp(nil, store)

	require.NoError(t, a.handleStart(newFakeContext(1, "/start")))

	fc := newFakeContext(1, "Alice")
	handled, err := a.fsm.Dispatch(fc)
	require.NoError(t, err)
	require.True(t, handled)

	assert.Equal(t, "Nice to meet you, Alice! Ask me anything.", fc.lastText(t))
	sess := mustState(t, store, 1)
	assert.Equal(t, StateAwaitingQuestion, sess.State)
	assert.Equal(t, "Alice", sess.DisplayName)
}

func TestQuestionMatched(t *testing.T) {
	store := state.NewMemoryStore()
	a := newTestApp(map[string]qa.Answer{
		"what is your name": {Text: "I am askbot."},
	}, store)

	require.NoError(t, store.Save(context.Background(), &state.Session{
		UserID: 1, DisplayName: "Alice", State: StateAwaitingQuestion,
	}))

	fc := newFakeContext(1, "What is your NAME")
	handled, err := a.fsm.Dispatch(fc)
	require.NoError(t, err)
	require.True(t, handled)

	assert.Equal(t, "I am askbot. Alice.", fc.lastText(t))
	assert.Equal(t, StateAwaitingQuestion, mustState(t, store, 1).State)
}

func TestQuestionUnmatched(t *testing.T) {
	store := state.NewMemoryStore()
	a := newTestApp(map[string]qa.Answer{
		"what is your name": {Text: "I am askbot."},
	}, store)

	require.NoError(t, store.Save(context.Background(), &state.Session{
		UserID: 1, DisplayName: "Alice", State: StateAwaitingQuestion,
	}))

	fc := newFakeContext(1, "explain quantum chromodynamics in detail")
	handled, err := a.fsm.Dispatch(fc)
	require.NoError(t, err)
	require.True(t, handled)

	assert.Equal(t, "I don't understand that question, Alice.", fc.lastText(t))
}

func TestQuestionFallbackNameWhenUnnamed(t *testing.T) {
	store := state.NewMemoryStore()
	a := newTestApp(nil, store)

	require.NoError(t, store.Save(context.Background(), &state.Session{
		UserID: 1, State: StateAwaitingQuestion,
	}))

	fc := newFakeContext(1, "anything")
	handled, err := a.fsm.Dispatch(fc)
	require.NoError(t, err)
	require.True(t, handled)

	assert.Equal(t, "I don't understand that question, there.", fc.lastText(t))
}

func TestCommandTextNeverBecomesDisplayName(t *testing.T) {
	store := state.NewMemoryStore()
	a := newTestApp(nil, store)
	require.NoError(t, a.handleStart(newFakeContext(1, "/start")))

	reg := coretelegram.NewRegistry()
	routes := router.TextRoutes(a.fsm, reg, router.TextOptions{})
	require.Len(t, routes, 1)

	fc := newFakeContext(1, "/foo")
	require.NoError(t, routes[0].Handler(fc))
	assert.Empty(t, fc.sent)

	sess := mustState(t, store, 1)
	assert.Equal(t, StateAwaitingName, sess.State)
	assert.Empty(t, sess.DisplayName)
}

func TestTextWithoutSessionIsIgnored(t *testing.T) {
	a := newTestApp(nil, state.NewMemoryStore())

	fc := newFakeContext(1, "hello?")
	handled, err := a.fsm.Dispatch(fc)
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Empty(t, fc.sent)
}

func TestChangeNameFlow(t *testing.T) {
	store := state.NewMemoryStore()
	a := newTestApp(nil, store)

	require.NoError(t, store.Save(context.Background(), &state.Session{
		UserID: 1, DisplayName: "Alice", State: StateAwaitingQuestion,
	}))

	fc := newFakeContext(1, "/changename")
	require.NoError(t, a.handleChangeName(fc))
	assert.Equal(t, "What is your new name?", fc.lastText(t))
	assert.Equal(t, StateAwaitingNewName, mustState(t, store, 1).State)

	fc = newFakeContext(1, "Bob")
	handled, err := a.fsm.Dispatch(fc)
	require.NoError(t, err)
	require.True(t, handled)

	assert.Equal(t, "Got it, I will call you Bob from now on! Ask me anything.", fc.lastText(t))
	sess := mustState(t, store, 1)
	assert.Equal(t, StateAwaitingQuestion, sess.State)
	assert.Equal(t, "Bob", sess.DisplayName)
}

func TestChangeNameIgnoredWithoutSession(t *testing.T) {
	store := state.NewMemoryStore()
	a := newTestApp(nil, store)

	fc := newFakeContext(1, "/changename")
	require.NoError(t, a.handleChangeName(fc))
	assert.Empty(t, fc.sent)

	_, err := store.Load(context.Background(), 1)
	assert.ErrorIs(t, err, state.ErrNotFound)
}

func TestChangeNameIgnoredWhileAwaitingName(t *testing.T) {
	store := state.NewMemoryStore()
	a := newTestApp(nil, store)

	require.NoError(t, store.Save(context.Background(), &state.Session{
		UserID: 1, State: StateAwaitingName,
	}))

	fc := newFakeContext(1, "/changename")
	require.NoError(t, a.handleChangeName(fc))
	assert.Empty(t, fc.sent)
	assert.Equal(t, StateAwaitingName, mustState(t, store, 1).State)
}

func TestHelpDoesNotTouchState(t *testing.T) {
	store := state.NewMemoryStore()
	a := newTestApp(nil, store)

	require.NoError(t, store.Save(context.Background(), &state.Session{
		UserID: 1, DisplayName: "Alice", State: StateAwaitingName,
	}))

	fc := newFakeContext(1, "/help")
	require.NoError(t, a.handleHelp(fc))
	assert.Equal(t, "Help!", fc.lastText(t))
	assert.Equal(t, StateAwaitingName, mustState(t, store, 1).State)
}

func TestStartRestartsConversationKeepingName(t *testing.T) {
	store := state.NewMemoryStore()
	a := newTestApp(nil, store)

	require.NoError(t, store.Save(context.Background(), &state.Session{
		UserID: 1, DisplayName: "Alice", State: StateAwaitingQuestion,
	}))

	fc := newFakeContext(1, "/start")
	require.NoError(t, a.handleStart(fc))

	sess := mustState(t, store, 1)
	assert.Equal(t, StateAwaitingName, sess.State)
	assert.Equal(t, "Alice", sess.DisplayName)
}

func TestSessionsSurviveManagerRebuild(t *testing.T) {
	store := state.NewMemoryStore()
	a := newTestApp(nil, store)
	require.NoError(t, a.handleStart(newFakeContext(1, "/start")))

	rebuilt := newTestApp(nil, store)
	fc := newFakeContext(1, "Alice")
	handled, err := rebuilt.fsm.Dispatch(fc)
	require.NoError(t, err)
	require.True(t, handled)
	assert.Equal(t, "Nice to meet you, Alice! Ask me anything.", fc.lastText(t))
}

func TestAnswerWithURLImage(t *testing.T) {
	store := state.NewMemoryStore()
	a := newTestApp(map[string]qa.Answer{
		"show me a dog": {Text: "Here you go!", ImageRef: "https://example.com/dog.jpg"},
	}, store)

	require.NoError(t, store.Save(context.Background(), &state.Session{
		UserID: 1, DisplayName: "Alice", State: StateAwaitingQuestion,
	}))

	fc := newFakeContext(1, "show me a dog")
	handled, err := a.fsm.Dispatch(fc)
	require.NoError(t, err)
	require.True(t, handled)

	photo := fc.lastPhoto(t)
	assert.Equal(t, "https://example.com/dog.jpg", photo.File.FileURL)
	assert.Equal(t, "Here you go! \nHope my answer is reasonable, Alice.", photo.Caption)
}

func TestAnswerWithLocalImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cat.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpg"), 0o600))

	store := state.NewMemoryStore()
	a := newTestApp(map[string]qa.Answer{
		"show me a cat": {Text: "Here you go!", ImageRef: path},
	}, store)

	require.NoError(t, store.Save(context.Background(), &state.Session{
		UserID: 1, DisplayName: "Alice", State: StateAwaitingQuestion,
	}))

	fc := newFakeContext(1, "show me a cat")
	handled, err := a.fsm.Dispatch(fc)
	require.NoError(t, err)
	require.True(t, handled)

	photo := fc.lastPhoto(t)
	assert.Equal(t, path, photo.File.FileLocal)
	assert.Equal(t, "Here you go! Alice.", photo.Caption)
}

func TestAnswerWithMissingLocalImage(t *testing.T) {
	store := state.NewMemoryStore()
	a := newTestApp(map[string]qa.Answer{
		"show me a cat": {Text: "Here you go!", ImageRef: "/nonexistent/cat.jpg"},
	}, store)

	require.NoError(t, store.Save(context.Background(), &state.Session{
		UserID: 1, DisplayName: "Alice", State: StateAwaitingQuestion,
	}))

	fc := newFakeContext(1, "show me a cat")
	handled, err := a.fsm.Dispatch(fc)
	require.NoError(t, err)
	require.True(t, handled)

	assert.Equal(t, "Sorry, Alice, I couldn't find the image.", fc.lastText(t))
}
