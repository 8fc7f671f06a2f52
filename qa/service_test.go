package qa

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	rows    map[string]Answer
	listErr error
	getErr  error
}

func (s *stubRepo) ListQuestions(_ context.Context) ([]string, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	questions := make([]string, 0, len(s.rows))
	for q := range s.rows {
		questions = append(questions, q)
	}
	return questions, nil
}

func (s *stubRepo) GetAnswer(_ context.Context, question string) (Answer, error) {
	if s.getErr != nil {
		return Answer{}, s.getErr
	}
	answer, ok := s.rows[question]
	if !ok {
		return Answer{}, ErrNotFound
	}
	return answer, nil
}

func TestLookupHit(t *testing.T) {
	repo := &stubRepo{rows: map[string]Answer{
		"what is your name": {Text: "I am a bot."},
	}}
	svc := NewService(repo, Config{})

	answer, res, ok, err := svc.Lookup(context.Background(), "What Is Your Name")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "I am a bot.", answer.Text)
	assert.Equal(t, "what is your name", res.Question)
	assert.GreaterOrEqual(t, res.Score, DefaultThreshold)
}

func TestLookupMissIsNotAnError(t *testing.T) {
	repo := &stubRepo{rows: map[string]Answer{
		"what is your name": {Text: "I am a bot."},
	}}
	svc := NewService(repo, Config{})

	_, _, ok, err := svc.Lookup(context.Background(), "explain general relativity")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLookupEmptyStore(t *testing.T) {
	svc := NewService(&stubRepo{rows: map[string]Answer{}}, Config{})

	_, _, ok, err := svc.Lookup(context.Background(), "anything at all")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLookupListError(t *testing.T) {
	repo := &stubRepo{listErr: errors.New("db down")}
	svc := NewService(repo, Config{})

	_, _, _, err := svc.Lookup(context.Background(), "anything")
	require.Error(t, err)
}

func TestLookupStaleMatchDegradesToMiss(t *testing.T) {
	repo := &stubRepo{
		rows:   map[string]Answer{"what is your name": {Text: "I am a bot."}},
		getErr: ErrNotFound,
	}
	svc := NewService(repo, Config{})

	_, _, ok, err := svc.Lookup(context.Background(), "what is your name")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewServiceDefaultThreshold(t *testing.T) {
	svc := NewService(&stubRepo{}, Config{Threshold: 0})
	assert.Equal(t, DefaultThreshold, svc.threshold)

	svc = NewService(&stubRepo{}, Config{Threshold: 90})
	assert.Equal(t, 90, svc.threshold)
}
