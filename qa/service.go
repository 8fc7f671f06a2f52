package qa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/askbot/core/logger"
)

const component = "service.qa"

// ErrNotFound is returned by repositories when a stored question has no row.
var ErrNotFound = errors.New("qa: answer not found")

// Answer is a stored reply, optionally carrying an image reference. The
// reference is either a remote URL or a path on the local filesystem.
type Answer struct {
	Text     string
	ImageRef string
}

// Repository provides read access to the stored question/answer pairs.
type Repository interface {
	ListQuestions(ctx context.Context) ([]string, error)
	GetAnswer(ctx context.Context, question string) (Answer, error)
}

// Config tunes the matching behaviour.
type Config struct {
	Threshold int    `yaml:"threshold" envconfig:"QA_THRESHOLD"`
	SeedFile  string `yaml:"seed_file" envconfig:"QA_SEED_FILE"`
}

// Service resolves free-text questions to stored answers by fuzzy matching.
type Service struct {
	repo      Repository
	threshold int
}

func NewService(repo Repository, cfg Config) *Service {
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Service{repo: repo, threshold: threshold}
}

// Lookup lowercases the query, scores it against every stored question and
// returns the answer of the best match when it clears the threshold. A miss
// is not an error: ok is false and the caller decides how to reply.
func (s *Service) Lookup(ctx context.Context, query string) (Answer, MatchResult, bool, error) {
	start := time.Now()

	questions, err := s.repo.ListQuestions(ctx)
	if err != nil {
		return Answer{}, MatchResult{}, false, fmt.Errorf("list questions: %w", err)
	}

	normalized := strings.ToLower(query)
	res, ok := Match(normalized, questions, s.threshold)

	if logger.ShouldSampleDebug() {
		logger.Debug(ctx, component, "qa.match.scored",
			slog.Int("candidates", len(questions)),
			slog.Int("score", res.Score),
			slog.Int("threshold", s.threshold),
		)
	}

	if !ok {
		logger.Info(ctx, component, "qa.lookup.miss",
			slog.Int("candidates", len(questions)),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return Answer{}, MatchResult{}, false, nil
	}

	answer, err := s.repo.GetAnswer(ctx, res.Question)
	if errors.Is(err, ErrNotFound) {
		// Matched question disappeared between list and read.
		logger.Warn(ctx, component, "qa.lookup.stale",
			slog.String("question", logger.Sanitize(res.Question)),
		)
		return Answer{}, MatchResult{}, false, nil
	}
	if err != nil {
		return Answer{}, MatchResult{}, false, fmt.Errorf("get answer: %w", err)
	}

	logger.Info(ctx, component, "qa.lookup.hit",
		slog.String("matched", logger.Sanitize(res.Question)),
		slog.Int("score", res.Score),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return answer, res, true, nil
}
