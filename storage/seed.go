package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"gopkg.in/yaml.v3"

	"github.com/m3rciful/askbot/core/logger"
)

// SeedEntry mirrors one question in the YAML seed file.
type SeedEntry struct {
	Question string `yaml:"question"`
	Response string `yaml:"response"`
	Image    string `yaml:"image"`
}

// ParseSeed decodes and validates the seed payload. Questions are stored
// lowercased so lookups and seeds agree on casing.
func ParseSeed(data []byte) ([]SeedEntry, error) {
	var entries []SeedEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode seed yaml: %w", err)
	}
	for i := range entries {
		entries[i].Question = strings.ToLower(strings.TrimSpace(entries[i].Question))
		entries[i].Response = strings.TrimSpace(entries[i].Response)
		if entries[i].Question == "" || entries[i].Response == "" {
			return nil, fmt.Errorf("seed entry %d: question and response are required", i)
		}
	}
	return entries, nil
}

// QuestionSeeder loads a YAML file of question/answer pairs into the
// responses table on startup. Existing questions are left untouched.
type QuestionSeeder struct {
	Path string
}

func (s QuestionSeeder) Seed(ctx context.Context, db *sqlx.DB) error {
	if s.Path == "" {
		return nil
	}
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		logger.Info(ctx, "db.seed", "seed.skipped", slog.String("path", s.Path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	entries, err := ParseSeed(data)
	if err != nil {
		return err
	}

	inserted := 0
	for _, entry := range entries {
		res, err := db.ExecContext(ctx, `
			INSERT INTO responses (question, response, image_url)
			VALUES ($1, $2, NULLIF($3, ''))
			ON CONFLICT (question) DO NOTHING`,
			entry.Question, entry.Response, entry.Image)
		if err != nil {
			return fmt.Errorf("insert seed question %q: %w", entry.Question, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	logger.Info(ctx, "db.seed", "seed.complete",
		slog.String("path", s.Path),
		slog.Int("count", len(entries)),
		slog.Int("inserted", inserted),
	)
	return nil
}
