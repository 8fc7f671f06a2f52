package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/askbot/qa"
)

// QuestionRepository reads the stored question/answer rows.
type QuestionRepository struct {
	db *sqlx.DB
}

func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) ListQuestions(ctx context.Context) ([]string, error) {
	var questions []string
	err := r.db.SelectContext(ctx, &questions,
		`SELECT question FROM responses ORDER BY question`)
	if err != nil {
		return nil, fmt.Errorf("select questions: %w", err)
	}
	return questions, nil
}

func (r *QuestionRepository) GetAnswer(ctx context.Context, question string) (qa.Answer, error) {
	var row struct {
		Response string         `db:"response"`
		ImageURL sql.NullString `db:"image_url"`
	}
	err := r.db.GetContext(ctx, &row,
		`SELECT response, image_url FROM responses WHERE question = $1`, question)
	if errors.Is(err, sql.ErrNoRows) {
		return qa.Answer{}, qa.ErrNotFound
	}
	if err != nil {
		return qa.Answer{}, fmt.Errorf("select answer: %w", err)
	}
	return qa.Answer{Text: row.Response, ImageRef: row.ImageURL.String}, nil
}

func (r *QuestionRepository) CountQuestions(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT count(*) FROM responses`); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return count, nil
}
