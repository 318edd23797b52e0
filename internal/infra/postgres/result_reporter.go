package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"dgca-prep-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ResultReporter persists terminated sessions: one test_results row plus a
// user_progress upsert, in a single transaction.
type ResultReporter struct {
	pool *pgxpool.Pool
}

func NewResultReporter(pool *pgxpool.Pool) *ResultReporter {
	return &ResultReporter{pool: pool}
}

func (r *ResultReporter) Report(ctx context.Context, result domain.TestResult) error {
	answers, err := json.Marshal(result.Summary.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	attempted := 0
	for _, record := range result.Summary.Answers {
		if record.SelectedOptionIndex != domain.UnansweredIndex {
			attempted++
		}
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO test_results (id, user_id, topic_id, label, score, total_questions, elapsed_seconds, exited, answers, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		result.ID, result.UserID, result.BankID, result.Label,
		result.Summary.ScoreCorrect, result.Summary.TotalQuestions,
		result.Summary.ElapsedSeconds, result.Summary.WasExitedEarly,
		answers, result.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert test result: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO user_progress (user_id, tests_taken, questions_attempted, correct_answers, updated_at)
		VALUES ($1, 1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			tests_taken = user_progress.tests_taken + 1,
			questions_attempted = user_progress.questions_attempted + EXCLUDED.questions_attempted,
			correct_answers = user_progress.correct_answers + EXCLUDED.correct_answers,
			updated_at = EXCLUDED.updated_at`,
		result.UserID, attempted, result.Summary.ScoreCorrect, result.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert user progress: %w", err)
	}

	return tx.Commit(ctx)
}

// Progress returns the accumulated practice stats for a user.
func (r *ResultReporter) Progress(ctx context.Context, userID string) (domain.UserProgress, error) {
	var p domain.UserProgress
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, tests_taken, questions_attempted, correct_answers, updated_at
		FROM user_progress WHERE user_id=$1`, userID).
		Scan(&p.UserID, &p.TestsTaken, &p.QuestionsAttempted, &p.CorrectAnswers, &p.UpdatedAt)
	if err != nil {
		return domain.UserProgress{}, fmt.Errorf("load user progress: %w", err)
	}
	return p, nil
}
