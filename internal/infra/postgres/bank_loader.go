package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"dgca-prep-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// BankLoader assembles question banks from the normalized question tables.
// A bank ID is a topic ID; the bank label is the topic name.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

func (l *BankLoader) LoadBank(ctx context.Context, bankID string) (domain.QuestionBank, error) {
	var label string
	err := l.pool.QueryRow(ctx, `SELECT name FROM topics WHERE id=$1`, bankID).Scan(&label)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuestionBank{}, domain.ErrBankNotFound
	}
	if err != nil {
		return domain.QuestionBank{}, fmt.Errorf("load topic: %w", err)
	}

	rows, err := l.pool.Query(ctx, `
		SELECT id, prompt, options, correct_option, COALESCE(explanation, ''), difficulty
		FROM questions
		WHERE topic_id=$1
		ORDER BY created_at, id`, bankID)
	if err != nil {
		return domain.QuestionBank{}, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	bank := domain.QuestionBank{ID: bankID, Label: label}
	for rows.Next() {
		var (
			q       domain.Question
			rawOpts []byte
		)
		if err := rows.Scan(&q.ID, &q.Prompt, &rawOpts, &q.CorrectOptionIndex, &q.Explanation, &q.Difficulty); err != nil {
			return domain.QuestionBank{}, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(rawOpts, &q.Options); err != nil {
			return domain.QuestionBank{}, fmt.Errorf("unmarshal options for %s: %w", q.ID, err)
		}
		bank.Questions = append(bank.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return domain.QuestionBank{}, fmt.Errorf("iterate questions: %w", err)
	}
	return bank, nil
}
