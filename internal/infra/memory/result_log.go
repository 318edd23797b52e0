package memory

import (
	"context"
	"sync"

	"dgca-prep-service/internal/domain"
)

// ResultLog is an in-memory app.ResultReporter keeping the most recent
// results, used when the server runs without Postgres.
type ResultLog struct {
	mu      sync.Mutex
	limit   int
	results []domain.TestResult
}

func NewResultLog(limit int) *ResultLog {
	if limit <= 0 {
		limit = 100
	}
	return &ResultLog{limit: limit}
}

func (l *ResultLog) Report(_ context.Context, result domain.TestResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = append(l.results, result)
	if len(l.results) > l.limit {
		l.results = l.results[len(l.results)-l.limit:]
	}
	return nil
}

// Recent returns a copy of the retained results, newest last.
func (l *ResultLog) Recent() []domain.TestResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.TestResult, len(l.results))
	copy(out, l.results)
	return out
}
