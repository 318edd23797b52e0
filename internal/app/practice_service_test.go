package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dgca-prep-service/internal/app"
	"dgca-prep-service/internal/domain"
	"dgca-prep-service/internal/infra/memory"
)

func TestStartAnswerFinishReportsResult(t *testing.T) {
	ctx := context.Background()
	reporter := &recordingReporter{}
	service := newTestService(reporter)

	id, state, err := service.Start(ctx, "u1", app.StartRequest{BankID: "instruments", TimeBudgetSeconds: 120})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if state.Phase != domain.PhaseInProgress || state.TotalQuestions != 2 || state.RemainingSeconds != 120 {
		t.Fatalf("unexpected state after start: %+v", state)
	}

	q, _, err := service.Question(ctx, id)
	if err != nil {
		t.Fatalf("question: %v", err)
	}
	if _, err := service.SelectAnswer(ctx, id, q.CorrectOptionIndex); err != nil {
		t.Fatalf("answer: %v", err)
	}

	summary, err := service.Finish(ctx, id)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if summary.ScoreCorrect != 1 || summary.TotalQuestions != 2 || summary.WasExitedEarly {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	if len(reporter.results) != 1 {
		t.Fatalf("expected 1 reported result, got %d", len(reporter.results))
	}
	result := reporter.results[0]
	if result.UserID != "u1" || result.BankID != "instruments" || result.Label != "Instruments" {
		t.Fatalf("unexpected result envelope: %+v", result)
	}
}

func TestStartUnknownBank(t *testing.T) {
	service := newTestService(&recordingReporter{})
	_, _, err := service.Start(context.Background(), "u1", app.StartRequest{BankID: "nope", TimeBudgetSeconds: 60})
	if !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected ErrBankNotFound, got %v", err)
	}
}

func TestTickExpiryReportsOnce(t *testing.T) {
	ctx := context.Background()
	reporter := &recordingReporter{}
	service := newTestService(reporter)

	id, _, err := service.Start(ctx, "u1", app.StartRequest{BankID: "instruments", TimeBudgetSeconds: 2})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, expired, err := service.Tick(ctx, id); err != nil || expired {
		t.Fatalf("first tick: expired=%v err=%v", expired, err)
	}
	remaining, expired, err := service.Tick(ctx, id)
	if err != nil || !expired || remaining != 0 {
		t.Fatalf("second tick: remaining=%d expired=%v err=%v", remaining, expired, err)
	}
	// Further ticks stay silent and do not re-report.
	if _, expired, _ := service.Tick(ctx, id); expired {
		t.Fatalf("expiry must fire once")
	}

	if len(reporter.results) != 1 {
		t.Fatalf("expected exactly 1 reported result, got %d", len(reporter.results))
	}
	if reporter.results[0].Summary.WasExitedEarly {
		t.Fatalf("clock expiry must report a finished result, not an exited one")
	}
}

func TestExitFlowReportsExited(t *testing.T) {
	ctx := context.Background()
	reporter := &recordingReporter{}
	service := newTestService(reporter)

	id, _, err := service.Start(ctx, "u1", app.StartRequest{BankID: "instruments", TimeBudgetSeconds: 60})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	state, err := service.RequestExit(ctx, id)
	if err != nil {
		t.Fatalf("request exit: %v", err)
	}
	if state.Phase != domain.PhaseInProgress || !state.ExitRequested {
		t.Fatalf("request alone must not terminate: %+v", state)
	}
	if len(reporter.results) != 0 {
		t.Fatalf("nothing may be reported before confirmation")
	}

	summary, err := service.ConfirmExit(ctx, id)
	if err != nil {
		t.Fatalf("confirm exit: %v", err)
	}
	if !summary.WasExitedEarly {
		t.Fatalf("expected exited summary, got %+v", summary)
	}
	if len(reporter.results) != 1 || !reporter.results[0].Summary.WasExitedEarly {
		t.Fatalf("expected one exited result, got %+v", reporter.results)
	}
}

// A failing reporter must not reopen the session or surface as an error.
func TestReporterFailureLeavesSessionTerminal(t *testing.T) {
	ctx := context.Background()
	service := newTestService(&recordingReporter{err: errors.New("save failed")})

	id, _, err := service.Start(ctx, "u1", app.StartRequest{BankID: "instruments", TimeBudgetSeconds: 60})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.Finish(ctx, id); err != nil {
		t.Fatalf("finish must succeed despite reporter failure: %v", err)
	}
	if _, err := service.SelectAnswer(ctx, id, 0); err != domain.ErrInvalidSessionState {
		t.Fatalf("session must stay terminal, got %v", err)
	}
}

func TestOperationsOnUnknownSession(t *testing.T) {
	ctx := context.Background()
	service := newTestService(&recordingReporter{})

	if _, err := service.SelectAnswer(ctx, "missing", 0); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := service.Finish(ctx, "missing"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, _, err := service.Tick(ctx, "missing"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestReleaseDropsSession(t *testing.T) {
	ctx := context.Background()
	service := newTestService(&recordingReporter{})

	id, _, err := service.Start(ctx, "u1", app.StartRequest{BankID: "instruments", TimeBudgetSeconds: 60})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	service.Release(ctx, id)
	if _, err := service.State(ctx, id); err != domain.ErrSessionNotFound {
		t.Fatalf("expected released session to be gone, got %v", err)
	}
}

type recordingReporter struct {
	results []domain.TestResult
	err     error
}

func (r *recordingReporter) Report(_ context.Context, result domain.TestResult) error {
	if r.err != nil {
		return r.err
	}
	r.results = append(r.results, result)
	return nil
}

func newTestService(reporter *recordingReporter) *app.PracticeService {
	sessionStore := memory.NewSessionStore()
	bankRepo := memory.NewBankRepository(memory.NewStaticBankLoader(map[string]domain.QuestionBank{
		"instruments": {
			ID:    "instruments",
			Label: "Instruments",
			Questions: []domain.Question{
				{
					ID:                 "q1",
					Prompt:             "The pitot tube measures",
					Options:            []string{"static pressure", "dynamic pressure"},
					CorrectOptionIndex: 1,
					Difficulty:         domain.DifficultyEasy,
				},
				{
					ID:                 "q2",
					Prompt:             "Flying high to low without resetting, the altimeter reads",
					Options:            []string{"higher than actual", "lower than actual", "unchanged"},
					CorrectOptionIndex: 0,
					Difficulty:         domain.DifficultyMedium,
				},
			},
		},
	}), 5*time.Minute)
	return app.NewPracticeService(sessionStore, bankRepo, reporter)
}
