// Package session holds the practice-test state machine: a fixed, ordered
// question list worked through under a countdown, producing a single
// immutable summary when the session finishes, is exited, or times out.
package session

import (
	"sync"
	"time"

	"dgca-prep-service/internal/domain"
)

// Session owns all mutable state for one practice attempt. Every operation
// takes the session mutex, so the ticker goroutine and caller-driven
// operations observe a total order; once a tick expires the budget, any
// later mutating call sees a terminal phase and is rejected.
//
// Answer overwrites are permitted until the session terminates. The original
// client only disables re-answering in the option buttons; jumping back via
// the navigator and choosing again has always updated the stored selection,
// and the final score is computed from the final selections only.
type Session struct {
	mu sync.Mutex

	cfg           domain.SessionConfig
	phase         domain.Phase
	currentIndex  int
	answers       map[string]domain.AnswerRecord
	clock         Clock
	startedAt     time.Time
	now           func() time.Time
	exitRequested bool
	summary       *domain.SessionSummary
}

// Begin validates the configuration and starts a session in the InProgress
// phase with the clock running.
func Begin(cfg domain.SessionConfig) (*Session, error) {
	return BeginWithClock(cfg, time.Now)
}

// BeginWithClock allows deterministic timestamps in tests.
func BeginWithClock(cfg domain.SessionConfig, now func() time.Time) (*Session, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	s := &Session{
		cfg:     cfg,
		phase:   domain.PhaseConfiguring,
		answers: make(map[string]domain.AnswerRecord, len(cfg.Questions)),
		now:     now,
	}
	if err := s.clock.Start(cfg.TimeBudgetSeconds); err != nil {
		return nil, err
	}
	s.startedAt = now()
	s.phase = domain.PhaseInProgress
	return s, nil
}

func validate(cfg domain.SessionConfig) error {
	if len(cfg.Questions) == 0 || cfg.TimeBudgetSeconds <= 0 {
		return domain.ErrInvalidConfiguration
	}
	for _, q := range cfg.Questions {
		if len(q.Options) < 2 {
			return domain.ErrInvalidConfiguration
		}
		if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
			return domain.ErrInvalidConfiguration
		}
	}
	return nil
}

// SelectAnswer records (or overwrites) the selection for the question at the
// current position. It does not advance the position.
func (s *Session) SelectAnswer(optionIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase.Terminal() {
		return domain.ErrInvalidSessionState
	}
	q := s.cfg.Questions[s.currentIndex]
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return domain.ErrInvalidOption
	}
	s.answers[q.ID] = domain.AnswerRecord{
		QuestionID:          q.ID,
		SelectedOptionIndex: optionIndex,
		IsCorrect:           optionIndex == q.CorrectOptionIndex,
	}
	return nil
}

// Next moves to the following question, staying on the last one if already there.
func (s *Session) Next() error {
	return s.GoTo(s.index() + 1)
}

// Previous moves to the preceding question, staying on the first one if already there.
func (s *Session) Previous() error {
	return s.GoTo(s.index() - 1)
}

// GoTo jumps to any question position. Out-of-range targets are clamped to
// the nearest valid index; the navigator allows jumping anywhere at any time.
func (s *Session) GoTo(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase.Terminal() {
		return domain.ErrInvalidSessionState
	}
	if index < 0 {
		index = 0
	}
	if max := len(s.cfg.Questions) - 1; index > max {
		index = max
	}
	s.currentIndex = index
	return nil
}

func (s *Session) index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentIndex
}

// Finish submits the session from any position, with any subset answered.
func (s *Session) Finish() (domain.SessionSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase.Terminal() {
		return domain.SessionSummary{}, domain.ErrInvalidSessionState
	}
	return s.terminateLocked(domain.PhaseFinished), nil
}

// RequestExit flags that the user asked to leave. The phase is untouched;
// the caller owns the confirmation prompt and follows up with ConfirmExit
// or CancelExit.
func (s *Session) RequestExit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase.Terminal() {
		return domain.ErrInvalidSessionState
	}
	s.exitRequested = true
	return nil
}

// CancelExit clears a pending exit request, leaving the session fully resumable.
func (s *Session) CancelExit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase.Terminal() {
		return domain.ErrInvalidSessionState
	}
	s.exitRequested = false
	return nil
}

// ConfirmExit terminates the session early. Unanswered questions are scored
// like a normal finish, but the summary is marked as exited.
func (s *Session) ConfirmExit() (domain.SessionSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase.Terminal() {
		return domain.SessionSummary{}, domain.ErrInvalidSessionState
	}
	return s.terminateLocked(domain.PhaseExited), nil
}

// Tick consumes one second of the time budget. On the tick that exhausts the
// budget the session finishes implicitly, exactly as if Finish were called,
// and expired is reported true once.
func (s *Session) Tick() (remaining int, expired bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase.Terminal() {
		return s.clock.Remaining(), false
	}
	remaining, expired = s.clock.Tick()
	if expired {
		s.terminateLocked(domain.PhaseFinished)
	}
	return remaining, expired
}

// terminateLocked synthesizes records for unanswered questions, computes the
// score from the final answers, stops the clock and transitions to the given
// terminal phase. ElapsedSeconds is wall-clock anchored rather than derived
// from tick counts, since periodic callbacks drift.
func (s *Session) terminateLocked(phase domain.Phase) domain.SessionSummary {
	answers := make([]domain.AnswerRecord, 0, len(s.cfg.Questions))
	score := 0
	for _, q := range s.cfg.Questions {
		record, ok := s.answers[q.ID]
		if !ok {
			record = domain.AnswerRecord{
				QuestionID:          q.ID,
				SelectedOptionIndex: domain.UnansweredIndex,
				IsCorrect:           false,
			}
			s.answers[q.ID] = record
		}
		if record.IsCorrect {
			score++
		}
		answers = append(answers, record)
	}

	s.clock.Stop()
	s.phase = phase
	summary := domain.SessionSummary{
		ScoreCorrect:   score,
		TotalQuestions: len(s.cfg.Questions),
		ElapsedSeconds: int(s.now().Sub(s.startedAt) / time.Second),
		Answers:        answers,
		WasExitedEarly: phase == domain.PhaseExited,
	}
	s.summary = &summary
	return summary
}

// State returns a snapshot for rendering.
func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.SessionState{
		Phase:            s.phase,
		Label:            s.cfg.Label,
		CurrentIndex:     s.currentIndex,
		TotalQuestions:   len(s.cfg.Questions),
		AnsweredCount:    len(s.answers),
		RemainingSeconds: s.clock.Remaining(),
		ExitRequested:    s.exitRequested,
	}
}

// Current returns the question at the current position together with the
// recorded selection, or UnansweredIndex when none exists yet.
func (s *Session) Current() (domain.Question, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.cfg.Questions[s.currentIndex]
	if record, ok := s.answers[q.ID]; ok {
		return q, record.SelectedOptionIndex
	}
	return q, domain.UnansweredIndex
}

// Summary returns the terminal summary, if the session has terminated.
func (s *Session) Summary() (domain.SessionSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.summary == nil {
		return domain.SessionSummary{}, false
	}
	return *s.summary, true
}
