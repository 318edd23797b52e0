package app

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"dgca-prep-service/internal/domain"
	"dgca-prep-service/internal/session"
)

// SessionRepository abstracts how live practice sessions are stored
// (in-memory, Redis-backed, etc).
type SessionRepository interface {
	Put(p *Practice)
	Get(id string) (*Practice, bool)
	Delete(id string)
}

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.QuestionBank, error)
}

// ResultReporter receives the outcome of a terminated session. A reporting
// failure never reopens the session; the summary stands regardless of
// downstream persistence.
type ResultReporter interface {
	Report(ctx context.Context, result domain.TestResult) error
}

// Practice ties a live session to the user and bank it was started from.
type Practice struct {
	ID      string
	UserID  string
	BankID  string
	Session *session.Session
}

// StartRequest configures a new practice attempt.
type StartRequest struct {
	BankID            string
	QuestionCount     int
	TimeBudgetSeconds int
}

// MaxQuestionsPerTest caps a single attempt regardless of bank size.
const MaxQuestionsPerTest = 50

// PracticeService contains the practice-test use cases: starting a session
// from the question bank, delegating the in-flight operations, and handing
// the summary to the result reporter on termination.
type PracticeService struct {
	sessions SessionRepository
	banks    BankRepository
	reporter ResultReporter
	now      func() time.Time
	rnd      *rand.Rand
}

func NewPracticeService(sessions SessionRepository, banks BankRepository, reporter ResultReporter) *PracticeService {
	return &PracticeService{
		sessions: sessions,
		banks:    banks,
		reporter: reporter,
		now:      time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewPracticeServiceWithClock is test-only for deterministic timestamps.
func NewPracticeServiceWithClock(sessions SessionRepository, banks BankRepository, reporter ResultReporter, now func() time.Time) *PracticeService {
	s := NewPracticeService(sessions, banks, reporter)
	s.now = now
	return s
}

// Start loads the bank, draws the requested number of questions and begins a
// session. The count is clamped to the bank size and the per-test cap; zero
// means "all of the bank, up to the cap".
func (s *PracticeService) Start(ctx context.Context, userID string, req StartRequest) (string, domain.SessionState, error) {
	bank, err := s.banks.GetBank(ctx, req.BankID)
	if err != nil {
		return "", domain.SessionState{}, err
	}

	questions := s.draw(bank.Questions, req.QuestionCount)
	sess, err := session.BeginWithClock(domain.SessionConfig{
		Questions:         questions,
		TimeBudgetSeconds: req.TimeBudgetSeconds,
		Label:             bank.Label,
	}, s.now)
	if err != nil {
		return "", domain.SessionState{}, err
	}

	practice := &Practice{
		ID:      uuid.NewString(),
		UserID:  userID,
		BankID:  bank.ID,
		Session: sess,
	}
	s.sessions.Put(practice)
	return practice.ID, sess.State(), nil
}

// draw shuffles a copy of the bank and keeps the first count questions.
func (s *PracticeService) draw(questions []domain.Question, count int) []domain.Question {
	drawn := make([]domain.Question, len(questions))
	copy(drawn, questions)
	s.rnd.Shuffle(len(drawn), func(i, j int) {
		drawn[i], drawn[j] = drawn[j], drawn[i]
	})

	if count <= 0 || count > len(drawn) {
		count = len(drawn)
	}
	if count > MaxQuestionsPerTest {
		count = MaxQuestionsPerTest
	}
	return drawn[:count]
}

// SelectAnswer records the choice for the current question.
func (s *PracticeService) SelectAnswer(_ context.Context, sessionID string, optionIndex int) (domain.SessionState, error) {
	practice, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	if err := practice.Session.SelectAnswer(optionIndex); err != nil {
		return domain.SessionState{}, err
	}
	return practice.Session.State(), nil
}

// Next advances the current position by one.
func (s *PracticeService) Next(_ context.Context, sessionID string) (domain.SessionState, error) {
	return s.navigate(sessionID, func(sess *session.Session) error { return sess.Next() })
}

// Previous moves the current position back by one.
func (s *PracticeService) Previous(_ context.Context, sessionID string) (domain.SessionState, error) {
	return s.navigate(sessionID, func(sess *session.Session) error { return sess.Previous() })
}

// GoTo jumps to an arbitrary question position (clamped).
func (s *PracticeService) GoTo(_ context.Context, sessionID string, index int) (domain.SessionState, error) {
	return s.navigate(sessionID, func(sess *session.Session) error { return sess.GoTo(index) })
}

func (s *PracticeService) navigate(sessionID string, move func(*session.Session) error) (domain.SessionState, error) {
	practice, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	if err := move(practice.Session); err != nil {
		return domain.SessionState{}, err
	}
	return practice.Session.State(), nil
}

// Finish submits the session and reports the result.
func (s *PracticeService) Finish(ctx context.Context, sessionID string) (domain.SessionSummary, error) {
	practice, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionSummary{}, domain.ErrSessionNotFound
	}
	summary, err := practice.Session.Finish()
	if err != nil {
		return domain.SessionSummary{}, err
	}
	s.report(ctx, practice, summary)
	return summary, nil
}

// RequestExit flags the exit intent; the caller renders the confirmation prompt.
func (s *PracticeService) RequestExit(_ context.Context, sessionID string) (domain.SessionState, error) {
	return s.navigate(sessionID, func(sess *session.Session) error { return sess.RequestExit() })
}

// CancelExit resumes normal interaction after an exit prompt.
func (s *PracticeService) CancelExit(_ context.Context, sessionID string) (domain.SessionState, error) {
	return s.navigate(sessionID, func(sess *session.Session) error { return sess.CancelExit() })
}

// ConfirmExit terminates the session early and reports the result.
func (s *PracticeService) ConfirmExit(ctx context.Context, sessionID string) (domain.SessionSummary, error) {
	practice, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionSummary{}, domain.ErrSessionNotFound
	}
	summary, err := practice.Session.ConfirmExit()
	if err != nil {
		return domain.SessionSummary{}, err
	}
	s.report(ctx, practice, summary)
	return summary, nil
}

// Tick consumes one second of the session's budget. When the budget expires
// the session finishes implicitly and the result is reported, exactly as a
// caller-driven finish.
func (s *PracticeService) Tick(ctx context.Context, sessionID string) (remaining int, expired bool, err error) {
	practice, ok := s.sessions.Get(sessionID)
	if !ok {
		return 0, false, domain.ErrSessionNotFound
	}
	remaining, expired = practice.Session.Tick()
	if expired {
		if summary, ok := practice.Session.Summary(); ok {
			s.report(ctx, practice, summary)
		}
	}
	return remaining, expired, nil
}

// State returns a rendering snapshot of a live session.
func (s *PracticeService) State(_ context.Context, sessionID string) (domain.SessionState, error) {
	practice, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	return practice.Session.State(), nil
}

// Question returns the current question and the recorded selection, if any.
func (s *PracticeService) Question(_ context.Context, sessionID string) (domain.Question, int, error) {
	practice, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Question{}, 0, domain.ErrSessionNotFound
	}
	q, selected := practice.Session.Current()
	return q, selected, nil
}

// Summary returns the terminal summary of a session, or
// ErrInvalidSessionState when the session has not terminated yet.
func (s *PracticeService) Summary(_ context.Context, sessionID string) (domain.SessionSummary, error) {
	practice, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionSummary{}, domain.ErrSessionNotFound
	}
	summary, ok := practice.Session.Summary()
	if !ok {
		return domain.SessionSummary{}, domain.ErrInvalidSessionState
	}
	return summary, nil
}

// Release drops a session from the repository once the caller is done with it.
func (s *PracticeService) Release(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}

// report hands the summary to the reporter. Failures are logged and swallowed:
// the session stays terminal no matter what happens downstream.
func (s *PracticeService) report(ctx context.Context, practice *Practice, summary domain.SessionSummary) {
	state := practice.Session.State()
	result := domain.TestResult{
		ID:        uuid.NewString(),
		UserID:    practice.UserID,
		BankID:    practice.BankID,
		Label:     state.Label,
		Summary:   summary,
		CreatedAt: s.now(),
	}
	if err := s.reporter.Report(ctx, result); err != nil {
		log.Printf("report result for session %s: %v", practice.ID, err)
	}
}
