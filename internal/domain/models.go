package domain

import "time"

// Difficulty tags a question for filtering and display.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is a single multiple-choice item from the question bank.
// CorrectOptionIndex is a zero-based index into Options.
type Question struct {
	ID                 string     `json:"id"`
	Prompt             string     `json:"prompt"`
	Options            []string   `json:"options"`
	CorrectOptionIndex int        `json:"correctOptionIndex"`
	Explanation        string     `json:"explanation,omitempty"`
	Difficulty         Difficulty `json:"difficulty"`
}

// QuestionBank is the ordered set of questions for one topic.
type QuestionBank struct {
	ID        string     `json:"id"`
	Label     string     `json:"label"`
	Questions []Question `json:"questions"`
}

// SessionConfig fixes the shape of one practice session. Immutable after begin.
type SessionConfig struct {
	Questions         []Question
	TimeBudgetSeconds int
	Label             string
}

// Phase is the coarse lifecycle stage of a practice session.
type Phase string

const (
	PhaseConfiguring Phase = "configuring"
	PhaseInProgress  Phase = "in_progress"
	PhaseFinished    Phase = "finished"
	PhaseExited      Phase = "exited"
)

// Terminal reports whether no further mutating operations are accepted.
func (p Phase) Terminal() bool {
	return p == PhaseFinished || p == PhaseExited
}

// UnansweredIndex is the sentinel selection for questions the user never answered.
const UnansweredIndex = -1

// AnswerRecord is the recorded choice (or absence thereof) for one question.
type AnswerRecord struct {
	QuestionID          string `json:"questionId"`
	SelectedOptionIndex int    `json:"selectedOptionIndex"`
	IsCorrect           bool   `json:"isCorrect"`
}

// SessionState is a read-only snapshot of a live session, for rendering
// the timer, progress bar and question navigator.
type SessionState struct {
	Phase            Phase  `json:"phase"`
	Label            string `json:"label"`
	CurrentIndex     int    `json:"currentIndex"`
	TotalQuestions   int    `json:"totalQuestions"`
	AnsweredCount    int    `json:"answeredCount"`
	RemainingSeconds int    `json:"remainingSeconds"`
	ExitRequested    bool   `json:"exitRequested"`
}

// SessionSummary is the final, immutable result of a terminated session.
// Answers holds one record per question, in question order; unanswered
// questions carry UnansweredIndex and IsCorrect=false.
type SessionSummary struct {
	ScoreCorrect   int            `json:"scoreCorrect"`
	TotalQuestions int            `json:"totalQuestions"`
	ElapsedSeconds int            `json:"elapsedSeconds"`
	Answers        []AnswerRecord `json:"answers"`
	WasExitedEarly bool           `json:"wasExitedEarly"`
}

// TestResult is the persisted outcome of one terminated session.
type TestResult struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	BankID    string         `json:"bankId"`
	Label     string         `json:"label"`
	Summary   SessionSummary `json:"summary"`
	CreatedAt time.Time      `json:"createdAt"`
}

// UserProgress aggregates a user's practice history.
type UserProgress struct {
	UserID             string    `json:"userId"`
	TestsTaken         int       `json:"testsTaken"`
	QuestionsAttempted int       `json:"questionsAttempted"`
	CorrectAnswers     int       `json:"correctAnswers"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
