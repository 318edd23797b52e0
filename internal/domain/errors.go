package domain

import "errors"

var (
	// ErrInvalidConfiguration is returned when a session is begun with an
	// empty question list, a non-positive time budget, or a malformed question.
	ErrInvalidConfiguration = errors.New("invalid session configuration")
	// ErrInvalidOption is returned when a selected option index is out of
	// range for the current question.
	ErrInvalidOption = errors.New("option index out of range")
	// ErrInvalidSessionState is returned when a mutating operation is invoked
	// after the session reached a terminal phase.
	ErrInvalidSessionState = errors.New("session already terminated")
	// ErrSessionNotFound is returned when a practice session ID is unknown.
	ErrSessionNotFound = errors.New("practice session not found")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
)
