package session

import "errors"

var (
	// ErrInvalidDecision is returned when a decision does not answer the
	// current problem. The session state is left unchanged.
	ErrInvalidDecision = errors.New("invalid decision")

	// ErrNotAwaiting is returned when a decision is applied to a session
	// that has no open problem.
	ErrNotAwaiting = errors.New("session is not awaiting a decision")

	// ErrAlreadyStarted is returned by Start on a session that left Idle.
	ErrAlreadyStarted = errors.New("session already started")
)
