package domain

import "errors"

var (
	// ErrNotFound is returned when a session id is unknown to the store.
	ErrNotFound = errors.New("session not found")

	// ErrInvalidTransition is returned when an operation is attempted
	// against a session that is not in the stage the operation requires.
	ErrInvalidTransition = errors.New("invalid stage transition")

	// ErrInvalidIndex is returned when an answer references a dynamic
	// question that does not exist.
	ErrInvalidIndex = errors.New("invalid question index")

	// ErrInvalidInput is returned for blank or malformed operation arguments.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownDomain is returned when a domain has no document content.
	ErrUnknownDomain = errors.New("unknown domain")
)
