package usecase

import (
	"errors"
	"fmt"
)

// Sentinels callers match with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)

// clientError carries a message that is safe to show API clients while
// still unwrapping to one of the sentinels.
type clientError struct {
	kind error
	msg  string
}

func (e *clientError) Error() string { return e.msg }
func (e *clientError) Unwrap() error { return e.kind }

func notFound(format string, args ...any) error {
	return &clientError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func invalidInput(format string, args ...any) error {
	return &clientError{kind: ErrInvalidInput, msg: fmt.Sprintf(format, args...)}
}

func conflict(msg string) error {
	return &clientError{kind: ErrConflict, msg: msg}
}

// Message returns the client-facing text of err, or fallback when err
// did not originate from a use case decision.
func Message(err error, fallback string) string {
	var ce *clientError
	if errors.As(err, &ce) {
		return ce.msg
	}
	return fallback
}
