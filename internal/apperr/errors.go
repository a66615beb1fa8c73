package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrFeedbackSet   = errors.New("feedback already set")
	ErrSessionClosed = errors.New("session closed")
)
