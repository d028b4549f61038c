package service

import "errors"

// Domain errors returned by services. Handlers map them to response codes.
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccessDenied         = errors.New("access denied")
	ErrNotReady             = errors.New("exam has no questions")
	ErrAlreadySubmitted     = errors.New("attempt already submitted")
	ErrNotFound             = errors.New("not found")
	ErrConstraintViolation  = errors.New("constraint violation")
	ErrInvalidCorrectOption = errors.New("correct option must refer to a supplied option")
	ErrSessionInvalid       = errors.New("session invalidated")
)
