package domain

import "errors"

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrSessionNotFound    = errors.New("interview session not found")
	ErrSessionCompleted   = errors.New("interview session already completed")
	ErrBadQuestionIndex   = errors.New("question index out of range")
)
