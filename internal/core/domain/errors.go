package domain

import "errors"

var (
	// ErrValidation wraps all bad-input failures; the wrapped message is safe
	// to show to the caller.
	ErrValidation = errors.New("invalid input")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrTaskNotFound = errors.New("task not found")

	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token signature invalid")
	ErrTokenMalformed = errors.New("token malformed")
)
