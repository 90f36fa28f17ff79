package services

import "errors"

// ErrInvalidCredentials is returned for both an unknown email and a wrong
// password, so login responses never reveal whether an account exists.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrDuplicateEmail is returned when registering an email that already has
// an account, whether caught by the pre-check or by the store's unique
// constraint.
var ErrDuplicateEmail = errors.New("an account with that email already exists")

// ErrNotFound is returned when a requested record is absent or owned by a
// different user.
var ErrNotFound = errors.New("not found")

// ValidationError reports the first business rule a request failed. Rules
// are checked in a fixed order and checking stops at the first failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
