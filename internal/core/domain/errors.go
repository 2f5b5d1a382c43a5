package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrAccessDenied       = errors.New("access denied")

	ErrUserNotFound    = errors.New("user not found")
	ErrNoticeNotFound  = errors.New("notice not found")
	ErrRequestNotFound = errors.New("service request not found")
	ErrMessageNotFound = errors.New("message not found")

	ErrValidation             = errors.New("validation failed")
	ErrMissingPasswordFields  = errors.New("all password fields are required to change the password")
	ErrPasswordMismatch       = errors.New("password and confirmation do not match")
	ErrInvalidCurrentPassword = errors.New("current password is incorrect")

	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrDuplicateSubmission = errors.New("duplicate submission")
	ErrRateLimited         = errors.New("too many requests")
)

// ValidationError describes a malformed or missing field. It matches
// ErrValidation under errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid is shorthand for building a *ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
