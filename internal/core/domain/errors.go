package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserExists         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("invalid session token")

	ErrMissingFields    = errors.New("email, password and name are required")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrInvalidEmail     = errors.New("invalid email address")
)

// LockedError denies an authentication attempt while a lockout window is
// active. JustLocked distinguishes the attempt that triggered the lock from
// attempts rejected by a pre-existing lock; the wording differs but the HTTP
// status does not, and callers surface the message verbatim so the countdown
// is visible to the user.
type LockedError struct {
	RemainingSeconds int
	JustLocked       bool
}

func (e *LockedError) Error() string {
	if e.JustLocked {
		return fmt.Sprintf("too many failed attempts, account locked for %d seconds", e.RemainingSeconds)
	}
	return fmt.Sprintf("account locked, try again in %d seconds", e.RemainingSeconds)
}
