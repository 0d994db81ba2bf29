package domain

import "time"

// AuthEventKind labels an entry in the authentication audit trail.
type AuthEventKind string

const (
	EventRegistration AuthEventKind = "registration"
	EventLoginSuccess AuthEventKind = "login_success"
	EventLoginFailure AuthEventKind = "login_failure"
	EventLockout      AuthEventKind = "lockout"
	EventLockRejected AuthEventKind = "lock_rejected"
	EventOAuthLogin   AuthEventKind = "oauth_login"
)

// AuthEvent records a single authentication outcome for auditing.
type AuthEvent struct {
	Identity         string        `json:"identity"`
	Kind             AuthEventKind `json:"kind"`
	RemainingSeconds int           `json:"remaining_seconds,omitempty"`
	At               time.Time     `json:"at"`
}
