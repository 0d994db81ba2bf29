package ports

import (
	"context"

	"github.com/memberhub/portal/internal/core/domain"
)

// UserRepository is the credential store: the exclusive owner of password
// hashes, keyed by email.
type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrUserExists when the email
	// is already taken; the race between two concurrent registrations of the
	// same email must resolve to exactly one winner.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByEmail performs an exact-match lookup, no case or whitespace
	// normalization. Returns domain.ErrUserNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
