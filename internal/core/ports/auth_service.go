package ports

import (
	"context"

	"github.com/memberhub/portal/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*domain.User, error)
	// Login runs the credential state machine: lock check, lookup, password
	// verification, lockout bookkeeping. Failure is domain.ErrInvalidCredentials
	// or *domain.LockedError.
	Login(ctx context.Context, email, password string) (domain.Identity, error)
}
