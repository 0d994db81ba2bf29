// Package memory provides the in-process reference backends: a mutex-guarded
// user store, lockout tracker, and audit ring. They are the default wiring
// and the storage model the service was originally built around.
package memory

import (
	"context"
	"sync"

	"github.com/memberhub/portal/internal/core/domain"
)

// UserRepository keeps user records in a map keyed by email. All access goes
// through a single mutex; contention is negligible at demo scale and the
// lock makes the duplicate-email check-and-insert atomic.
type UserRepository struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*domain.User)}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}

	stored := *user
	r.users[user.Email] = &stored

	out := stored
	return &out, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	out := *user
	return &out, nil
}
