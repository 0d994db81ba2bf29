package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/memberhub/portal/internal/core/domain"
	"github.com/memberhub/portal/internal/core/ports"
)

const minPasswordLength = 6

// emailPattern requires local@domain.tld; no case or whitespace normalization
// happens anywhere, stored emails match lookups byte for byte.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService implements registration and the credential login state machine:
// CheckLock → Lookup → VerifyPassword → Decide.
type AuthService struct {
	users    ports.UserRepository
	lockouts ports.LockoutTracker
	audit    ports.AuditSink
	now      func() time.Time
}

func NewAuthService(users ports.UserRepository, lockouts ports.LockoutTracker, audit ports.AuditSink) *AuthService {
	return &AuthService{
		users:    users,
		lockouts: lockouts,
		audit:    audit,
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	if email == "" || password == "" || name == "" {
		return nil, domain.ErrMissingFields
	}
	if len(password) < minPasswordLength {
		return nil, domain.ErrPasswordTooShort
	}
	if !emailPattern.MatchString(email) {
		return nil, domain.ErrInvalidEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.publish(domain.AuthEvent{Identity: email, Kind: domain.EventRegistration})
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	if email == "" || password == "" {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	// CheckLock: a live lock rejects the attempt before the store is touched
	// and without recording another failure.
	status, err := s.lockouts.Status(ctx, email)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("lockout status: %w", err)
	}
	if status.Locked {
		s.publish(domain.AuthEvent{Identity: email, Kind: domain.EventLockRejected, RemainingSeconds: status.RemainingSeconds})
		return domain.Identity{}, &domain.LockedError{RemainingSeconds: status.RemainingSeconds}
	}

	// Lookup: an unknown email counts toward the threshold but always
	// reports plain invalid credentials, never the lock state. Only the
	// wrong-password branch re-checks the lock.
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			if rerr := s.lockouts.RecordFailure(ctx, email); rerr != nil {
				return domain.Identity{}, fmt.Errorf("record failure: %w", rerr)
			}
			s.publish(domain.AuthEvent{Identity: email, Kind: domain.EventLoginFailure})
			return domain.Identity{}, domain.ErrInvalidCredentials
		}
		return domain.Identity{}, fmt.Errorf("find user: %w", err)
	}

	// VerifyPassword.
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.Identity{}, s.fail(ctx, email)
	}

	// Decide: success wipes the failure counter.
	if err := s.lockouts.Clear(ctx, email); err != nil {
		return domain.Identity{}, fmt.Errorf("clear lockout: %w", err)
	}
	s.publish(domain.AuthEvent{Identity: email, Kind: domain.EventLoginSuccess})
	return user.Identity(), nil
}

// fail records a wrong-password attempt and re-checks the lock: when this
// very failure crossed the threshold the caller gets the just-locked wording,
// otherwise the generic invalid-credentials error.
func (s *AuthService) fail(ctx context.Context, email string) error {
	if err := s.lockouts.RecordFailure(ctx, email); err != nil {
		return fmt.Errorf("record failure: %w", err)
	}
	status, err := s.lockouts.Status(ctx, email)
	if err != nil {
		return fmt.Errorf("lockout status: %w", err)
	}
	if status.Locked {
		s.publish(domain.AuthEvent{Identity: email, Kind: domain.EventLockout, RemainingSeconds: status.RemainingSeconds})
		return &domain.LockedError{RemainingSeconds: status.RemainingSeconds, JustLocked: true}
	}
	s.publish(domain.AuthEvent{Identity: email, Kind: domain.EventLoginFailure})
	return domain.ErrInvalidCredentials
}

func (s *AuthService) publish(event domain.AuthEvent) {
	if s.audit == nil {
		return
	}
	event.At = s.now().UTC()
	s.audit.Publish(event)
}
