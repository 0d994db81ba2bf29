package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/memberhub/portal/internal/core/domain"
	"github.com/memberhub/portal/internal/core/ports"
)

// AuditService records authentication outcomes: structured log line plus
// durable append. It runs on dispatcher workers, never on the request path.
type AuditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, log: log}
}

func (s *AuditService) Process(ctx context.Context, event domain.AuthEvent) error {
	entry := s.log.Info()
	if event.Kind == domain.EventLockout || event.Kind == domain.EventLockRejected {
		entry = s.log.Warn()
	}
	entry.
		Str("identity", event.Identity).
		Str("kind", string(event.Kind)).
		Int("remaining_seconds", event.RemainingSeconds).
		Time("at", event.At).
		Msg("auth event")

	if err := s.repo.Append(ctx, event); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}
