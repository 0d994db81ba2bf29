package ports

import (
	"context"

	"github.com/memberhub/portal/internal/core/domain"
)

// AuditSink accepts authentication events without blocking the caller.
type AuditSink interface {
	Publish(event domain.AuthEvent)
}

// AuditService processes a single audit event end-to-end.
type AuditService interface {
	Process(ctx context.Context, event domain.AuthEvent) error
}

// AuditRepository persists the audit trail.
type AuditRepository interface {
	Append(ctx context.Context, event domain.AuthEvent) error
}
