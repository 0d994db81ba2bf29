package memory

import (
	"context"
	"sync"

	"github.com/memberhub/portal/internal/core/domain"
)

const auditCapacity = 1024

// AuditRepository keeps the most recent auth events in a bounded ring.
type AuditRepository struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Append(_ context.Context, event domain.AuthEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
	if len(r.events) > auditCapacity {
		r.events = r.events[len(r.events)-auditCapacity:]
	}
	return nil
}

// Recent returns up to n events, newest last.
func (r *AuditRepository) Recent(n int) []domain.AuthEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n <= 0 || n > len(r.events) {
		n = len(r.events)
	}
	out := make([]domain.AuthEvent, n)
	copy(out, r.events[len(r.events)-n:])
	return out
}
