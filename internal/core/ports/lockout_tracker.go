package ports

import (
	"context"

	"github.com/memberhub/portal/internal/core/domain"
)

// LockoutTracker holds per-identity failed-attempt counters and lock expiry.
type LockoutTracker interface {
	// Status reports the current lock state. An expired lock is treated as
	// absent and purged on read.
	Status(ctx context.Context, identity string) (domain.LockStatus, error)
	// RecordFailure increments the failure counter, creating the entry if
	// absent, and arms the lock window once the threshold is reached. The
	// counter keeps accumulating until Clear.
	RecordFailure(ctx context.Context, identity string) error
	// Clear deletes the entry entirely (after a successful authentication).
	Clear(ctx context.Context, identity string) error
}
