package memory

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/memberhub/portal/internal/core/domain"
)

const (
	failureThreshold = 3
	lockWindow       = 5 * time.Minute
)

type lockoutEntry struct {
	count       int
	lockedUntil time.Time
}

// LockoutTracker counts failed attempts per identity and arms a 5-minute lock
// at the third failure. Expiry is lazy: an expired lock is purged on the next
// Status read, no background sweeper runs. The counter is not reset when a
// lock is armed; only Clear removes the entry, so repeated failures while
// locked-out keep the identity at or above the threshold.
type LockoutTracker struct {
	mu      sync.Mutex
	entries map[string]*lockoutEntry
	now     func() time.Time
}

func NewLockoutTracker() *LockoutTracker {
	return &LockoutTracker{
		entries: make(map[string]*lockoutEntry),
		now:     time.Now,
	}
}

// WithNow overrides the clock. Tests only.
func (t *LockoutTracker) WithNow(now func() time.Time) *LockoutTracker {
	t.now = now
	return t
}

func (t *LockoutTracker) Status(_ context.Context, identity string) (domain.LockStatus, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.entries[identity]
	if !ok || entry.lockedUntil.IsZero() {
		return domain.LockStatus{}, nil
	}

	now := t.now()
	if !now.Before(entry.lockedUntil) {
		delete(t.entries, identity)
		return domain.LockStatus{}, nil
	}

	remaining := int(math.Ceil(entry.lockedUntil.Sub(now).Seconds()))
	return domain.LockStatus{Locked: true, RemainingSeconds: remaining}, nil
}

func (t *LockoutTracker) RecordFailure(_ context.Context, identity string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.entries[identity]
	if !ok {
		entry = &lockoutEntry{}
		t.entries[identity] = entry
	}

	entry.count++
	if entry.count >= failureThreshold {
		entry.lockedUntil = t.now().Add(lockWindow)
	}
	return nil
}

func (t *LockoutTracker) Clear(_ context.Context, identity string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.entries, identity)
	return nil
}
