package redis

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/memberhub/portal/internal/core/domain"
)

const (
	failureThreshold = 3
	lockWindow       = 5 * time.Minute
	// counterTTL bounds orphaned counters for identities that never
	// authenticate successfully. Well beyond the lock window on purpose:
	// the counter must survive the lock so repeated failures keep the
	// identity at the threshold.
	counterTTL = 24 * time.Hour
)

// LockoutTracker keeps failed-attempt counters and lock windows in Redis.
// Key layout:
//
//	lockout:count:<identity>  failure counter (INCR)
//	lockout:lock:<identity>   present while locked, TTL = remaining window
//
// Lazy expiry is delegated to Redis key TTLs.
type LockoutTracker struct {
	client *redis.Client
}

func NewLockoutTracker(client *redis.Client) *LockoutTracker {
	return &LockoutTracker{client: client}
}

func (t *LockoutTracker) Status(ctx context.Context, identity string) (domain.LockStatus, error) {
	ttl, err := t.client.PTTL(ctx, t.lockKey(identity)).Result()
	if err != nil {
		return domain.LockStatus{}, fmt.Errorf("lockout ttl: %w", err)
	}
	if ttl <= 0 {
		// -2 missing key, -1 no expiry; neither counts as locked.
		return domain.LockStatus{}, nil
	}

	remaining := int(math.Ceil(ttl.Seconds()))
	return domain.LockStatus{Locked: true, RemainingSeconds: remaining}, nil
}

func (t *LockoutTracker) RecordFailure(ctx context.Context, identity string) error {
	countKey := t.countKey(identity)

	count, err := t.client.Incr(ctx, countKey).Result()
	if err != nil {
		return fmt.Errorf("increment failures: %w", err)
	}
	if err := t.client.Expire(ctx, countKey, counterTTL).Err(); err != nil {
		return fmt.Errorf("expire counter: %w", err)
	}

	if count >= failureThreshold {
		if err := t.client.Set(ctx, t.lockKey(identity), count, lockWindow).Err(); err != nil {
			return fmt.Errorf("arm lock: %w", err)
		}
		// The counter dies with the lock: an expired lock is treated as if
		// the entry never existed.
		if err := t.client.Expire(ctx, countKey, lockWindow).Err(); err != nil {
			return fmt.Errorf("expire counter: %w", err)
		}
	}
	return nil
}

func (t *LockoutTracker) Clear(ctx context.Context, identity string) error {
	if err := t.client.Del(ctx, t.countKey(identity), t.lockKey(identity)).Err(); err != nil {
		return fmt.Errorf("clear lockout: %w", err)
	}
	return nil
}

func (t *LockoutTracker) countKey(identity string) string {
	return "lockout:count:" + identity
}

func (t *LockoutTracker) lockKey(identity string) string {
	return "lockout:lock:" + identity
}
