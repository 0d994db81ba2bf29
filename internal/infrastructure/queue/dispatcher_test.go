package queue

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/memberhub/portal/internal/core/domain"
)

type stubAuditService struct {
	processed chan domain.AuthEvent
	err       error
}

func (s *stubAuditService) Process(_ context.Context, event domain.AuthEvent) error {
	s.processed <- event
	return s.err
}

func TestDispatcher_ProcessesInOrderPerIdentity(t *testing.T) {
	stub := &stubAuditService{processed: make(chan domain.AuthEvent, 8)}
	d := NewDispatcher(2, stub, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	kinds := []domain.AuthEventKind{
		domain.EventLoginFailure,
		domain.EventLoginFailure,
		domain.EventLockout,
	}
	for _, kind := range kinds {
		d.Publish(domain.AuthEvent{Identity: "ann@example.com", Kind: kind, At: time.Now()})
	}

	for i, want := range kinds {
		select {
		case got := <-stub.processed:
			if got.Kind != want {
				t.Fatalf("event %d: kind = %q, want %q", i, got.Kind, want)
			}
			if got.Identity != "ann@example.com" {
				t.Fatalf("event %d: identity = %q", i, got.Identity)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
}

func TestDispatcher_ShardIsStablePerIdentity(t *testing.T) {
	d := NewDispatcher(4, &stubAuditService{processed: make(chan domain.AuthEvent, 1)}, zerolog.Nop())

	first := d.shardIndex("bob@example.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("bob@example.com"); got != first {
			t.Fatalf("shardIndex not stable: got %d, want %d", got, first)
		}
	}
}

func TestDispatcher_PublishDropsWhenQueueFull(t *testing.T) {
	// No workers started, so the channel fills up and further publishes
	// must return without blocking.
	stub := &stubAuditService{processed: make(chan domain.AuthEvent, 1)}
	d := NewDispatcher(1, stub, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Publish(domain.AuthEvent{Identity: "carl@example.com", Kind: domain.EventLoginFailure})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
}
