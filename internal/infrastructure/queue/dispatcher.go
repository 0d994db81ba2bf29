package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/memberhub/portal/internal/api/metrics"
	"github.com/memberhub/portal/internal/core/domain"
	"github.com/memberhub/portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the identity, guaranteeing per-identity event ordering. Publish
// never blocks the authentication path: when a worker channel is full the
// event is dropped and counted in the log.
type Dispatcher struct {
	workers []chan domain.AuthEvent
	service ports.AuditService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuthEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuthEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Publish sends an event to the worker responsible for its identity.
func (d *Dispatcher) Publish(event domain.AuthEvent) {
	select {
	case d.workers[d.shardIndex(event.Identity)] <- event:
	default:
		d.log.Warn().
			Str("identity", event.Identity).
			Str("kind", string(event.Kind)).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps an identity deterministically to a worker index.
func (d *Dispatcher) shardIndex(identity string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(identity))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuthEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Process(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("identity", event.Identity).
					Int("worker_id", id).
					Msg("audit event processing failed")
				continue
			}
			metrics.AuthEventsTotal.WithLabelValues(string(event.Kind)).Inc()
		}
	}
}
