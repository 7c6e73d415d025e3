// Package dispatch drains the notification queue and pushes to subscribers.
package dispatch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vietddude/notifier/internal/core/domain"
	"github.com/vietddude/notifier/internal/core/state"
	"github.com/vietddude/notifier/internal/infra/push"
	"github.com/vietddude/notifier/internal/metrics"
)

// MaxNotificationsPerBatch bounds outbound concurrency: one batch per tick,
// one push per notification.
const MaxNotificationsPerBatch = 5

// Orchestrator drains bounded batches from the queue and issues best-effort
// pushes. A failed push is dropped: no retry, no dead-letter. Delivery is
// at-most-once by design.
type Orchestrator struct {
	state  *state.Container
	pusher push.Pusher

	wg sync.WaitGroup
}

// NewOrchestrator creates a dispatch orchestrator.
func NewOrchestrator(container *state.Container, pusher push.Pusher) *Orchestrator {
	return &Orchestrator{
		state:  container,
		pusher: pusher,
	}
}

// Tick dequeues the next batch, if any, and dispatches it in the
// background. A previous tick's still-pending deliveries never block the
// next batch from draining.
func (o *Orchestrator) Tick(ctx context.Context) {
	batch, err := o.state.Queue().DequeueBatch(ctx, MaxNotificationsPerBatch)
	if err != nil {
		slog.Error("Failed to dequeue notifications", "error", err)
		return
	}
	if len(batch) == 0 {
		return
	}

	if queued, err := o.state.Queue().Len(ctx); err == nil {
		metrics.QueueDepth.Set(float64(queued))
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.pushBatch(ctx, batch)
	}()
}

// Wait blocks until all in-flight deliveries finish. Used during shutdown.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// pushBatch delivers one batch, one concurrent push per notification, and
// joins before returning. No ordering is guaranteed within the batch.
func (o *Orchestrator) pushBatch(ctx context.Context, batch []domain.Notification) {
	var wg sync.WaitGroup

	for _, n := range batch {
		wg.Add(1)
		go func(n domain.Notification) {
			defer wg.Done()

			if err := o.pusher.Notify(ctx, n.Subscriber, n.Args); err != nil {
				// Dropped. Fire-and-forget delivery has no caller to report to.
				slog.Warn("Failed to push notification",
					"subscriber", n.Subscriber,
					"token", n.Args.TokenSymbol,
					"block_index", n.Args.BlockIndex,
					"error", err)
				metrics.PushFailures.Inc()
				return
			}

			o.state.MarkSent(1)
			metrics.NotificationsSent.Inc()
		}(n)
	}

	wg.Wait()
}
