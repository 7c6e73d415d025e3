// Package sync drives ledger synchronization: on every scheduler tick it
// claims the tokens that are due, fetches their new blocks and turns them
// into queued notifications.
package sync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vietddude/notifier/internal/core/state"
	"github.com/vietddude/notifier/internal/infra/ledger"
	"github.com/vietddude/notifier/internal/infra/storage"
	"github.com/vietddude/notifier/internal/metrics"
)

// maxBlocksPerFetch bounds one sync attempt; anything beyond is picked up
// on the next tick.
const maxBlocksPerFetch = 1000

// Orchestrator runs one sync attempt per due token per tick. Tokens sync
// concurrently and independently: a slow or failing ledger never blocks the
// others.
type Orchestrator struct {
	state  *state.Container
	ledger ledger.Client
	tokens storage.TokenRepository // optional, nil without a database

	now func() uint64
	wg  sync.WaitGroup
}

// NewOrchestrator creates a sync orchestrator. tokenRepo may be nil when no
// database is configured.
func NewOrchestrator(container *state.Container, client ledger.Client, tokenRepo storage.TokenRepository) *Orchestrator {
	return &Orchestrator{
		state:  container,
		ledger: client,
		tokens: tokenRepo,
		now:    func() uint64 { return uint64(time.Now().UnixMilli()) },
	}
}

// Tick claims every due token in one critical section and spawns an
// independent sync task per claim. It does not wait for the tasks; the
// in-progress flag keeps later ticks from double-syncing a ledger.
func (o *Orchestrator) Tick(ctx context.Context) {
	jobs := o.state.ClaimDue(o.now())

	for _, job := range jobs {
		o.wg.Add(1)
		go func(job state.SyncJob) {
			defer o.wg.Done()
			o.syncToken(ctx, job)
		}(job)
	}
}

// Wait blocks until all in-flight sync tasks finish. Used during shutdown.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// syncToken performs one sync attempt for one claimed token.
//
// Transport failure leaves the cursor untouched; the next tick retries from
// the same point. That periodic re-attempt is the only retry mechanism.
func (o *Orchestrator) syncToken(ctx context.Context, job state.SyncJob) {
	blocks, err := ledger.FetchRange(ctx, o.ledger, job.LedgerAddress, job.FromBlock, maxBlocksPerFetch)

	var newNextBlock *uint64
	success := err == nil

	if err != nil {
		slog.Error("Failed to get blocks from ledger",
			"token", job.TokenSymbol, "from_block", job.FromBlock, "error", err)
	} else if len(blocks) > 0 {
		metrics.BlocksFetched.WithLabelValues(job.TokenSymbol).Add(float64(len(blocks)))

		notifications := o.state.BuildNotifications(job.TokenSymbol, job.FromBlock, blocks)
		if len(notifications) > 0 {
			// Enqueue before the cursor moves so no reader ever sees the
			// cursor advanced without its notifications queued.
			if err := o.state.Queue().Enqueue(ctx, notifications); err != nil {
				slog.Error("Failed to enqueue notifications",
					"token", job.TokenSymbol, "count", len(notifications), "error", err)
				success = false
			} else {
				metrics.NotificationsEnqueued.WithLabelValues(job.TokenSymbol).
					Add(float64(len(notifications)))
			}
		}

		if success {
			next := job.FromBlock + uint64(len(blocks))
			newNextBlock = &next
		}
	}

	now := o.now()
	advanced := o.state.CompleteSync(job.TokenSymbol, newNextBlock, success, job.Version, now)

	result := "failure"
	if success {
		result = "success"
	}
	metrics.SyncsTotal.WithLabelValues(job.TokenSymbol, result).Inc()

	if !advanced {
		newNextBlock = nil
	}
	o.persist(ctx, job, newNextBlock, success, now)
}

// persist mirrors the attempt outcome into the database, best-effort.
func (o *Orchestrator) persist(ctx context.Context, job state.SyncJob, newNextBlock *uint64, success bool, now uint64) {
	if o.tokens == nil {
		return
	}

	if newNextBlock != nil {
		if err := o.tokens.UpdateCursor(ctx, job.TokenSymbol, *newNextBlock, uint64(job.Version)); err != nil {
			slog.Warn("Failed to persist cursor", "token", job.TokenSymbol, "error", err)
		}
	}
	if err := o.tokens.UpdateSyncResult(ctx, job.TokenSymbol, success, now); err != nil {
		slog.Warn("Failed to persist sync result", "token", job.TokenSymbol, "error", err)
	}
}
