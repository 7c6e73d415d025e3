package state

import (
	"context"
	"sync"

	"github.com/vietddude/notifier/internal/core/domain"
)

// Queue is the FIFO of pending notifications. The sync orchestrator appends,
// the dispatch orchestrator drains bounded batches.
//
// Backends: MemoryQueue below (default, lives and dies with the process) and
// the redis-backed queue in internal/infra/redis, which survives restarts.
type Queue interface {
	// Enqueue appends notifications in order.
	Enqueue(ctx context.Context, notifications []domain.Notification) error

	// DequeueBatch removes and returns up to max of the oldest notifications.
	// Returns an empty slice when the queue is empty.
	DequeueBatch(ctx context.Context, max int) ([]domain.Notification, error)

	// Len returns the number of pending notifications.
	Len(ctx context.Context) (int, error)
}

// MemoryQueue is an in-process Queue.
type MemoryQueue struct {
	mu    sync.Mutex
	queue []domain.Notification
}

// NewMemoryQueue creates an empty in-memory queue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

func (q *MemoryQueue) Enqueue(_ context.Context, notifications []domain.Notification) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.queue = append(q.queue, notifications...)
	return nil
}

func (q *MemoryQueue) DequeueBatch(_ context.Context, max int) ([]domain.Notification, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.queue) == 0 || max <= 0 {
		return nil, nil
	}

	n := max
	if n > len(q.queue) {
		n = len(q.queue)
	}

	batch := make([]domain.Notification, n)
	copy(batch, q.queue[:n])
	q.queue = q.queue[n:]

	return batch, nil
}

func (q *MemoryQueue) Len(_ context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.queue), nil
}
