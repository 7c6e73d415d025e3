package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/notifier/internal/core/domain"
)

const queueKey = "notifier:notifications:pending"

// NotificationQueue is a FIFO notification queue backed by a Redis list, so
// pending notifications survive a process restart. Implements state.Queue.
type NotificationQueue struct {
	client *Client
}

// NewNotificationQueue creates a queue on the given client.
func NewNotificationQueue(client *Client) *NotificationQueue {
	return &NotificationQueue{client: client}
}

// Enqueue appends notifications in order, as one pipelined RPUSH.
func (q *NotificationQueue) Enqueue(ctx context.Context, notifications []domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	values := make([]any, 0, len(notifications))
	for _, n := range notifications {
		data, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("marshal notification: %w", err)
		}
		values = append(values, data)
	}

	if err := q.client.rdb.RPush(ctx, queueKey, values...).Err(); err != nil {
		return fmt.Errorf("rpush failed: %w", err)
	}
	return nil
}

// DequeueBatch pops up to max of the oldest notifications.
func (q *NotificationQueue) DequeueBatch(ctx context.Context, max int) ([]domain.Notification, error) {
	if max <= 0 {
		return nil, nil
	}

	values, err := q.client.rdb.LPopCount(ctx, queueKey, max).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lpop failed: %w", err)
	}

	batch := make([]domain.Notification, 0, len(values))
	for _, v := range values {
		var n domain.Notification
		if err := json.Unmarshal([]byte(v), &n); err != nil {
			return nil, fmt.Errorf("unmarshal notification: %w", err)
		}
		batch = append(batch, n)
	}
	return batch, nil
}

// Len returns the number of pending notifications.
func (q *NotificationQueue) Len(ctx context.Context) (int, error) {
	n, err := q.client.rdb.LLen(ctx, queueKey).Result()
	if err != nil {
		return 0, fmt.Errorf("llen failed: %w", err)
	}
	return int(n), nil
}
