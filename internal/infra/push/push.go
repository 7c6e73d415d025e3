// Package push delivers notifications to subscriber services.
package push

import (
	"context"

	"github.com/vietddude/notifier/internal/core/domain"
)

// Pusher is the capability surface of subscriber services: a one-way
// notify call addressed by the subscriber's service id.
type Pusher interface {
	// Notify pushes one transaction notification. Best-effort: the dispatch
	// orchestrator drops the notification on error.
	Notify(ctx context.Context, subscriber domain.SubscriberID, args domain.NotifyTransactionArgs) error
}
