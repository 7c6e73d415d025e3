package state

import (
	"github.com/vietddude/notifier/internal/core/domain"
)

// Subscriptions maps accounts to the set of subscriber services interested
// in them. Grow-only: there is no unsubscribe operation.
type Subscriptions struct {
	byAccount map[domain.AccountID]map[domain.SubscriberID]struct{}
}

// NewSubscriptions creates an empty registry.
func NewSubscriptions() *Subscriptions {
	return &Subscriptions{
		byAccount: make(map[domain.AccountID]map[domain.SubscriberID]struct{}),
	}
}

// Add unions the given subscriber ids into the set subscribed to the
// account. Duplicates collapse, so Add is idempotent.
func (s *Subscriptions) Add(account domain.AccountID, subscribers []domain.SubscriberID) {
	set, ok := s.byAccount[account]
	if !ok {
		set = make(map[domain.SubscriberID]struct{})
		s.byAccount[account] = set
	}
	for _, id := range subscribers {
		set[id] = struct{}{}
	}
}

// Resolve returns the deduplicated set of subscribers interested in any of
// the given accounts. An account with no subscribers contributes nothing;
// that is not an error.
func (s *Subscriptions) Resolve(accounts []domain.AccountID) map[domain.SubscriberID]struct{} {
	out := make(map[domain.SubscriberID]struct{})
	for _, account := range accounts {
		for id := range s.byAccount[account] {
			out[id] = struct{}{}
		}
	}
	return out
}

// Len returns the number of accounts with at least one subscriber.
func (s *Subscriptions) Len() int {
	return len(s.byAccount)
}

// Each visits every (account, subscriber) pair. Used for persistence.
func (s *Subscriptions) Each(fn func(account domain.AccountID, subscriber domain.SubscriberID)) {
	for account, set := range s.byAccount {
		for id := range set {
			fn(account, id)
		}
	}
}
