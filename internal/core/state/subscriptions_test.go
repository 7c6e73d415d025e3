package state

import (
	"testing"

	"github.com/vietddude/notifier/internal/core/domain"
)

func TestSubscriptionsResolve(t *testing.T) {
	s := NewSubscriptions()
	s.Add("alice", []domain.SubscriberID{"sub-1", "sub-2"})
	s.Add("bob", []domain.SubscriberID{"sub-2"})
	s.Add("alice", []domain.SubscriberID{"sub-1"}) // duplicate, no-op

	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}

	got := s.Resolve([]domain.AccountID{"alice", "bob", "carol"})
	if len(got) != 2 {
		t.Fatalf("Resolve() returned %d subscribers, want 2", len(got))
	}
	for _, id := range []domain.SubscriberID{"sub-1", "sub-2"} {
		if _, ok := got[id]; !ok {
			t.Errorf("Resolve() missing %s", id)
		}
	}

	if got := s.Resolve([]domain.AccountID{"carol"}); len(got) != 0 {
		t.Errorf("Resolve(carol) = %v, want empty", got)
	}
}

func TestSubscriptionsEach(t *testing.T) {
	s := NewSubscriptions()
	s.Add("alice", []domain.SubscriberID{"sub-1"})
	s.Add("bob", []domain.SubscriberID{"sub-1", "sub-2"})

	seen := make(map[string]int)
	s.Each(func(account domain.AccountID, subscriber domain.SubscriberID) {
		seen[string(account)+"/"+string(subscriber)]++
	})

	if len(seen) != 3 {
		t.Fatalf("Each() visited %d pairs, want 3", len(seen))
	}
	for pair, n := range seen {
		if n != 1 {
			t.Errorf("pair %s visited %d times", pair, n)
		}
	}
}
