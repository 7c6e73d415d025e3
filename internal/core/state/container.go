package state

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vietddude/notifier/internal/core/domain"
)

var (
	// ErrTokenExists is returned when adding a token that is already tracked.
	ErrTokenExists = errors.New("token already added")

	// ErrTokenNotFound is returned when reconfiguring an unknown token.
	ErrTokenNotFound = errors.New("token not found")

	// ErrTokenNotSupported flags a subscribe request referencing a token this
	// deployment does not track. A caller-contract violation, not a
	// recoverable condition.
	ErrTokenNotSupported = errors.New("token not supported")
)

// Container is the process-wide state: every tracked token with its sync
// state and subscriptions, plus delivery accounting. All mutations go
// through short critical sections under one mutex; no method performs I/O
// while holding it. The notification queue sits beside the container and
// guards itself (its backend may be remote).
type Container struct {
	mu        sync.Mutex
	tokens    map[string]*TokenEntry
	queue     Queue
	totalSent uint64
}

// NewContainer creates an empty container draining into the given queue.
func NewContainer(queue Queue) *Container {
	return &Container{
		tokens: make(map[string]*TokenEntry),
		queue:  queue,
	}
}

// Queue returns the notification queue.
func (c *Container) Queue() Queue { return c.queue }

// AddToken starts tracking a token. Sync is disabled unless enableSync is
// set. Fails with ErrTokenExists if the symbol or the ledger address is
// already tracked.
func (c *Container) AddToken(symbol string, address domain.LedgerAddress, fromBlock uint64, enableSync bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.tokens[symbol]; ok {
		return ErrTokenExists
	}
	for _, t := range c.tokens {
		if t.ledgerAddress == address {
			return ErrTokenExists
		}
	}

	entry := NewTokenEntry(symbol, address, fromBlock)
	if enableSync {
		entry.sync.SetEnabled(true)
	}
	c.tokens[symbol] = entry

	return nil
}

// HasLedger reports whether a token with the given ledger address is
// already tracked.
func (c *Container) HasLedger(address domain.LedgerAddress) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range c.tokens {
		if t.ledgerAddress == address {
			return true
		}
	}
	return false
}

// RestoreToken installs a token entry rebuilt from persisted state.
// Startup only; silently replaces nothing (first write wins).
func (c *Container) RestoreToken(symbol string, address domain.LedgerAddress, syncState *LedgerSyncState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.tokens[symbol]; ok {
		return
	}
	c.tokens[symbol] = &TokenEntry{
		symbol:        symbol,
		ledgerAddress: address,
		sync:          syncState,
		subscriptions: NewSubscriptions(),
	}
}

// UpdateTokenConfig applies an administrative reconfiguration: toggling sync
// and/or overriding the cursor. A cursor override bumps the version so any
// in-flight sync claimed before it cannot advance past the override.
func (c *Container) UpdateTokenConfig(symbol string, enabled *bool, cursorOverride *uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.tokens[symbol]
	if !ok {
		return ErrTokenNotFound
	}

	if enabled != nil {
		entry.sync.SetEnabled(*enabled)
	}
	if cursorOverride != nil {
		entry.sync.OverrideCursor(*cursorOverride)
	}

	return nil
}

// SubscriptionRequest registers subscribers for one account of one token.
type SubscriptionRequest struct {
	TokenSymbol string                `json:"token_symbol"`
	Account     domain.AccountID      `json:"account"`
	Subscribers []domain.SubscriberID `json:"subscriber_ids"`
}

// Subscribe applies subscription requests. All referenced token symbols are
// validated before anything is applied, so an ErrTokenNotSupported failure
// leaves no partial state behind.
func (c *Container) Subscribe(requests []SubscriptionRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, req := range requests {
		if _, ok := c.tokens[req.TokenSymbol]; !ok {
			return fmt.Errorf("%w: %s", ErrTokenNotSupported, req.TokenSymbol)
		}
	}

	for _, req := range requests {
		c.tokens[req.TokenSymbol].subscriptions.Add(req.Account, req.Subscribers)
	}

	return nil
}

// SyncJob is one ledger claimed for a sync attempt.
type SyncJob struct {
	TokenSymbol   string
	LedgerAddress domain.LedgerAddress
	FromBlock     uint64
	Version       Version
}

// ClaimDue claims every token that is enabled and not already syncing, in
// one critical section, and returns the resulting jobs. Tokens that are
// disabled or mid-sync are skipped silently; that is expected control flow.
func (c *Container) ClaimDue(now uint64) []SyncJob {
	c.mu.Lock()
	defer c.mu.Unlock()

	var jobs []SyncJob
	for _, entry := range c.tokens {
		claim, err := entry.sync.TryStart(now)
		if err != nil {
			continue
		}
		jobs = append(jobs, SyncJob{
			TokenSymbol:   entry.symbol,
			LedgerAddress: entry.ledgerAddress,
			FromBlock:     claim.NextBlock,
			Version:       claim.Version,
		})
	}
	return jobs
}

// BuildNotifications derives the notifications for a fetched block range:
// for each block, in ascending index order, one notification per subscriber
// interested in any account the block's operation touches. Blocks with no
// interested subscribers contribute nothing.
func (c *Container) BuildNotifications(symbol string, fromBlock uint64, blocks []domain.Block) []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.tokens[symbol]
	if !ok {
		return nil
	}

	var out []domain.Notification
	for i, block := range blocks {
		blockIndex := fromBlock + uint64(i)
		accounts := block.Transaction.Operation.TouchedAccounts()

		subscribers := entry.subscriptions.Resolve(accounts)
		if len(subscribers) == 0 {
			continue
		}

		// Deterministic order within a block for stable output.
		ids := make([]domain.SubscriberID, 0, len(subscribers))
		for id := range subscribers {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })

		for _, id := range ids {
			out = append(out, domain.Notification{
				Subscriber: id,
				Args: domain.NotifyTransactionArgs{
					TokenSymbol:   entry.symbol,
					LedgerAddress: entry.ledgerAddress,
					BlockIndex:    blockIndex,
					Block:         block,
				},
			})
		}
	}
	return out
}

// CompleteSync finishes a sync attempt: advances the cursor when the attempt
// processed blocks (guarded by the version captured at claim time) and
// clears the in-progress flag. Both happen in one critical section so no
// reader sees the flag cleared with the cursor half-applied. Returns whether
// the cursor write was applied; a stale-version write reports false.
func (c *Container) CompleteSync(symbol string, newNextBlock *uint64, success bool, versionAtClaim Version, now uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.tokens[symbol]
	if !ok {
		return false
	}

	advanced := false
	if newNextBlock != nil && versionAtClaim == entry.sync.Version() {
		entry.sync.AdvanceCursor(*newNextBlock, versionAtClaim)
		advanced = true
	}
	entry.sync.Complete(success, now)

	return advanced
}

// MarkSent adds to the total-delivered counter.
func (c *Container) MarkSent(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalSent += uint64(n)
}

// TotalSent returns the number of notifications delivered successfully.
func (c *Container) TotalSent() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.totalSent
}

// TokenSymbols returns the tracked token symbols, sorted.
func (c *Container) TokenSymbols() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	symbols := make([]string, 0, len(c.tokens))
	for s := range c.tokens {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// TokenMetrics returns the snapshot for one token.
func (c *Container) TokenMetrics(symbol string) (TokenMetrics, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.tokens[symbol]
	if !ok {
		return TokenMetrics{}, false
	}
	return entry.Metrics(), true
}

// EachSubscription visits every (token, account, subscriber) triple.
// Used for persistence.
func (c *Container) EachSubscription(fn func(symbol string, account domain.AccountID, subscriber domain.SubscriberID)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for symbol, entry := range c.tokens {
		entry.subscriptions.Each(func(account domain.AccountID, subscriber domain.SubscriberID) {
			fn(symbol, account, subscriber)
		})
	}
}

// Metrics is the process-wide observability snapshot.
type Metrics struct {
	Tokens              []TokenMetrics `json:"tokens"`
	NotificationsQueued int            `json:"notifications_queued"`
	NotificationsSent   uint64         `json:"notifications_sent"`
}

// Snapshot builds the metrics snapshot served by the introspection endpoint.
// Queue length is read outside the state lock since the backend may be
// remote.
func (c *Container) Snapshot(ctx context.Context) (Metrics, error) {
	c.mu.Lock()
	tokens := make([]TokenMetrics, 0, len(c.tokens))
	for _, entry := range c.tokens {
		tokens = append(tokens, entry.Metrics())
	}
	totalSent := c.totalSent
	c.mu.Unlock()

	sort.Slice(tokens, func(a, b int) bool { return tokens[a].TokenSymbol < tokens[b].TokenSymbol })

	queued, err := c.queue.Len(ctx)
	if err != nil {
		return Metrics{}, err
	}

	return Metrics{
		Tokens:              tokens,
		NotificationsQueued: queued,
		NotificationsSent:   totalSent,
	}, nil
}
