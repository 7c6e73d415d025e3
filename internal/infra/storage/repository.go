// Package storage defines the persistence interfaces the engine uses to
// survive restarts. The in-memory state container is authoritative at
// runtime; repositories record durable copies of it.
package storage

import (
	"context"
)

// TokenRecord is the persisted form of one tracked token and its sync state.
type TokenRecord struct {
	Symbol             string `db:"symbol"`
	LedgerAddress      string `db:"ledger_address"`
	SyncEnabled        bool   `db:"sync_enabled"`
	NextBlock          uint64 `db:"next_block"`
	Version            uint64 `db:"version"`
	LastSyncStartedAt  uint64 `db:"last_sync_started_at"`
	LastSuccessfulSync uint64 `db:"last_successful_sync"`
	LastFailedSync     uint64 `db:"last_failed_sync"`
}

// SubscriptionRecord is one persisted (token, account, subscriber) triple.
type SubscriptionRecord struct {
	TokenSymbol  string `db:"token_symbol"`
	Account      string `db:"account"`
	SubscriberID string `db:"subscriber_id"`
}

// TokenRepository persists tracked tokens and their sync state.
type TokenRepository interface {
	// Upsert writes the full record.
	Upsert(ctx context.Context, record *TokenRecord) error

	// UpdateCursor records a cursor move and the version it happened under.
	UpdateCursor(ctx context.Context, symbol string, nextBlock, version uint64) error

	// UpdateSyncResult records a sync attempt outcome timestamp.
	UpdateSyncResult(ctx context.Context, symbol string, success bool, at uint64) error

	// GetAll returns every persisted token.
	GetAll(ctx context.Context) ([]TokenRecord, error)
}

// SubscriptionRepository persists the subscription registry.
type SubscriptionRepository interface {
	// Add inserts triples, ignoring duplicates.
	Add(ctx context.Context, records []SubscriptionRecord) error

	// GetAll returns every persisted subscription.
	GetAll(ctx context.Context) ([]SubscriptionRecord, error)
}
