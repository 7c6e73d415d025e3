package state

import (
	"github.com/vietddude/notifier/internal/core/domain"
)

// TokenEntry is one tracked token/ledger: its symbol, the remote ledger
// address, the sync state machine and the token-scoped subscription
// registry. Entries are created by the add-token operation and never
// removed.
type TokenEntry struct {
	symbol        string
	ledgerAddress domain.LedgerAddress
	sync          *LedgerSyncState
	subscriptions *Subscriptions
}

// NewTokenEntry creates a token entry positioned at the given block index,
// with sync disabled.
func NewTokenEntry(symbol string, address domain.LedgerAddress, fromBlock uint64) *TokenEntry {
	return &TokenEntry{
		symbol:        symbol,
		ledgerAddress: address,
		sync:          NewLedgerSyncState(fromBlock),
		subscriptions: NewSubscriptions(),
	}
}

func (t *TokenEntry) Symbol() string                      { return t.symbol }
func (t *TokenEntry) LedgerAddress() domain.LedgerAddress { return t.ledgerAddress }
func (t *TokenEntry) SyncState() *LedgerSyncState         { return t.sync }
func (t *TokenEntry) Subscriptions() *Subscriptions       { return t.subscriptions }

// TokenMetrics is the observability snapshot for one tracked token.
type TokenMetrics struct {
	TokenSymbol        string               `json:"token_symbol"`
	LedgerAddress      domain.LedgerAddress `json:"ledger_address"`
	SyncEnabled        bool                 `json:"sync_enabled"`
	SyncInProgress     bool                 `json:"sync_in_progress"`
	NextBlockIndex     uint64               `json:"next_block_index"`
	LastSyncStartedAt  uint64               `json:"last_sync_started_at"`
	LastSuccessfulSync uint64               `json:"last_successful_sync"`
	LastFailedSync     uint64               `json:"last_failed_sync"`
	Version            Version              `json:"version"`
	Subscriptions      int                  `json:"subscriptions"`
}

// Metrics returns the token's observability snapshot.
func (t *TokenEntry) Metrics() TokenMetrics {
	return TokenMetrics{
		TokenSymbol:        t.symbol,
		LedgerAddress:      t.ledgerAddress,
		SyncEnabled:        t.sync.Enabled(),
		SyncInProgress:     t.sync.InProgress(),
		NextBlockIndex:     t.sync.NextBlock(),
		LastSyncStartedAt:  t.sync.LastSyncStartedAt(),
		LastSuccessfulSync: t.sync.LastSuccessfulSync(),
		LastFailedSync:     t.sync.LastFailedSync(),
		Version:            t.sync.Version(),
		Subscriptions:      t.subscriptions.Len(),
	}
}
