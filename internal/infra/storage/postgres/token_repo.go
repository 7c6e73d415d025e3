package postgres

import (
	"context"
	"fmt"

	"github.com/vietddude/notifier/internal/infra/storage"
)

// TokenRepo implements storage.TokenRepository using PostgreSQL.
type TokenRepo struct {
	db *DB
}

// NewTokenRepo creates a new PostgreSQL token repository.
func NewTokenRepo(db *DB) *TokenRepo {
	return &TokenRepo{db: db}
}

// Upsert writes the full token record.
func (r *TokenRepo) Upsert(ctx context.Context, record *storage.TokenRecord) error {
	query := `
		INSERT INTO tokens (symbol, ledger_address, sync_enabled, next_block, version,
			last_sync_started_at, last_successful_sync, last_failed_sync)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (symbol) DO UPDATE SET
			ledger_address = EXCLUDED.ledger_address,
			sync_enabled = EXCLUDED.sync_enabled,
			next_block = EXCLUDED.next_block,
			version = EXCLUDED.version,
			last_sync_started_at = EXCLUDED.last_sync_started_at,
			last_successful_sync = EXCLUDED.last_successful_sync,
			last_failed_sync = EXCLUDED.last_failed_sync
	`
	_, err := r.db.ExecContext(ctx, query,
		record.Symbol, record.LedgerAddress, record.SyncEnabled,
		int64(record.NextBlock), int64(record.Version),
		int64(record.LastSyncStartedAt), int64(record.LastSuccessfulSync), int64(record.LastFailedSync),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert token: %w", err)
	}
	return nil
}

// UpdateCursor records a cursor move. The version guard applies in memory;
// the row simply mirrors the winning state.
func (r *TokenRepo) UpdateCursor(ctx context.Context, symbol string, nextBlock, version uint64) error {
	query := `UPDATE tokens SET next_block = $2, version = $3 WHERE symbol = $1`
	_, err := r.db.ExecContext(ctx, query, symbol, int64(nextBlock), int64(version))
	if err != nil {
		return fmt.Errorf("failed to update cursor: %w", err)
	}
	return nil
}

// UpdateSyncResult records a sync outcome timestamp.
func (r *TokenRepo) UpdateSyncResult(ctx context.Context, symbol string, success bool, at uint64) error {
	column := "last_failed_sync"
	if success {
		column = "last_successful_sync"
	}

	query := fmt.Sprintf(`UPDATE tokens SET %s = $2 WHERE symbol = $1`, column)
	_, err := r.db.ExecContext(ctx, query, symbol, int64(at))
	if err != nil {
		return fmt.Errorf("failed to update sync result: %w", err)
	}
	return nil
}

// GetAll returns every persisted token.
func (r *TokenRepo) GetAll(ctx context.Context) ([]storage.TokenRecord, error) {
	query := `
		SELECT symbol, ledger_address, sync_enabled, next_block, version,
			last_sync_started_at, last_successful_sync, last_failed_sync
		FROM tokens ORDER BY symbol
	`

	var records []storage.TokenRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("failed to load tokens: %w", err)
	}
	return records, nil
}
