package postgres

import (
	"context"
	"fmt"

	"github.com/vietddude/notifier/internal/infra/storage"
)

// SubscriptionRepo implements storage.SubscriptionRepository using PostgreSQL.
type SubscriptionRepo struct {
	db *DB
}

// NewSubscriptionRepo creates a new PostgreSQL subscription repository.
func NewSubscriptionRepo(db *DB) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

// Add inserts subscription triples, ignoring duplicates.
func (r *SubscriptionRepo) Add(ctx context.Context, records []storage.SubscriptionRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO subscriptions (token_symbol, account, subscriber_id)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range records {
		if _, err := tx.ExecContext(ctx, query, rec.TokenSymbol, rec.Account, rec.SubscriberID); err != nil {
			return fmt.Errorf("failed to insert subscription: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// GetAll returns every persisted subscription.
func (r *SubscriptionRepo) GetAll(ctx context.Context) ([]storage.SubscriptionRecord, error) {
	query := `SELECT token_symbol, account, subscriber_id FROM subscriptions ORDER BY token_symbol, account`

	var records []storage.SubscriptionRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	return records, nil
}
