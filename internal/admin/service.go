// Package admin exposes the administrative operations: tracking tokens,
// registering subscriptions and reconfiguring sync.
package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vietddude/notifier/internal/core/domain"
	"github.com/vietddude/notifier/internal/core/state"
	"github.com/vietddude/notifier/internal/infra/ledger"
	"github.com/vietddude/notifier/internal/infra/storage"
)

// Result values returned by administrative operations.
const (
	ResultSuccess       = "success"
	ResultAlreadyAdded  = "already_added"
	ResultLedgerError   = "ledger_error"
	ResultTokenNotFound = "token_not_found"
)

// Response is the outcome of one administrative operation.
type Response struct {
	Result  string `json:"result"`
	Message string `json:"message,omitempty"`
}

// AddTokenArgs starts tracking the ledger at the given address.
type AddTokenArgs struct {
	LedgerAddress      domain.LedgerAddress `json:"ledger_address"`
	EnableSync         bool                 `json:"enable_sync"`
	SyncFromBlockIndex *uint64              `json:"sync_from_block_index,omitempty"`
}

// UpdateTokenConfigArgs reconfigures sync for a tracked token.
type UpdateTokenConfigArgs struct {
	TokenSymbol        string  `json:"token_symbol"`
	SyncEnabled        *bool   `json:"sync_enabled,omitempty"`
	SyncFromBlockIndex *uint64 `json:"sync_from_block_index,omitempty"`
}

// Service implements the administrative operations against the state
// container, resolving token details from the remote ledger where needed.
type Service struct {
	state  *state.Container
	ledger ledger.Client

	// optional persistence, nil without a database
	tokens storage.TokenRepository
	subs   storage.SubscriptionRepository
}

// NewService creates the administrative service. Repositories may be nil.
func NewService(container *state.Container, client ledger.Client, tokenRepo storage.TokenRepository, subRepo storage.SubscriptionRepository) *Service {
	return &Service{
		state:  container,
		ledger: client,
		tokens: tokenRepo,
		subs:   subRepo,
	}
}

// AddToken resolves the token's symbol and start index from the remote
// ledger (two concurrent calls) and starts tracking it. Sync starts
// disabled unless requested. When no explicit start index is given, the
// ledger's current chain length is used, so syncing begins at the tip.
func (s *Service) AddToken(ctx context.Context, args AddTokenArgs) Response {
	if s.state.HasLedger(args.LedgerAddress) {
		return Response{Result: ResultAlreadyAdded}
	}

	var (
		symbol    string
		fromBlock uint64
		symbolErr error
		indexErr  error
	)

	done := make(chan struct{}, 2)
	go func() {
		symbol, symbolErr = s.ledger.TokenSymbol(ctx, args.LedgerAddress)
		done <- struct{}{}
	}()
	go func() {
		if args.SyncFromBlockIndex != nil {
			fromBlock = *args.SyncFromBlockIndex
		} else {
			fromBlock, indexErr = ledger.ChainLength(ctx, s.ledger, args.LedgerAddress)
		}
		done <- struct{}{}
	}()
	<-done
	<-done

	if symbolErr != nil {
		return Response{Result: ResultLedgerError, Message: symbolErr.Error()}
	}
	if indexErr != nil {
		return Response{Result: ResultLedgerError, Message: indexErr.Error()}
	}

	if err := s.state.AddToken(symbol, args.LedgerAddress, fromBlock, args.EnableSync); err != nil {
		return Response{Result: ResultAlreadyAdded}
	}

	slog.Info("Token added",
		"symbol", symbol, "ledger", args.LedgerAddress,
		"from_block", fromBlock, "sync_enabled", args.EnableSync)

	s.persistToken(ctx, symbol)
	return Response{Result: ResultSuccess}
}

// Subscribe registers subscriber services for ledger accounts. A request
// referencing an unknown token symbol is a caller-contract violation: the
// whole request is aborted with no state change.
func (s *Service) Subscribe(ctx context.Context, requests []state.SubscriptionRequest) Response {
	if err := s.state.Subscribe(requests); err != nil {
		panic(fmt.Sprintf("subscribe: %v", err))
	}

	if s.subs != nil {
		records := make([]storage.SubscriptionRecord, 0, len(requests))
		for _, req := range requests {
			for _, id := range req.Subscribers {
				records = append(records, storage.SubscriptionRecord{
					TokenSymbol:  req.TokenSymbol,
					Account:      string(req.Account),
					SubscriberID: string(id),
				})
			}
		}
		if err := s.subs.Add(ctx, records); err != nil {
			slog.Warn("Failed to persist subscriptions", "error", err)
		}
	}

	return Response{Result: ResultSuccess}
}

// UpdateTokenConfig toggles sync and/or overrides the cursor. A cursor
// override bumps the sync-state version so an in-flight sync claimed before
// the override cannot clobber it.
func (s *Service) UpdateTokenConfig(ctx context.Context, args UpdateTokenConfigArgs) Response {
	if err := s.state.UpdateTokenConfig(args.TokenSymbol, args.SyncEnabled, args.SyncFromBlockIndex); err != nil {
		return Response{Result: ResultTokenNotFound}
	}

	slog.Info("Token config updated",
		"symbol", args.TokenSymbol,
		"sync_enabled", args.SyncEnabled,
		"sync_from_block_index", args.SyncFromBlockIndex)

	s.persistToken(ctx, args.TokenSymbol)
	return Response{Result: ResultSuccess}
}

// SupportedTokens returns the tracked token symbols.
func (s *Service) SupportedTokens() []string {
	return s.state.TokenSymbols()
}

// persistToken mirrors one token's current state into the database,
// best-effort.
func (s *Service) persistToken(ctx context.Context, symbol string) {
	if s.tokens == nil {
		return
	}

	m, ok := s.state.TokenMetrics(symbol)
	if !ok {
		return
	}

	record := &storage.TokenRecord{
		Symbol:             m.TokenSymbol,
		LedgerAddress:      string(m.LedgerAddress),
		SyncEnabled:        m.SyncEnabled,
		NextBlock:          m.NextBlockIndex,
		Version:            uint64(m.Version),
		LastSyncStartedAt:  m.LastSyncStartedAt,
		LastSuccessfulSync: m.LastSuccessfulSync,
		LastFailedSync:     m.LastFailedSync,
	}
	if err := s.tokens.Upsert(ctx, record); err != nil {
		slog.Warn("Failed to persist token", "symbol", symbol, "error", err)
	}
}
