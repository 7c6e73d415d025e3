package admin

import (
	"context"
	"testing"

	"github.com/vietddude/notifier/internal/core/domain"
	"github.com/vietddude/notifier/internal/core/state"
	"github.com/vietddude/notifier/internal/infra/ledger"
)

// stubLedger answers the symbol and chain-length probes AddToken issues.
type stubLedger struct {
	symbol      string
	symbolErr   error
	chainLength uint64
	lengthErr   error
}

func (s *stubLedger) QueryBlocks(_ context.Context, _ domain.LedgerAddress, _, _ uint64) (*ledger.QueryBlocksResult, error) {
	if s.lengthErr != nil {
		return nil, s.lengthErr
	}
	return &ledger.QueryBlocksResult{ChainLength: s.chainLength}, nil
}

func (s *stubLedger) QueryArchive(_ context.Context, _ ledger.ShardLocator, _, _ uint64) ([]domain.Block, error) {
	return nil, ledger.ErrTransport
}

func (s *stubLedger) TokenSymbol(_ context.Context, _ domain.LedgerAddress) (string, error) {
	return s.symbol, s.symbolErr
}

func newTestService(client ledger.Client) (*Service, *state.Container) {
	container := state.NewContainer(state.NewMemoryQueue())
	return NewService(container, client, nil, nil), container
}

func TestAddToken(t *testing.T) {
	svc, container := newTestService(&stubLedger{symbol: "FOO", chainLength: 250})
	ctx := context.Background()

	resp := svc.AddToken(ctx, AddTokenArgs{LedgerAddress: "ledger-foo", EnableSync: true})
	if resp.Result != ResultSuccess {
		t.Fatalf("AddToken() = %+v, want success", resp)
	}

	m, ok := container.TokenMetrics("FOO")
	if !ok {
		t.Fatal("token not tracked after add")
	}
	if !m.SyncEnabled {
		t.Error("sync not enabled")
	}
	// No explicit start index: tracking begins at the chain tip.
	if m.NextBlockIndex != 250 {
		t.Errorf("cursor = %d, want 250 (chain length)", m.NextBlockIndex)
	}

	resp = svc.AddToken(ctx, AddTokenArgs{LedgerAddress: "ledger-foo"})
	if resp.Result != ResultAlreadyAdded {
		t.Errorf("second AddToken() = %+v, want already_added", resp)
	}
}

func TestAddTokenExplicitStartIndex(t *testing.T) {
	svc, container := newTestService(&stubLedger{symbol: "FOO", chainLength: 250})

	from := uint64(100)
	resp := svc.AddToken(context.Background(), AddTokenArgs{
		LedgerAddress:      "ledger-foo",
		SyncFromBlockIndex: &from,
	})
	if resp.Result != ResultSuccess {
		t.Fatalf("AddToken() = %+v, want success", resp)
	}

	m, _ := container.TokenMetrics("FOO")
	if m.NextBlockIndex != 100 {
		t.Errorf("cursor = %d, want 100 (explicit start index)", m.NextBlockIndex)
	}
	if m.SyncEnabled {
		t.Error("sync enabled without being requested")
	}
}

func TestAddTokenLedgerError(t *testing.T) {
	svc, container := newTestService(&stubLedger{symbolErr: ledger.ErrTransport})

	resp := svc.AddToken(context.Background(), AddTokenArgs{LedgerAddress: "ledger-foo"})
	if resp.Result != ResultLedgerError {
		t.Fatalf("AddToken() = %+v, want ledger_error", resp)
	}
	if len(container.TokenSymbols()) != 0 {
		t.Error("token tracked despite ledger error")
	}
}

func TestUpdateTokenConfig(t *testing.T) {
	svc, container := newTestService(&stubLedger{symbol: "FOO", chainLength: 10})
	ctx := context.Background()

	if resp := svc.AddToken(ctx, AddTokenArgs{LedgerAddress: "ledger-foo"}); resp.Result != ResultSuccess {
		t.Fatal(resp)
	}

	enabled := true
	from := uint64(3)
	resp := svc.UpdateTokenConfig(ctx, UpdateTokenConfigArgs{
		TokenSymbol:        "FOO",
		SyncEnabled:        &enabled,
		SyncFromBlockIndex: &from,
	})
	if resp.Result != ResultSuccess {
		t.Fatalf("UpdateTokenConfig() = %+v, want success", resp)
	}

	m, _ := container.TokenMetrics("FOO")
	if !m.SyncEnabled || m.NextBlockIndex != 3 {
		t.Errorf("got enabled=%v cursor=%d, want true/3", m.SyncEnabled, m.NextBlockIndex)
	}

	resp = svc.UpdateTokenConfig(ctx, UpdateTokenConfigArgs{TokenSymbol: "NOPE"})
	if resp.Result != ResultTokenNotFound {
		t.Errorf("UpdateTokenConfig(NOPE) = %+v, want token_not_found", resp)
	}
}

func TestSubscribe(t *testing.T) {
	svc, container := newTestService(&stubLedger{symbol: "FOO", chainLength: 10})
	ctx := context.Background()

	if resp := svc.AddToken(ctx, AddTokenArgs{LedgerAddress: "ledger-foo"}); resp.Result != ResultSuccess {
		t.Fatal(resp)
	}

	resp := svc.Subscribe(ctx, []state.SubscriptionRequest{
		{TokenSymbol: "FOO", Account: "alice", Subscribers: []domain.SubscriberID{"sub-1"}},
	})
	if resp.Result != ResultSuccess {
		t.Fatalf("Subscribe() = %+v, want success", resp)
	}

	m, _ := container.TokenMetrics("FOO")
	if m.Subscriptions != 1 {
		t.Errorf("subscriptions = %d, want 1", m.Subscriptions)
	}
}

func TestSubscribeUnknownTokenPanics(t *testing.T) {
	svc, _ := newTestService(&stubLedger{symbol: "FOO", chainLength: 10})

	defer func() {
		if recover() == nil {
			t.Error("Subscribe with unknown token did not panic")
		}
	}()

	svc.Subscribe(context.Background(), []state.SubscriptionRequest{
		{TokenSymbol: "MISSING", Account: "alice", Subscribers: []domain.SubscriberID{"sub-1"}},
	})
}

func TestSupportedTokens(t *testing.T) {
	container := state.NewContainer(state.NewMemoryQueue())
	svc := NewService(container, &stubLedger{}, nil, nil)

	if err := container.AddToken("ZED", "ledger-z", 0, false); err != nil {
		t.Fatal(err)
	}
	if err := container.AddToken("ABC", "ledger-a", 0, false); err != nil {
		t.Fatal(err)
	}

	got := svc.SupportedTokens()
	if len(got) != 2 || got[0] != "ABC" || got[1] != "ZED" {
		t.Errorf("SupportedTokens() = %v, want [ABC ZED]", got)
	}
}
