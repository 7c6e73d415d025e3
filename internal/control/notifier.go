// Package control wires the engine together and runs the scheduler.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/vietddude/notifier/internal/admin"
	"github.com/vietddude/notifier/internal/core/config"
	"github.com/vietddude/notifier/internal/core/domain"
	"github.com/vietddude/notifier/internal/core/state"
	"github.com/vietddude/notifier/internal/dispatch"
	"github.com/vietddude/notifier/internal/health"
	"github.com/vietddude/notifier/internal/infra/ledger"
	"github.com/vietddude/notifier/internal/infra/push"
	redisclient "github.com/vietddude/notifier/internal/infra/redis"
	"github.com/vietddude/notifier/internal/infra/storage"
	"github.com/vietddude/notifier/internal/infra/storage/postgres"
	ledgersync "github.com/vietddude/notifier/internal/sync"
)

// Config holds the application configuration.
type Config struct {
	Port         int
	TickInterval time.Duration
	Ledger       config.LedgerConfig
	Notification config.NotificationConfig
	Tokens       []config.TokenConfig
	Redis        redisclient.Config
	Database     postgres.Config
}

// Notifier is the main application struct that manages the engine lifecycle.
type Notifier struct {
	cfg         Config
	state       *state.Container
	syncer      *ledgersync.Orchestrator
	dispatcher  *dispatch.Orchestrator
	adminSvc    *admin.Service
	adminServer *admin.Server
	db          *postgres.DB
	redisClient *redisclient.Client

	running atomic.Bool
	stop    chan struct{}
}

// NewNotifier creates a new Notifier instance with all dependencies
// initialized and persisted state restored.
func NewNotifier(cfg Config) (*Notifier, error) {
	// 1. Notification queue: redis-backed when configured, in-memory otherwise
	var queue state.Queue
	var redisClient *redisclient.Client

	if cfg.Redis.URL != "" {
		var err error
		redisClient, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		queue = redisclient.NewNotificationQueue(redisClient)
		slog.Info("Using redis notification queue")
	} else {
		queue = state.NewMemoryQueue()
		slog.Info("Using in-memory notification queue")
	}

	container := state.NewContainer(queue)

	// 2. Persistence: postgres when configured
	var db *postgres.DB
	var tokenRepo storage.TokenRepository
	var subRepo storage.SubscriptionRepository

	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}

		if err := goose.SetDialect("postgres"); err != nil {
			return nil, err
		}
		if err := goose.Up(db.DB.DB, "migrations"); err != nil {
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}

		tokenRepo = postgres.NewTokenRepo(db)
		subRepo = postgres.NewSubscriptionRepo(db)

		if err := restoreState(context.Background(), container, tokenRepo, subRepo); err != nil {
			slog.Warn("Failed to restore persisted state", "error", err)
		}
		slog.Info("Using PostgreSQL persistence")
	}

	// 3. Remote clients
	ledgerClient := ledger.NewHTTPClient(cfg.Ledger.Timeout)
	pusher := push.NewHTTPPusher(cfg.Notification.MethodName, cfg.Notification.Timeout)

	// 4. Orchestrators and admin surface
	adminSvc := admin.NewService(container, ledgerClient, tokenRepo, subRepo)

	n := &Notifier{
		cfg:         cfg,
		state:       container,
		syncer:      ledgersync.NewOrchestrator(container, ledgerClient, tokenRepo),
		dispatcher:  dispatch.NewOrchestrator(container, pusher),
		adminSvc:    adminSvc,
		adminServer: admin.NewServer(adminSvc, container, health.NewMonitor(container, 5*time.Minute), cfg.Port),
		db:          db,
		redisClient: redisClient,
		stop:        make(chan struct{}),
	}

	return n, nil
}

// restoreState rebuilds the container from persisted rows.
func restoreState(ctx context.Context, container *state.Container, tokenRepo storage.TokenRepository, subRepo storage.SubscriptionRepository) error {
	tokens, err := tokenRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, t := range tokens {
		container.RestoreToken(t.Symbol, domain.LedgerAddress(t.LedgerAddress), state.Restore(
			t.SyncEnabled, t.NextBlock, state.Version(t.Version),
			t.LastSyncStartedAt, t.LastSuccessfulSync, t.LastFailedSync,
		))
	}

	subs, err := subRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	requests := make([]state.SubscriptionRequest, 0, len(subs))
	for _, s := range subs {
		requests = append(requests, state.SubscriptionRequest{
			TokenSymbol: s.TokenSymbol,
			Account:     domain.AccountID(s.Account),
			Subscribers: []domain.SubscriberID{domain.SubscriberID(s.SubscriberID)},
		})
	}
	if err := container.Subscribe(requests); err != nil {
		return err
	}

	slog.Info("Restored persisted state", "tokens", len(tokens), "subscriptions", len(subs))
	return nil
}

// Run starts the admin server and the scheduler loop, and blocks until the
// context is cancelled or Stop is called.
func (n *Notifier) Run(ctx context.Context) error {
	if !n.running.CompareAndSwap(false, true) {
		return fmt.Errorf("notifier already running")
	}
	defer n.running.Store(false)

	go func() {
		slog.Info("Admin server listening", "port", n.cfg.Port)
		if err := n.adminServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Admin server failed", "error", err)
		}
	}()

	n.registerConfiguredTokens(ctx)

	if n.db != nil {
		n.db.StartMetricsCollector(ctx)
	}

	ticker := time.NewTicker(n.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return n.shutdown()
		case <-n.stop:
			return n.shutdown()
		case <-ticker.C:
			// Sync first, dispatch second: the heartbeat order.
			n.syncer.Tick(ctx)
			n.dispatcher.Tick(ctx)
		}
	}
}

// Stop requests a graceful shutdown.
func (n *Notifier) Stop() {
	if n.running.Load() {
		close(n.stop)
	}
}

// registerConfiguredTokens adds tokens listed in the config file, skipping
// ones already tracked (e.g. restored from the database).
func (n *Notifier) registerConfiguredTokens(ctx context.Context) {
	for _, t := range n.cfg.Tokens {
		resp := n.adminSvc.AddToken(ctx, admin.AddTokenArgs{
			LedgerAddress:      domain.LedgerAddress(t.LedgerAddress),
			EnableSync:         t.EnableSync,
			SyncFromBlockIndex: t.SyncFromBlockIndex,
		})
		if resp.Result == admin.ResultLedgerError {
			slog.Warn("Failed to register configured token",
				"ledger", t.LedgerAddress, "error", resp.Message)
		}
	}
}

// shutdown stops the admin server, waits for in-flight syncs and
// deliveries, and closes connections.
func (n *Notifier) shutdown() error {
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := n.adminServer.Stop(shutdownCtx); err != nil {
		slog.Warn("Admin server shutdown failed", "error", err)
	}

	n.syncer.Wait()
	n.dispatcher.Wait()

	if n.db != nil {
		_ = n.db.Close()
	}
	if n.redisClient != nil {
		_ = n.redisClient.Close()
	}

	slog.Info("Shutdown complete")
	return nil
}
