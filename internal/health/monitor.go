package health

import (
	"context"
	"sync"
	"time"

	"github.com/vietddude/notifier/internal/core/state"
)

// Monitor derives per-token health from the state container's sync
// timestamps. A token that keeps failing without a recent success degrades,
// then turns critical.
type Monitor struct {
	state          *state.Container
	staleThreshold time.Duration

	now func() uint64

	mu         sync.Mutex
	lastCheck  time.Time
	lastReport map[string]TokenHealth
}

// NewMonitor creates a health monitor. staleThreshold is how long a
// sync-enabled token may go without a successful sync before it is
// considered degraded; three times that is critical.
func NewMonitor(container *state.Container, staleThreshold time.Duration) *Monitor {
	return &Monitor{
		state:          container,
		staleThreshold: staleThreshold,
		now:            func() uint64 { return uint64(time.Now().UnixMilli()) },
		lastReport:     make(map[string]TokenHealth),
	}
}

// CheckHealth reports health for every tracked token. Results are cached
// briefly to keep the endpoint cheap.
func (m *Monitor) CheckHealth(ctx context.Context) map[string]TokenHealth {
	m.mu.Lock()
	defer m.mu.Unlock()

	if time.Since(m.lastCheck) < 10*time.Second && len(m.lastReport) > 0 {
		return m.lastReport
	}

	report := make(map[string]TokenHealth)
	now := m.now()

	for _, symbol := range m.state.TokenSymbols() {
		tm, ok := m.state.TokenMetrics(symbol)
		if !ok {
			continue
		}

		h := TokenHealth{
			TokenSymbol:    tm.TokenSymbol,
			Status:         StatusHealthy,
			SyncEnabled:    tm.SyncEnabled,
			NextBlockIndex: tm.NextBlockIndex,
		}

		// Disabled tokens are not expected to progress.
		if tm.SyncEnabled && tm.LastFailedSync > tm.LastSuccessfulSync {
			var stale uint64
			if tm.LastSuccessfulSync > 0 {
				stale = now - tm.LastSuccessfulSync
			} else if tm.LastSyncStartedAt > 0 {
				stale = now - tm.LastSyncStartedAt
			}
			h.StaleForMillis = stale

			switch {
			case stale > uint64(3*m.staleThreshold.Milliseconds()):
				h.Status = StatusCritical
			case stale > uint64(m.staleThreshold.Milliseconds()):
				h.Status = StatusDegraded
			}
		}

		report[symbol] = h
	}

	m.lastCheck = time.Now()
	m.lastReport = report
	return report
}

// Overall aggregates a report: the worst token status wins.
func Overall(report map[string]TokenHealth) SystemStatus {
	status := StatusHealthy
	for _, h := range report {
		if h.Status == StatusCritical {
			return StatusCritical
		}
		if h.Status == StatusDegraded {
			status = StatusDegraded
		}
	}
	return status
}
