// Package health provides system health monitoring and status reporting.
package health

// SystemStatus represents the overall health state of the system or a component.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// TokenHealth contains health metrics for one tracked token.
type TokenHealth struct {
	TokenSymbol    string       `json:"token_symbol"`
	Status         SystemStatus `json:"status"`
	SyncEnabled    bool         `json:"sync_enabled"`
	NextBlockIndex uint64       `json:"next_block_index"`
	StaleForMillis uint64       `json:"stale_for_millis"`
}
