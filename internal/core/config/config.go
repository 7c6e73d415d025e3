package config

import (
	"time"

	redisclient "github.com/vietddude/notifier/internal/infra/redis"
	"github.com/vietddude/notifier/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server       ServerConfig       `yaml:"server"`
	Scheduler    SchedulerConfig    `yaml:"scheduler"`
	Ledger       LedgerConfig       `yaml:"ledger"`
	Notification NotificationConfig `yaml:"notification"`
	Tokens       []TokenConfig      `yaml:"tokens"`
	Redis        redisclient.Config `yaml:"redis"`
	Logging      LoggingConfig      `yaml:"logging"`
	Database     postgres.Config    `yaml:"database"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// SchedulerConfig holds the periodic tick settings.
type SchedulerConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
}

// LedgerConfig holds outbound ledger call settings.
type LedgerConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// NotificationConfig holds subscriber push settings.
type NotificationConfig struct {
	MethodName string        `yaml:"method_name"`
	Timeout    time.Duration `yaml:"timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// TokenConfig registers a token to track at startup.
type TokenConfig struct {
	LedgerAddress      string  `yaml:"ledger_address"`
	EnableSync         bool    `yaml:"enable_sync"`
	SyncFromBlockIndex *uint64 `yaml:"sync_from_block_index"`
}
