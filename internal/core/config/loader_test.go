package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
scheduler:
  tick_interval: 2s
ledger:
  timeout: 5s
notification:
  method_name: on_ledger_block
tokens:
  - ledger_address: http://ledger-foo:8000
    enable_sync: true
    sync_from_block_index: 100
  - ledger_address: http://ledger-bar:8000
logging:
  level: debug
  format: text
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Scheduler.TickInterval != 2*time.Second {
		t.Errorf("TickInterval = %v, want 2s", cfg.Scheduler.TickInterval)
	}
	if cfg.Ledger.Timeout != 5*time.Second {
		t.Errorf("Ledger.Timeout = %v, want 5s", cfg.Ledger.Timeout)
	}
	if cfg.Notification.MethodName != "on_ledger_block" {
		t.Errorf("MethodName = %q, want on_ledger_block", cfg.Notification.MethodName)
	}
	// Unset timeout falls back to the default.
	if cfg.Notification.Timeout != 10*time.Second {
		t.Errorf("Notification.Timeout = %v, want default 10s", cfg.Notification.Timeout)
	}

	if len(cfg.Tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(cfg.Tokens))
	}
	first := cfg.Tokens[0]
	if first.LedgerAddress != "http://ledger-foo:8000" || !first.EnableSync {
		t.Errorf("token[0] = %+v", first)
	}
	if first.SyncFromBlockIndex == nil || *first.SyncFromBlockIndex != 100 {
		t.Errorf("token[0].SyncFromBlockIndex = %v, want 100", first.SyncFromBlockIndex)
	}
	if cfg.Tokens[1].SyncFromBlockIndex != nil {
		t.Error("token[1].SyncFromBlockIndex should be nil when omitted")
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "server: {}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("default Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Scheduler.TickInterval != time.Second {
		t.Errorf("default TickInterval = %v, want 1s", cfg.Scheduler.TickInterval)
	}
	if cfg.Ledger.Timeout != 10*time.Second {
		t.Errorf("default Ledger.Timeout = %v, want 10s", cfg.Ledger.Timeout)
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("LEDGER_ADDR", "http://ledger-env:8000")

	path := writeConfig(t, `
tokens:
  - ledger_address: ${LEDGER_ADDR}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Tokens[0].LedgerAddress != "http://ledger-env:8000" {
		t.Errorf("LedgerAddress = %q, env not expanded", cfg.Tokens[0].LedgerAddress)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load() on missing file = nil, want error")
	}
}
