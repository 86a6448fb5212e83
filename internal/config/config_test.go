package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := loadFromPath(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BackendURL() != defaultBackendURL {
		t.Fatalf("unexpected backend url: %s", cfg.BackendURL())
	}
	if cfg.CallTimeout() != defaultCallTimeout {
		t.Fatalf("unexpected call timeout: %s", cfg.CallTimeout())
	}
	if cfg.PageSize() != defaultPageSize {
		t.Fatalf("unexpected page size: %d", cfg.PageSize())
	}
	if cfg.LogLevel() != "info" {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel())
	}
}

func TestLoadPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "[backend]\nurl = \"ws://10.0.0.5:9000/rpc\"\ncall_timeout_sec = 5\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BackendURL() != "ws://10.0.0.5:9000/rpc" {
		t.Fatalf("unexpected backend url: %s", cfg.BackendURL())
	}
	if cfg.CallTimeout() != 5*time.Second {
		t.Fatalf("unexpected call timeout: %s", cfg.CallTimeout())
	}
	// Untouched sections keep their defaults.
	if cfg.PageSize() != defaultPageSize {
		t.Fatalf("unexpected page size: %d", cfg.PageSize())
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[backend\nurl ="), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := loadFromPath(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestZeroValuesFallBack(t *testing.T) {
	var cfg Config
	if cfg.BackendURL() != defaultBackendURL {
		t.Fatalf("unexpected backend url: %s", cfg.BackendURL())
	}
	if cfg.CallTimeout() != defaultCallTimeout {
		t.Fatalf("unexpected call timeout: %s", cfg.CallTimeout())
	}
	if cfg.PageSize() != defaultPageSize {
		t.Fatalf("unexpected page size: %d", cfg.PageSize())
	}
	if cfg.LogLevel() != "info" {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel())
	}
}
