package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Scheduler.BatchSize != 5 {
		t.Errorf("batch size = %d, want 5", cfg.Scheduler.BatchSize)
	}
	if cfg.Scheduler.TickInterval != 5*time.Minute {
		t.Errorf("tick interval = %s", cfg.Scheduler.TickInterval)
	}
	if !cfg.Scheduler.Enabled {
		t.Error("scheduler should default to enabled")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("AGORA_CONFIG", filepath.Join(t.TempDir(), "nope", "config.json"))
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Paths.Database != "agora.db" {
		t.Errorf("database = %q", cfg.Paths.Database)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	raw := `{"server": {"addr": ":9999"}, "scheduler": {"enabled": false, "tickInterval": 60000000000, "batchSize": 5, "maxConcurrent": 3}}`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("AGORA_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("addr = %q, want :9999", cfg.Server.Addr)
	}
	if cfg.Scheduler.Enabled {
		t.Error("scheduler should be disabled by file")
	}
	if cfg.Scheduler.TickInterval != time.Minute {
		t.Errorf("tick interval = %s, want 1m", cfg.Scheduler.TickInterval)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"server": {"addr": ":9999"}}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("AGORA_CONFIG", path)
	t.Setenv("AGORA_SERVER_ADDR", ":7777")
	t.Setenv("AGORA_SERVER_CRON_SECRET", "hush")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":7777" {
		t.Errorf("addr = %q, want env override", cfg.Server.Addr)
	}
	if cfg.Server.CronSecret != "hush" {
		t.Errorf("cron secret = %q", cfg.Server.CronSecret)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("AGORA_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestConfigPath_ExplicitEnv(t *testing.T) {
	t.Setenv("AGORA_CONFIG", "/tmp/custom.json")
	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath() error: %v", err)
	}
	if path != "/tmp/custom.json" {
		t.Errorf("path = %q", path)
	}
}
