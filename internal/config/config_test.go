package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Dispatch.BatchSize != 10 || cfg.Dispatch.MaxAttempts != 3 {
		t.Errorf("dispatch defaults = %+v", cfg.Dispatch)
	}
	if cfg.Dispatch.SendInterval() != time.Second {
		t.Errorf("send interval = %s, want 1s", cfg.Dispatch.SendInterval())
	}
	if cfg.Cron.RateLimit != 10 || cfg.Cron.RateWindow() != 10*time.Second {
		t.Errorf("cron defaults = %+v", cfg.Cron)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: 9090
dispatch:
  batch_size: 5
  worker_interval_seconds: 60
cron:
  secret: file-secret
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Dispatch.BatchSize != 5 {
		t.Errorf("batch size = %d, want 5", cfg.Dispatch.BatchSize)
	}
	if cfg.Dispatch.WorkerInterval() != time.Minute {
		t.Errorf("worker interval = %s, want 1m", cfg.Dispatch.WorkerInterval())
	}
	if cfg.Cron.Secret != "file-secret" {
		t.Errorf("secret = %q", cfg.Cron.Secret)
	}
	// Unset sections still get defaults.
	if cfg.Dispatch.MaxAttempts != 3 {
		t.Errorf("max attempts = %d, want default 3", cfg.Dispatch.MaxAttempts)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed YAML loaded without error")
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env-host/db")
	t.Setenv("CRON_SECRET", "env-secret")
	t.Setenv("REDIS_URL", "redis://env-redis:6379")
	t.Setenv("AWS_SES_REGION", "eu-west-1")

	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.Database.URL != "postgres://env-host/db" {
		t.Errorf("database url = %q", cfg.Database.URL)
	}
	if cfg.Cron.Secret != "env-secret" {
		t.Errorf("cron secret = %q", cfg.Cron.Secret)
	}
	if !cfg.Redis.Enabled || cfg.Redis.URL != "redis://env-redis:6379" {
		t.Errorf("redis = %+v", cfg.Redis)
	}
	if cfg.SES.Region != "eu-west-1" {
		t.Errorf("ses region = %q", cfg.SES.Region)
	}
}
