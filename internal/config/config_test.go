package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(WithConfigPaths(t.TempDir()), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != ":8080" || cfg.Storage.Backend != BackendMemory || !cfg.Storage.Seed {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Session.TTL != 30*24*time.Hour || cfg.Session.Cookie != "botanica_session" {
		t.Fatalf("unexpected session defaults: %+v", cfg.Session)
	}
	if !cfg.Metrics.Enabled || cfg.Otel.Enabled {
		t.Fatalf("unexpected observability defaults: metrics=%v otel=%v", cfg.Metrics.Enabled, cfg.Otel.Enabled)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
port: "9000"
storage:
  backend: database
postgres:
  driver: sqlite
  dsn: file::memory:
cors:
  allowed_origins: [https://shop.example]
session:
  ttl: 2h
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PORT", "7070")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(WithConfigPaths(dir), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != ":7070" {
		t.Fatalf("env should override file: addr=%s", cfg.Addr())
	}
	if cfg.Storage.Backend != BackendDB || cfg.Postgres.Driver != "sqlite" || cfg.Session.TTL != 2*time.Hour {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins: %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envFile, []byte("REDIS_ADDR=localhost:6379\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("REDIS_ADDR", "")
	os.Unsetenv("REDIS_ADDR")

	cfg, err := Load(WithConfigPaths(dir), WithEnvFile(envFile))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("redis addr: %q", cfg.Redis.Addr)
	}
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "cassandra")
	if _, err := Load(WithConfigPaths(t.TempDir()), WithEnvFile("")); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
