package config

import (
	"testing"
	"time"

	"github.com/angelmondragon/storefront-core/pkg/enums"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsDev() {
		t.Fatalf("expected dev env by default, got %q", cfg.App.Env)
	}
	if cfg.App.Port != "8080" {
		t.Fatalf("unexpected default port %q", cfg.App.Port)
	}
	if cfg.Store.Kind() != enums.StoreBackendFile {
		t.Fatalf("expected file backend by default, got %q", cfg.Store.Backend)
	}
	if cfg.Store.FilePath != "data/storefront.json" {
		t.Fatalf("unexpected default file path %q", cfg.Store.FilePath)
	}
	if cfg.Redis.ReadTimeout != 3*time.Second {
		t.Fatalf("expected redis read timeout 3s, got %v", cfg.Redis.ReadTimeout)
	}
	if !cfg.FeatureFlags.AutoMigrate {
		t.Fatal("expected auto migrate enabled by default")
	}
}

func TestLoad_RedisBackend(t *testing.T) {
	t.Setenv(EnvStoreBackend, "Redis")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvAppEnv, "prod")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Store.Kind() != enums.StoreBackendRedis {
		t.Fatalf("expected redis backend, got %q", cfg.Store.Backend)
	}
	if !cfg.App.IsProd() {
		t.Fatalf("expected prod env, got %q", cfg.App.Env)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected Redis URL: %q", cfg.Redis.URL)
	}
}

func TestLoad_RedisBackendRequiresAddress(t *testing.T) {
	t.Setenv(EnvStoreBackend, "redis")

	if _, err := Load(); err == nil {
		t.Fatal("expected missing redis address to return an error")
	}
}

func TestLoad_SQLBackend(t *testing.T) {
	t.Setenv(EnvStoreBackend, "sql")
	if _, err := Load(); err == nil {
		t.Fatal("expected missing DSN to return an error")
	}

	t.Setenv(EnvDBDSN, "file:storefront.db")
	t.Setenv(EnvDBDriver, "mysql")
	if _, err := Load(); err == nil {
		t.Fatal("expected unsupported driver to return an error")
	}

	t.Setenv(EnvDBDriver, "SQLite")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.DB.Driver != DBDriverSQLite {
		t.Fatalf("expected normalized sqlite driver, got %q", cfg.DB.Driver)
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv(EnvStoreBackend, "localstorage")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown backend to return an error")
	}
}
