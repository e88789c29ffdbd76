package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("SANITY_TOKEN", "secret-token")

	path := writeConfig(t, `
source:
  type: api
  fallback: computed
  cache_ttl: 2h
store:
  type: sanity
  sanity:
    project_id: abc123
    dataset: production
    token: ${SANITY_TOKEN}
translation:
  on_save: true
  names:
    Día de Pruebas: Testing Day
sync:
  enabled: true
  daily_time: "07:30"
  timezone: UTC
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Store.Sanity.Token != "secret-token" {
		t.Errorf("Sanity.Token = %q, want expanded env var", cfg.Store.Sanity.Token)
	}
	if cfg.Source.GetCacheTTL() != 2*time.Hour {
		t.Errorf("GetCacheTTL() = %v, want 2h", cfg.Source.GetCacheTTL())
	}
	if cfg.Source.MinEntries != 5 {
		t.Errorf("MinEntries = %d, want default 5", cfg.Source.MinEntries)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want default :8080", cfg.Server.Addr)
	}
	if !cfg.Translation.OnSave {
		t.Error("Translation.OnSave = false, want true")
	}
	if len(cfg.Translation.Names) != 1 {
		t.Errorf("Translation.Names = %v, want 1 entry", cfg.Translation.Names)
	}
	if h, m := cfg.Sync.GetDailyTime(); h != 7 || m != 30 {
		t.Errorf("GetDailyTime() = %d:%d, want 7:30", h, m)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HOLIDAY_STORE_TYPE", "postgres")
	t.Setenv("HOLIDAY_STORE_POSTGRES_DSN", "host=localhost dbname=holidays")

	path := writeConfig(t, "store:\n  type: sqlite\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Type != "postgres" {
		t.Errorf("Store.Type = %q, want postgres from env", cfg.Store.Type)
	}
	if cfg.Store.Postgres.DSN != "host=localhost dbname=holidays" {
		t.Errorf("Postgres.DSN = %q", cfg.Store.Postgres.DSN)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() expected error for missing explicit config file")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Source: SourceConfig{Type: "api", URL: "https://example.com/{year}"},
			Store:  StoreConfig{Type: "sqlite", SQLite: SQLiteConfig{Path: "holidays.db"}},
			Sync:   SyncConfig{Timezone: "UTC"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"url without year", func(c *Config) { c.Source.URL = "https://example.com" }, "source.url"},
		{"unknown source", func(c *Config) { c.Source.Type = "scraper" }, "source.type"},
		{"unknown fallback", func(c *Config) { c.Source.Fallback = "api" }, "source.fallback"},
		{"unknown store", func(c *Config) { c.Store.Type = "mongo" }, "store.type"},
		{"sanity without token", func(c *Config) {
			c.Store.Type = "sanity"
			c.Store.Sanity = SanityConfig{ProjectID: "abc", Dataset: "production"}
		}, "store.sanity.token"},
		{"postgres without dsn", func(c *Config) { c.Store.Type = "postgres" }, "store.postgres.dsn"},
		{"half configured auth", func(c *Config) { c.Server.AdminUser = "admin" }, "server.admin_user"},
		{"bad timezone", func(c *Config) {
			c.Sync.Enabled = true
			c.Sync.Timezone = "Mars/Olympus"
		}, "sync.timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetters(t *testing.T) {
	sync := SyncConfig{DailyTime: "25:00"}
	if h, m := sync.GetDailyTime(); h != 6 || m != 0 {
		t.Errorf("GetDailyTime() with invalid value = %d:%d, want 6:0", h, m)
	}

	src := SourceConfig{Timeout: "not-a-duration"}
	if src.GetTimeout() != 10*time.Second {
		t.Errorf("GetTimeout() = %v, want default", src.GetTimeout())
	}

	bulk := BulkConfig{}
	if bulk.GetMaxConcurrency() != 8 {
		t.Errorf("GetMaxConcurrency() = %d, want 8", bulk.GetMaxConcurrency())
	}

	server := ServerConfig{AdminUser: "admin", AdminPasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA"}
	if !server.AuthEnabled() {
		t.Error("AuthEnabled() = false, want true")
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("HOLIDAY_TEST_VALUE=from-file\n"), 0o644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("HOLIDAY_TEST_VALUE") })

	if err := LoadEnvFiles(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadEnvFiles() error = %v", err)
	}
	if got := os.Getenv("HOLIDAY_TEST_VALUE"); got != "from-file" {
		t.Errorf("HOLIDAY_TEST_VALUE = %q, want from-file", got)
	}
}
