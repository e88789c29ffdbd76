package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents application configuration
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Source      SourceConfig      `mapstructure:"source"`
	Store       StoreConfig       `mapstructure:"store"`
	Translation TranslationConfig `mapstructure:"translation"`
	Bulk        BulkConfig        `mapstructure:"bulk"`
	Sync        SyncConfig        `mapstructure:"sync"`
	Log         LogConfig         `mapstructure:"log"`
}

// ServerConfig represents HTTP API configuration
type ServerConfig struct {
	Addr              string `mapstructure:"addr"`
	AdminUser         string `mapstructure:"admin_user"`
	AdminPasswordHash string `mapstructure:"admin_password_hash"` // argon2id encoded hash, see hash-password
	CacheMaxAge       string `mapstructure:"cache_max_age"`
	ReadTimeout       string `mapstructure:"read_timeout"`
}

// SourceConfig represents holiday source configuration
type SourceConfig struct {
	Type       string `mapstructure:"type"`     // "api", "file" or "computed"
	Fallback   string `mapstructure:"fallback"` // "", "file" or "computed"
	URL        string `mapstructure:"url"`      // must contain {year}
	Dir        string `mapstructure:"dir"`      // directory of <year>.json files
	Timeout    string `mapstructure:"timeout"`
	CacheTTL   string `mapstructure:"cache_ttl"`
	MinEntries int    `mapstructure:"min_entries"`
}

// StoreConfig represents document store configuration
type StoreConfig struct {
	Type     string         `mapstructure:"type"` // "sqlite", "sanity" or "postgres"
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Sanity   SanityConfig   `mapstructure:"sanity"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// SQLiteConfig represents the embedded store
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// SanityConfig represents the Sanity content lake
type SanityConfig struct {
	ProjectID  string `mapstructure:"project_id"`
	Dataset    string `mapstructure:"dataset"`
	APIVersion string `mapstructure:"api_version"`
	Token      string `mapstructure:"token"`
	Timeout    string `mapstructure:"timeout"`
	MaxRetries int    `mapstructure:"max_retries"`
}

// PostgresConfig represents the PostgreSQL store
type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// TranslationConfig represents translation settings
type TranslationConfig struct {
	OnSave bool              `mapstructure:"on_save"` // fill missing English fields when saving candidates
	Names  map[string]string `mapstructure:"names"`   // extra Spanish → English name entries
}

// BulkConfig represents bulk operation settings
type BulkConfig struct {
	MaxConcurrency int `mapstructure:"max_concurrency"`
}

// SyncConfig represents scheduled import configuration
type SyncConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	DailyTime  string `mapstructure:"daily_time"` // HH:MM in Timezone
	Timezone   string `mapstructure:"timezone"`
	YearsAhead int    `mapstructure:"years_ahead"`
	Translate  bool   `mapstructure:"translate"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

var defaults = map[string]interface{}{
	"server.addr":                ":8080",
	"server.admin_user":          "",
	"server.admin_password_hash": "",
	"server.cache_max_age":       "1h",
	"server.read_timeout":        "15s",
	"source.type":                "api",
	"source.fallback":            "",
	"source.url":                 "https://api.argentinadatos.com/v1/feriados/{year}",
	"source.dir":                 "holidays",
	"source.timeout":             "10s",
	"source.cache_ttl":           "24h",
	"source.min_entries":         5,
	"store.type":                 "sqlite",
	"store.sqlite.path":          "holidays.db",
	"store.sanity.project_id":    "",
	"store.sanity.dataset":       "production",
	"store.sanity.api_version":   "2025-10-17",
	"store.sanity.token":         "",
	"store.sanity.timeout":       "30s",
	"store.sanity.max_retries":   3,
	"store.postgres.dsn":         "",
	"translation.on_save":        false,
	"bulk.max_concurrency":       8,
	"sync.enabled":               false,
	"sync.daily_time":            "06:00",
	"sync.timezone":              "America/Argentina/Buenos_Aires",
	"sync.years_ahead":           1,
	"sync.translate":             true,
	"log.file":                   "",
	"log.level":                  "info",
}

// LoadEnvFiles loads .env style files into the process environment.
// Missing files are skipped; variables already set win.
func LoadEnvFiles(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	return nil
}

// Load loads configuration from file and HOLIDAY_ prefixed environment variables
func Load(configPath string) (*Config, error) {
	if err := LoadEnvFiles(".env.local", ".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.holiday-calendar")
		v.AddConfigPath("/etc/holiday-calendar")
	}

	// Read environment variables
	v.SetEnvPrefix("HOLIDAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file. Without an explicit path the file is optional.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate Source config
	switch c.Source.Type {
	case "api":
		if !strings.Contains(c.Source.URL, "{year}") {
			return fmt.Errorf("source.url must contain {year}")
		}
	case "file":
		if c.Source.Dir == "" {
			return fmt.Errorf("source.dir is required for file type")
		}
	case "computed":
	default:
		return fmt.Errorf("source.type must be 'api', 'file' or 'computed', got '%s'", c.Source.Type)
	}

	switch c.Source.Fallback {
	case "", "computed":
	case "file":
		if c.Source.Dir == "" {
			return fmt.Errorf("source.dir is required for file fallback")
		}
	default:
		return fmt.Errorf("source.fallback must be empty, 'file' or 'computed', got '%s'", c.Source.Fallback)
	}

	// Validate Store config
	switch c.Store.Type {
	case "sqlite":
		if c.Store.SQLite.Path == "" {
			return fmt.Errorf("store.sqlite.path is required for sqlite type")
		}
	case "sanity":
		if c.Store.Sanity.ProjectID == "" {
			return fmt.Errorf("store.sanity.project_id is required for sanity type")
		}
		if c.Store.Sanity.Dataset == "" {
			return fmt.Errorf("store.sanity.dataset is required for sanity type")
		}
		if c.Store.Sanity.Token == "" {
			return fmt.Errorf("store.sanity.token is required for sanity type")
		}
	case "postgres":
		if c.Store.Postgres.DSN == "" {
			return fmt.Errorf("store.postgres.dsn is required for postgres type")
		}
	default:
		return fmt.Errorf("store.type must be 'sqlite', 'sanity' or 'postgres', got '%s'", c.Store.Type)
	}

	if c.Bulk.MaxConcurrency < 0 {
		return fmt.Errorf("bulk.max_concurrency must not be negative")
	}

	// Validate Server config
	if (c.Server.AdminUser == "") != (c.Server.AdminPasswordHash == "") {
		return fmt.Errorf("server.admin_user and server.admin_password_hash must be set together")
	}

	// Validate Sync config
	if c.Sync.Enabled {
		if _, err := time.LoadLocation(c.Sync.Timezone); err != nil {
			return fmt.Errorf("sync.timezone is invalid: %w", err)
		}
		if c.Sync.YearsAhead < 0 {
			return fmt.Errorf("sync.years_ahead must not be negative")
		}
	}

	return nil
}

// GetTimeout returns the holiday source HTTP timeout
func (c *SourceConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 10*time.Second)
}

// GetCacheTTL returns cache TTL duration
func (c *SourceConfig) GetCacheTTL() time.Duration {
	return parseDuration(c.CacheTTL, 24*time.Hour)
}

// GetTimeout returns the Sanity HTTP timeout
func (c *SanityConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 30*time.Second)
}

// GetCacheMaxAge returns the public Cache-Control max age
func (c *ServerConfig) GetCacheMaxAge() time.Duration {
	return parseDuration(c.CacheMaxAge, time.Hour)
}

// GetReadTimeout returns the HTTP read timeout
func (c *ServerConfig) GetReadTimeout() time.Duration {
	return parseDuration(c.ReadTimeout, 15*time.Second)
}

// AuthEnabled reports whether admin routes require Basic Auth
func (c *ServerConfig) AuthEnabled() bool {
	return c.AdminUser != "" && c.AdminPasswordHash != ""
}

// GetMaxConcurrency returns the bulk fan-out limit
func (c *BulkConfig) GetMaxConcurrency() int {
	if c.MaxConcurrency <= 0 {
		return 8
	}
	return c.MaxConcurrency
}

// GetDailyTime returns the configured daily sync time
// Returns hour and minute (0-23, 0-59). Default: 06:00
func (c *SyncConfig) GetDailyTime() (hour, minute int) {
	if c.DailyTime == "" {
		return 6, 0
	}

	var h, m int
	_, err := fmt.Sscanf(c.DailyTime, "%d:%d", &h, &m)
	if err != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 6, 0 // Fallback to default
	}
	return h, m
}

// GetLocation returns the sync timezone, UTC when invalid
func (c *SyncConfig) GetLocation() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.Store.Sanity.Token = os.ExpandEnv(c.Store.Sanity.Token)
	c.Store.Sanity.ProjectID = os.ExpandEnv(c.Store.Sanity.ProjectID)
	c.Store.Postgres.DSN = os.ExpandEnv(c.Store.Postgres.DSN)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return duration
}
