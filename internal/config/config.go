package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr      string        // ex: "127.0.0.1:8321"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	DatabasePath string // path to the SQLite database file

	ImportBatchSize int           // records committed per transaction
	BusyTimeout     time.Duration // SQLite lock-wait budget per statement
	WriteRetries    int           // retries on SQLITE_BUSY before giving up
	RetryBackoff    time.Duration // initial backoff between write retries

	DefaultPageSize int // list page size when the caller omits limit
	MaxPageSize     int // hard cap on list limit
	MaxSearchLimit  int // hard cap on search results (single call, no paging)

	PreviewTimeout      time.Duration // per-fetch budget for link previews
	PreviewCacheTTL     time.Duration // memoization TTL for fetched previews
	PreviewMaxRedirects int

	LocalOnly      bool     // reject requests not coming from loopback
	AllowedOrigins []string // CORS origins for the desktop UI shell
}

// fileConfig mirrors Config for the optional YAML overlay
// (ETEREA_CONFIG_FILE). Pointers distinguish "absent" from zero values.
type fileConfig struct {
	ListenAddr          *string        `yaml:"listen_addr"`
	ShutdownTimeout     *time.Duration `yaml:"shutdown_timeout"`
	LogLevel            *string        `yaml:"log_level"`
	PrettyLog           *bool          `yaml:"pretty_log"`
	DatabasePath        *string        `yaml:"database_path"`
	ImportBatchSize     *int           `yaml:"import_batch_size"`
	BusyTimeout         *time.Duration `yaml:"busy_timeout"`
	WriteRetries        *int           `yaml:"write_retries"`
	RetryBackoff        *time.Duration `yaml:"retry_backoff"`
	DefaultPageSize     *int           `yaml:"default_page_size"`
	MaxPageSize         *int           `yaml:"max_page_size"`
	MaxSearchLimit      *int           `yaml:"max_search_limit"`
	PreviewTimeout      *time.Duration `yaml:"preview_timeout"`
	PreviewCacheTTL     *time.Duration `yaml:"preview_cache_ttl"`
	PreviewMaxRedirects *int           `yaml:"preview_max_redirects"`
	LocalOnly           *bool          `yaml:"local_only"`
	AllowedOrigins      []string       `yaml:"allowed_origins"`
}

// Load builds the configuration: defaults, then the optional YAML file,
// then ETEREA_* environment variables. Env always wins.
func Load() *Config {
	cfg := defaults()

	if path := os.Getenv("ETEREA_CONFIG_FILE"); path != "" {
		if err := applyFile(cfg, path); err != nil {
			panic(fmt.Sprintf("FATAL: cannot load config file %s: %v", path, err))
		}
	}

	applyEnv(cfg)

	if cfg.ImportBatchSize < 1 {
		panic("FATAL: import batch size must be at least 1")
	}
	if cfg.MaxPageSize < 1 || cfg.MaxSearchLimit < 1 {
		panic("FATAL: page and search limits must be at least 1")
	}

	return cfg
}

func defaults() *Config {
	return &Config{
		ListenAddr:      "127.0.0.1:8321",
		ShutdownTimeout: 5 * time.Second,

		LogLevel:  "info",
		PrettyLog: true,

		DatabasePath: DefaultDatabasePath(),

		ImportBatchSize: 500,
		BusyTimeout:     5 * time.Second,
		WriteRetries:    3,
		RetryBackoff:    100 * time.Millisecond,

		DefaultPageSize: 50,
		MaxPageSize:     200,
		MaxSearchLimit:  100,

		PreviewTimeout:      10 * time.Second,
		PreviewCacheTTL:     time.Hour,
		PreviewMaxRedirects: 5,

		LocalOnly:      true,
		AllowedOrigins: []string{"*"},
	}
}

// DefaultDatabasePath returns the per-user location of the bookmark store.
func DefaultDatabasePath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "eterea", "bookmarks.db")
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	setString(&cfg.ListenAddr, fc.ListenAddr)
	setDuration(&cfg.ShutdownTimeout, fc.ShutdownTimeout)
	setString(&cfg.LogLevel, fc.LogLevel)
	setBool(&cfg.PrettyLog, fc.PrettyLog)
	setString(&cfg.DatabasePath, fc.DatabasePath)
	setInt(&cfg.ImportBatchSize, fc.ImportBatchSize)
	setDuration(&cfg.BusyTimeout, fc.BusyTimeout)
	setInt(&cfg.WriteRetries, fc.WriteRetries)
	setDuration(&cfg.RetryBackoff, fc.RetryBackoff)
	setInt(&cfg.DefaultPageSize, fc.DefaultPageSize)
	setInt(&cfg.MaxPageSize, fc.MaxPageSize)
	setInt(&cfg.MaxSearchLimit, fc.MaxSearchLimit)
	setDuration(&cfg.PreviewTimeout, fc.PreviewTimeout)
	setDuration(&cfg.PreviewCacheTTL, fc.PreviewCacheTTL)
	setInt(&cfg.PreviewMaxRedirects, fc.PreviewMaxRedirects)
	setBool(&cfg.LocalOnly, fc.LocalOnly)
	if len(fc.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.AllowedOrigins
	}

	return nil
}

func applyEnv(cfg *Config) {
	cfg.ListenAddr = getenv("ETEREA_LISTEN_ADDR", cfg.ListenAddr)
	cfg.ShutdownTimeout = mustDuration("ETEREA_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)

	cfg.LogLevel = getenv("ETEREA_LOG_LEVEL", cfg.LogLevel)
	cfg.PrettyLog = mustBool("ETEREA_PRETTY_LOG", cfg.PrettyLog)

	cfg.DatabasePath = getenv("ETEREA_DB_PATH", cfg.DatabasePath)

	cfg.ImportBatchSize = getenvInt("ETEREA_IMPORT_BATCH_SIZE", cfg.ImportBatchSize)
	cfg.BusyTimeout = mustDuration("ETEREA_BUSY_TIMEOUT", cfg.BusyTimeout)
	cfg.WriteRetries = getenvInt("ETEREA_WRITE_RETRIES", cfg.WriteRetries)
	cfg.RetryBackoff = mustDuration("ETEREA_RETRY_BACKOFF", cfg.RetryBackoff)

	cfg.DefaultPageSize = getenvInt("ETEREA_DEFAULT_PAGE_SIZE", cfg.DefaultPageSize)
	cfg.MaxPageSize = getenvInt("ETEREA_MAX_PAGE_SIZE", cfg.MaxPageSize)
	cfg.MaxSearchLimit = getenvInt("ETEREA_MAX_SEARCH_LIMIT", cfg.MaxSearchLimit)

	cfg.PreviewTimeout = mustDuration("ETEREA_PREVIEW_TIMEOUT", cfg.PreviewTimeout)
	cfg.PreviewCacheTTL = mustDuration("ETEREA_PREVIEW_CACHE_TTL", cfg.PreviewCacheTTL)
	cfg.PreviewMaxRedirects = getenvInt("ETEREA_PREVIEW_MAX_REDIRECTS", cfg.PreviewMaxRedirects)

	cfg.LocalOnly = mustBool("ETEREA_LOCAL_ONLY", cfg.LocalOnly)
	if v := os.Getenv("ETEREA_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitAndTrim(v)
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *time.Duration) {
	if v != nil {
		*dst = *v
	}
}
