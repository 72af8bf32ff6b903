// Package config provides centralized configuration management for the
// reconciliation service. It loads configuration from environment variables
// with sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import (
	"strconv"
	"time"
	"unicode/utf8"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Reconcile ReconcileConfig
	Rate      RateLimitConfig
	Security  SecurityConfig
	Logging   LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing a response (default: 5m)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"5m"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds settings for the run history database.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. When empty, run history is
	// kept in memory and lost on restart.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// ReconcileConfig holds matching thresholds and run limits.
type ReconcileConfig struct {
	// OptionThreshold is the minimum similarity for a candidate (default: 0.5)
	OptionThreshold float64 `env:"RECONCILE_OPTION_THRESHOLD" default:"0.5"`

	// MergeThreshold must be strictly exceeded to auto-merge (default: 0.7)
	MergeThreshold float64 `env:"RECONCILE_MERGE_THRESHOLD" default:"0.7"`

	// MaxFileSize is the maximum size of each uploaded table in bytes (default: 50MB)
	MaxFileSize int64 `env:"RECONCILE_MAX_FILE_SIZE" default:"52428800"`

	// MaxConcurrent is the maximum number of parallel runs (default: 4)
	MaxConcurrent int `env:"RECONCILE_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long to wait for a run slot (default: 30s)
	MaxWaitTime time.Duration `env:"RECONCILE_MAX_WAIT_TIME" default:"30s"`

	// Timeout is the maximum duration of a single run (default: 5m)
	Timeout time.Duration `env:"RECONCILE_TIMEOUT" default:"5m"`

	// ResultCache is how many finished results are kept for download (default: 32)
	ResultCache int `env:"RECONCILE_RESULT_CACHE" default:"32"`

	// Delimiter is the CSV field separator for reading and writing; "tab" means \t (default: ,)
	Delimiter string `env:"RECONCILE_DELIMITER" default:","`

	// CleanCells strips whitespace and Excel ="..." wrappers from every cell (default: false)
	CleanCells bool `env:"RECONCILE_CLEAN_CELLS" default:"false"`

	// CRLF terminates written CSV lines with \r\n (default: false)
	CRLF bool `env:"RECONCILE_CSV_CRLF" default:"false"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey rejects API requests without a valid X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Comma returns the field separator as a rune. Empty means ','.
// Validate rejects values that are not a single usable rune.
func (c *ReconcileConfig) Comma() rune {
	switch c.Delimiter {
	case "":
		return ','
	case "tab", `\t`:
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// HasDatabase reports whether a database URL was configured.
func (c *DatabaseConfig) HasDatabase() bool {
	return c.URL != ""
}
