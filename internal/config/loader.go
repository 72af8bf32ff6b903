package config

import (
	"fmt"
	"math"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Defaults returns a Config populated only from the default tags, ignoring
// the environment. Used by the CLI, which takes its settings from flags.
func Defaults() *Config {
	cfg := &Config{}
	if err := loadDefaults(reflect.ValueOf(cfg).Elem()); err != nil {
		panic(fmt.Sprintf("invalid default tag: %v", err))
	}
	return cfg
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// loadDefaults recursively applies default tags only.
func loadDefaults(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := loadDefaults(fieldVal); err != nil {
				return err
			}
			continue
		}

		if def := field.Tag.Get("default"); def != "" {
			if err := setField(fieldVal, def); err != nil {
				return fmt.Errorf("%s: %w", field.Name, err)
			}
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number: %w", err)
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}
		// Split comma-separated values, trim whitespace
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				result = append(result, p)
			}
		}
		field.Set(reflect.ValueOf(result))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Database validation (only when a database is configured)
	if c.Database.HasDatabase() {
		if c.Database.MaxConns <= 0 {
			errs = append(errs, "DB_MAX_CONNS must be positive")
		}
		if c.Database.MinConns < 0 {
			errs = append(errs, "DB_MIN_CONNS must be non-negative")
		}
		if c.Database.MaxConns < c.Database.MinConns {
			errs = append(errs, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
				c.Database.MaxConns, c.Database.MinConns))
		}
	}

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	// Reconcile validation
	if !validThreshold(c.Reconcile.OptionThreshold) {
		errs = append(errs, fmt.Sprintf("RECONCILE_OPTION_THRESHOLD (%v) must be between 0 and 1", c.Reconcile.OptionThreshold))
	}
	if !validThreshold(c.Reconcile.MergeThreshold) {
		errs = append(errs, fmt.Sprintf("RECONCILE_MERGE_THRESHOLD (%v) must be between 0 and 1", c.Reconcile.MergeThreshold))
	}
	if c.Reconcile.MaxFileSize <= 0 {
		errs = append(errs, "RECONCILE_MAX_FILE_SIZE must be positive")
	}
	if c.Reconcile.MaxConcurrent <= 0 {
		errs = append(errs, "RECONCILE_MAX_CONCURRENT must be positive")
	}
	if c.Reconcile.MaxWaitTime <= 0 {
		errs = append(errs, "RECONCILE_MAX_WAIT_TIME must be positive")
	}
	if c.Reconcile.Timeout <= 0 {
		errs = append(errs, "RECONCILE_TIMEOUT must be positive")
	}
	if c.Reconcile.ResultCache < 0 {
		errs = append(errs, "RECONCILE_RESULT_CACHE must be non-negative")
	}
	if !validDelimiter(c.Reconcile.Delimiter) {
		errs = append(errs, fmt.Sprintf("RECONCILE_DELIMITER (%q) must be a single character other than a quote or line break", c.Reconcile.Delimiter))
	}

	// Rate limit validation
	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}

	// Security validation
	if c.Security.RequireAPIKey && len(c.Security.APIKeys) == 0 {
		errs = append(errs, "API_KEYS must be set when REQUIRE_API_KEY is true")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func validDelimiter(d string) bool {
	switch d {
	case "", "tab", `\t`:
		return true
	}
	if utf8.RuneCountInString(d) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(d)
	return r != '"' && r != '\r' && r != '\n' && r != utf8.RuneError
}

func validThreshold(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// String returns a safe string representation of the config for logging.
// The database URL is masked.
func (c *Config) String() string {
	dbURL := "[NONE]"
	if c.Database.HasDatabase() {
		dbURL = "[MASKED]"
	}

	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Database: {URL: %s, MaxConns: %d, MinConns: %d}, ",
		dbURL, c.Database.MaxConns, c.Database.MinConns))
	b.WriteString(fmt.Sprintf("Reconcile: {OptionThreshold: %v, MergeThreshold: %v, MaxConcurrent: %d, Delimiter: %q, CleanCells: %v}, ",
		c.Reconcile.OptionThreshold, c.Reconcile.MergeThreshold, c.Reconcile.MaxConcurrent,
		c.Reconcile.Delimiter, c.Reconcile.CleanCells))
	b.WriteString(fmt.Sprintf("Rate: {Enabled: %v, RequestsPerMinute: %d}, ",
		c.Rate.Enabled, c.Rate.RequestsPerMinute))
	b.WriteString(fmt.Sprintf("Security: {TrustedProxies: %d, RequireAPIKey: %v, APIKeys: %d}, ",
		len(c.Security.TrustedProxies), c.Security.RequireAPIKey, len(c.Security.APIKeys)))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
