// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes ShipStation
// credentials, Slack delivery settings, the seen-order store location, and
// HTTP/logging knobs.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tbourn/shipstation-cli/internal/sysutil"
)

// SlackConfig defines Slack delivery settings. Token and Channel are only
// required when notifications are requested.
type SlackConfig struct {
	Token   string // SLACK_BOT_TOKEN
	Channel string // SLACK_CHANNEL
	APIURL  string // SLACK_API_URL (override for tests)
}

// Config holds all configuration values for the application.
type Config struct {
	// ShipStation API
	APIKey    string // SHIPSTATION_API_KEY
	APISecret string // SHIPSTATION_API_SECRET
	APIURL    string // SHIPSTATION_API_URL (override for tests)

	// Local store
	DBPath string // SHIPSTATION_DB_PATH; default ~/.shipstation/orders.db

	// HTTP
	HTTPTimeout time.Duration // HTTP_TIMEOUT, e.g. 30s
	PageSize    int           // PAGE_SIZE; orders requested per call (max 500)

	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs (default true for a CLI)

	// Slack
	Slack SlackConfig
}

// SlackConfigured reports whether both the bot token and the channel are set.
func (c Config) SlackConfigured() bool {
	return strings.TrimSpace(c.Slack.Token) != "" && strings.TrimSpace(c.Slack.Channel) != ""
}

// Load reads configuration from environment variables, applies defaults,
// and validates the result.
//
// Credentials are intentionally NOT validated here: --list-stores and plain
// fetches fail with a credential error inside the client, before any
// network call, which keeps config loading usable for e.g. --help.
func Load() (Config, error) {
	cfg := Config{
		APIKey:    getenv("SHIPSTATION_API_KEY", ""),
		APISecret: getenv("SHIPSTATION_API_SECRET", ""),
		APIURL:    getenv("SHIPSTATION_API_URL", "https://ssapi.shipstation.com"),

		DBPath: sysutil.FirstNonEmpty(os.Getenv("SHIPSTATION_DB_PATH"), defaultDBPath()),

		HTTPTimeout: getdur("HTTP_TIMEOUT", 30*time.Second),
		PageSize:    getint("PAGE_SIZE", 500),

		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", true),

		Slack: SlackConfig{
			Token:   getenv("SLACK_BOT_TOKEN", ""),
			Channel: getenv("SLACK_CHANNEL", ""),
			APIURL:  getenv("SLACK_API_URL", "https://slack.com/api/chat.postMessage"),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.APIURL) == "" {
		return cfg, errors.New("SHIPSTATION_API_URL must not be empty")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("SHIPSTATION_DB_PATH must not be empty")
	}
	if cfg.HTTPTimeout <= 0 {
		return cfg, errors.New("HTTP_TIMEOUT must be a positive duration")
	}
	if cfg.PageSize < 1 || cfg.PageSize > 500 {
		return cfg, errors.New("PAGE_SIZE must be between 1 and 500")
	}

	return cfg, nil
}

// defaultDBPath returns ~/.shipstation/orders.db, or a relative fallback
// when the home directory cannot be resolved.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".shipstation", "orders.db")
	}
	return filepath.Join(home, ".shipstation", "orders.db")
}

// ---- env helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return sysutil.IsTruthy(v)
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
