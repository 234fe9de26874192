package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the admin console.
//
// Fields:
//   - ServerURL: base URL of the backend REST API.
//   - EncryptionKey: shared secret the credential cache key is derived from;
//     empty selects the built-in fallback.
//   - StoragePath: SQLite file backing the console's local storage.
//   - IdleTimeout: inactivity period after which the session expires.
//   - MonitorPollInterval: how often the session monitor re-checks storage.
//   - GuardSettleDelay: wait before a protected view reads the credential.
//   - OnlineCheckInterval: how often the console probes backend reachability.
//   - RequestTimeout: per-request limit for backend calls.
//   - LogLevel, LogBackend: diagnostics verbosity and back end (slog or zap).
type Config struct {
	ServerURL           string
	EncryptionKey       string
	StoragePath         string
	IdleTimeout         time.Duration
	MonitorPollInterval time.Duration
	GuardSettleDelay    time.Duration
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	LogLevel            string
	LogBackend          string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.EncryptionKey = ""
	c.StoragePath = "console.db"
	c.IdleTimeout = time.Hour
	c.MonitorPollInterval = 5 * time.Second
	c.GuardSettleDelay = 100 * time.Millisecond
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "info"
	c.LogBackend = "slog"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and an optional .env file), JSON (if present) and
// command-line flags (if present). Later sources take precedence over earlier
// ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// mustBePositive panics on a non-positive interval; a zero ticker or timer
// period would otherwise fail long after start-up.
func mustBePositive(name string, d time.Duration) time.Duration {
	if d <= 0 {
		panic(fmt.Errorf("%s must be positive, got %s", name, d))
	}
	return d
}
