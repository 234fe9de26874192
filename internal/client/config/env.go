package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aydevelopers/adminconsole/internal/flagx"
	"github.com/joho/godotenv"
)

const (
	EnvServerURL     = "ADMIN_CONSOLE_SERVER_URL"
	EnvEncryptionKey = "ADMIN_CONSOLE_ENCRYPTION_KEY"
	EnvStoragePath   = "ADMIN_CONSOLE_STORAGE"
	EnvIdleTimeout   = "ADMIN_CONSOLE_IDLE_TIMEOUT"
	EnvLogLevel      = "ADMIN_CONSOLE_LOG_LEVEL"
	EnvLogBackend    = "ADMIN_CONSOLE_LOG_BACKEND"
)

// parseEnv overlays Config with environment variables.
//
// A dotenv file is loaded first: the one named by -env (which must exist), or
// ./.env when present. Variables already set in the process environment win
// over the file.
//
// ADMIN_CONSOLE_IDLE_TIMEOUT accepts a Go duration ("30m") or a plain number
// of minutes. Invalid or non-positive values panic.
func parseEnv(cfg *Config) {
	if path := flagx.EnvFileFlag(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			panic(err)
		}
	}

	setString(&cfg.ServerURL, EnvServerURL)
	setString(&cfg.EncryptionKey, EnvEncryptionKey)
	setString(&cfg.StoragePath, EnvStoragePath)
	setString(&cfg.LogLevel, EnvLogLevel)
	setString(&cfg.LogBackend, EnvLogBackend)

	if v, ok := os.LookupEnv(EnvIdleTimeout); ok && v != "" {
		d, err := parseMinutes(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvIdleTimeout, err))
		}
		cfg.IdleTimeout = mustBePositive(EnvIdleTimeout, d)
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func parseMinutes(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Minute, nil
	}
	return time.ParseDuration(v)
}
