// Package config loads runtime configuration for the admin console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, optionally seeded from a dotenv file (see
//     parseEnv): -env selects the file, otherwise ./.env is used if present.
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend REST API
//	-k string   credential cache secret
//	-s string   local storage database path
//	-t int      idle timeout (minutes)
//	-i int      online status check interval (seconds)
//
// # Environment
//
//	ADMIN_CONSOLE_SERVER_URL, ADMIN_CONSOLE_ENCRYPTION_KEY, ADMIN_CONSOLE_STORAGE,
//	ADMIN_CONSOLE_IDLE_TIMEOUT, ADMIN_CONSOLE_LOG_LEVEL, ADMIN_CONSOLE_LOG_BACKEND
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_url": "https://api.example.com",
//	  "encryption_key": "change-me",
//	  "storage_path": "/var/lib/adminconsole/console.db",
//	  "idle_timeout": "1h",
//	  "monitor_poll_interval": "5s",
//	  "guard_settle_delay": "100ms",
//	  "online_check_interval": "3s",
//	  "request_timeout": "10s",
//	  "log_level": "debug",
//	  "log_backend": "zap"
//	}
//
// Invalid JSON, environment values or flags panic at start-up.
package config
