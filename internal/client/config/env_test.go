package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_ProcessEnvironment(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"console"}
	clearEnv(t)

	t.Setenv(EnvServerURL, "https://api.example.com")
	t.Setenv(EnvEncryptionKey, "k")
	t.Setenv(EnvStoragePath, "/tmp/x.db")
	t.Setenv(EnvIdleTimeout, "90s")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogBackend, "zap")

	var cfg Config
	cfg.LoadDefaults()
	parseEnv(&cfg)

	assert.Equal(t, "https://api.example.com", cfg.ServerURL)
	assert.Equal(t, "k", cfg.EncryptionKey)
	assert.Equal(t, "/tmp/x.db", cfg.StoragePath)
	assert.Equal(t, 90*time.Second, cfg.IdleTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "zap", cfg.LogBackend)
}

func TestParseEnv_IdleTimeoutMinutes(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"console"}
	clearEnv(t)
	t.Setenv(EnvIdleTimeout, "15")

	var cfg Config
	parseEnv(&cfg)
	assert.Equal(t, 15*time.Minute, cfg.IdleTimeout)
}

func TestParseEnv_InvalidIdleTimeoutPanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"console"}
	clearEnv(t)
	for _, v := range []string{"soon", "0", "-10m"} {
		t.Setenv(EnvIdleTimeout, v)

		var cfg Config
		require.Panics(t, func() { parseEnv(&cfg) }, v)
	}
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "console.env")
	require.NoError(t, os.WriteFile(path, []byte(
		EnvEncryptionKey+"=from-file\n"+EnvServerURL+"=http://file:1\n"), 0o600))

	// the process environment wins over the file
	t.Setenv(EnvServerURL, "http://process:1")
	os.Args = []string{"console", "-env", path}

	var cfg Config
	cfg.LoadDefaults()
	parseEnv(&cfg)

	assert.Equal(t, "from-file", cfg.EncryptionKey)
	assert.Equal(t, "http://process:1", cfg.ServerURL)
}

func TestParseEnv_MissingDotEnvFilePanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	clearEnv(t)
	os.Args = []string{"console", "-env", filepath.Join(t.TempDir(), "absent.env")}

	var cfg Config
	require.Panics(t, func() { parseEnv(&cfg) })
}
