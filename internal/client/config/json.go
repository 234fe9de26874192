package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aydevelopers/adminconsole/internal/flagx"
	"github.com/aydevelopers/adminconsole/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. Pointer fields tell an absent
// key from a zero value; only present keys are copied into Config.
type JsonConfig struct {
	ServerURL           *string         `json:"server_url"`
	EncryptionKey       *string         `json:"encryption_key"`
	StoragePath         *string         `json:"storage_path"`
	IdleTimeout         *timex.Duration `json:"idle_timeout"`
	MonitorPollInterval *timex.Duration `json:"monitor_poll_interval"`
	GuardSettleDelay    *timex.Duration `json:"guard_settle_delay"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	LogLevel            *string         `json:"log_level"`
	LogBackend          *string         `json:"log_backend"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without the flag nothing happens. Read or unmarshal errors
// and non-positive intervals panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc JsonConfig) apply(cfg *Config) {
	copyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	copyInterval := func(dst *time.Duration, src *timex.Duration, name string) {
		if src != nil {
			*dst = mustBePositive(name, src.Duration)
		}
	}

	copyString(&cfg.ServerURL, jc.ServerURL)
	copyString(&cfg.EncryptionKey, jc.EncryptionKey)
	copyString(&cfg.StoragePath, jc.StoragePath)
	copyString(&cfg.LogLevel, jc.LogLevel)
	copyString(&cfg.LogBackend, jc.LogBackend)
	copyInterval(&cfg.IdleTimeout, jc.IdleTimeout, "idle_timeout")
	copyInterval(&cfg.MonitorPollInterval, jc.MonitorPollInterval, "monitor_poll_interval")
	copyInterval(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval, "online_check_interval")
	copyInterval(&cfg.RequestTimeout, jc.RequestTimeout, "request_timeout")
	if jc.GuardSettleDelay != nil {
		if jc.GuardSettleDelay.Duration < 0 {
			panic(fmt.Errorf("guard_settle_delay must not be negative, got %s", jc.GuardSettleDelay.Duration))
		}
		cfg.GuardSettleDelay = jc.GuardSettleDelay.Duration
	}
}
