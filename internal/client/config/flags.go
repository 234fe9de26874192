package config

import (
	"flag"
	"os"
	"time"

	"github.com/aydevelopers/adminconsole/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend REST API
//	-k string   shared secret for the credential cache
//	-s string   path of the local storage database
//	-t int      idle timeout (in minutes)
//	-i int      online check interval (in seconds)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-k", "-s", "-t", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the backend API")
	fs.StringVar(&cfg.EncryptionKey, "k", cfg.EncryptionKey, "credential cache secret")
	fs.StringVar(&cfg.StoragePath, "s", cfg.StoragePath, "local storage database path")
	idleTimeout := fs.Int("t", int(cfg.IdleTimeout.Minutes()), "idle timeout (in minutes)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Durations are only overridden by flags that were actually given.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.IdleTimeout = mustBePositive("-t", time.Duration(*idleTimeout)*time.Minute)
		case "i":
			cfg.OnlineCheckInterval = mustBePositive("-i", time.Duration(*onlineCheckInterval)*time.Second)
		}
	})
}
