package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aydevelopers/adminconsole/internal/buildinfo"
	"github.com/aydevelopers/adminconsole/internal/client/cli"
	"github.com/aydevelopers/adminconsole/internal/client/config"
	"github.com/aydevelopers/adminconsole/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogBackend, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "console start failed", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
