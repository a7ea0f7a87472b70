package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/ordo/internal/buildinfo"
	"github.com/dmitrijs2005/ordo/internal/client/cli"
	"github.com/dmitrijs2005/ordo/internal/client/config"
	"github.com/dmitrijs2005/ordo/internal/logging"
	"github.com/dmitrijs2005/ordo/internal/telemetry"
)

const pingInterval = 5 * time.Second

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.LoadConfig()
	log := logging.New(os.Stderr, "text", cfg.LogLevel)

	shutdown, err := telemetry.Setup(ctx, "ordo-client", cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.Background()) }()

	app, closeApp, err := cli.NewAppFromConfig(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeApp()

	return app.Run(ctx, pingInterval)
}
