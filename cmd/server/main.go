package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/ordo/internal/buildinfo"
	"github.com/dmitrijs2005/ordo/internal/logging"
	"github.com/dmitrijs2005/ordo/internal/server"
	"github.com/dmitrijs2005/ordo/internal/server/config"
	"github.com/dmitrijs2005/ordo/internal/telemetry"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.LoadConfig()
	log := logging.New(os.Stdout, "json", cfg.LogLevel)

	shutdown, err := telemetry.Setup(ctx, "ordo-server", cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.Background()) }()

	app, err := server.NewApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	return app.Run(ctx)
}
