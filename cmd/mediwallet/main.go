package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mediwallet/internal/cli"
	"mediwallet/internal/config"
	"mediwallet/internal/domain"
	"mediwallet/internal/logging"
	"mediwallet/internal/platform"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	open := func(ctx context.Context) (domain.Backend, error) {
		return platform.Open(ctx, cfg, logger)
	}
	if err := cli.NewApp(os.Stdin, os.Stdout, open, cfg.Polling).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
