package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/reqdesk-hq/reqdesk/internal/app"
	"github.com/reqdesk-hq/reqdesk/internal/config"
	"github.com/reqdesk-hq/reqdesk/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "reqdesk start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("reqdesk starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	console, err := app.NewConsole(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize console", "error", err)
		return err
	}
	defer console.Close()

	if err := console.Run(ctx); err != nil {
		return fmt.Errorf("console run: %w", err)
	}

	return nil
}
