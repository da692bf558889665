package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ianct-client/infrastructure/config"
	"ianct-client/infrastructure/di"
	"ianct-client/interfaces/cli"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML or JSON config file")
	server := flag.String("server", "", "API base URL, overrides the config")
	driver := flag.String("storage", "", "token store: memory, file or badger")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *server != "" {
		cfg.API.BaseURL = *server
	}
	if *driver != "" {
		cfg.Storage.Driver = *driver
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, cleanup, err := di.InitializeAdmin(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer cleanup()
	logger := container.Logger
	defer logger.Sync()

	if cfg.Metrics.Enabled && cfg.Metrics.Listen != "" {
		go func() {
			if err := container.Metrics.Serve(ctx, cfg.Metrics.Listen, logger); err != nil {
				logger.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	logger.Info("Starting admin console",
		zap.String("api", cfg.API.BaseURL),
		zap.String("storage", cfg.Storage.Driver),
		zap.Strings("config", cfg.LoadedFrom),
	)

	shell := cli.NewAdmin(container.Auth, container.API, container.Navigator, os.Stdout, logger)
	done := make(chan error, 1)
	go func() {
		done <- shell.Run(ctx, os.Stdin)
	}()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Shell stopped", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("Interrupted, shutting down")
	}
}
