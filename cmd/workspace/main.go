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

	container, cleanup, err := di.InitializeWorkspace(ctx, cfg)
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

	logger.Info("Starting workspace",
		zap.String("api", cfg.API.BaseURL),
		zap.String("storage", cfg.Storage.Driver),
		zap.Strings("config", cfg.LoadedFrom),
	)

	shell := cli.NewWorkspace(cli.WorkspaceDeps{
		Session:   container.Session,
		Projects:  container.Projects,
		Texts:     container.Texts,
		Models:    container.API.Models,
		Geo:       container.API.Geo,
		Dashboard: container.API.Dashboard,
		Navigator: container.Navigator,
		ExportDir: cfg.Export.Dir,
	}, os.Stdout, logger)
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
