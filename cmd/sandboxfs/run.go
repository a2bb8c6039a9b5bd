package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/marmos91/sandboxfs/internal/logger"
	"github.com/marmos91/sandboxfs/pkg/config"
	"github.com/marmos91/sandboxfs/pkg/files"
	"github.com/marmos91/sandboxfs/pkg/server"
	"github.com/spf13/cobra"
)

// loadConfig loads the file named by --config and applies flag overrides.
func loadConfig(cmd *cobra.Command, override func(*config.Config)) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if override != nil {
		override(cfg)
		config.ApplyDefaults(cfg)
		if err := config.Validate(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return cfg, nil
}

func configureLogging(cfg config.LoggingConfig) error {
	logger.SetLevel(cfg.Level)
	logger.SetFormat(cfg.Format)
	if err := logger.SetOutput(cfg.Output); err != nil {
		return fmt.Errorf("failed to configure log output: %w", err)
	}
	return nil
}

// run builds the store, service, metrics and adapters described by cfg and
// serves until SIGINT/SIGTERM or an adapter failure.
func run(cfg *config.Config) error {
	if err := configureLogging(cfg.Logging); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("SandboxFS %s (%s)", version, commit)
	logger.Info("Log level: %s, format: %s", cfg.Logging.Level, cfg.Logging.Format)

	metricsResult := config.InitializeMetrics(cfg)

	fileStore, err := config.CreateFileStore(ctx, &cfg.Store, metricsResult.StoreMetrics)
	if err != nil {
		return err
	}
	defer func() {
		if err := fileStore.Close(); err != nil {
			logger.Warn("Failed to close store: %v", err)
		}
	}()

	if cfg.Store.Type == "filesystem" {
		logger.Info("Store: filesystem at %v", cfg.Store.Filesystem["path"])
	} else {
		logger.Info("Store: %s", cfg.Store.Type)
	}

	service := files.New(fileStore, config.FilesOptions(&cfg.Files))
	if cfg.Files.StrictExtensions {
		logger.Info("Strict extensions: create and update only accept text extensions")
	}

	adapters, err := config.CreateAdapters(cfg, metricsResult.HTTPMetrics, version)
	if err != nil {
		return err
	}

	srv := server.New(service, cfg.Server.ShutdownTimeout)
	for _, a := range adapters {
		if err := srv.AddAdapter(a); err != nil {
			return err
		}
	}

	if metricsResult.Server != nil {
		go func() {
			if err := metricsResult.Server.Start(ctx); err != nil {
				logger.Error("Metrics server error: %v", err)
			}
		}()
		logger.Info("Metrics available on :%d/metrics", metricsResult.Server.Port())
	}

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Serve(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		logger.Info("Received %s, initiating graceful shutdown...", sig)
		cancel()

		if err := <-serverDone; err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		logger.Info("Server stopped gracefully")
		return nil

	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("Server stopped")
		return nil
	}
}
