// Package main provides the entry point for the audiotrim shell.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/maauso/audiotrim/internal/bootstrap"
	"github.com/maauso/audiotrim/internal/config"
	"github.com/maauso/audiotrim/internal/shell"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Create structured logger
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting audiotrim",
		slog.String("log_format", cfg.LogFormat),
		slog.String("log_level", cfg.LogLevel),
		slog.String("temp_dir", cfg.TempDir),
		slog.String("export_format", cfg.ExportFormat),
		slog.Int("waveform_points", cfg.WaveformPoints),
		slog.Bool("s3_enabled", cfg.S3Enabled()),
	)

	deps, err := bootstrap.NewDependencies(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sh := shell.New(deps.Session, os.Stdout, logger)

	// Optional first argument is loaded before the prompt appears.
	if len(os.Args) > 1 {
		if err := sh.Exec(ctx, "load "+os.Args[1]); err != nil {
			fmt.Fprintf(os.Stdout, "error: %v\n", err)
		}
	}

	if err := sh.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		return fmt.Errorf("shell: %w", err)
	}

	logger.Info("audiotrim stopped")
	return nil
}
