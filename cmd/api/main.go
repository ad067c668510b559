package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/PratikDhanave/edge-event-service/internal/config"
	"github.com/PratikDhanave/edge-event-service/internal/logging"
)

// version is injected at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "edge-events",
	Short:         "Ingestion API for edge-device detection events",
	SilenceUsage:  true,
	SilenceErrors: true,
	// Running the binary without a subcommand serves the API.
	RunE: serveCmd.RunE,
}

func init() {
	rootCmd.AddCommand(serveCmd, initDBCmd, populateCmd)
}

// loadDotEnv loads .env from the working directory when one exists.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// loadRuntime loads .env (if present), the full service config and the logger.
func loadRuntime() (config.Config, *slog.Logger, error) {
	if err := loadDotEnv(); err != nil {
		return config.Config{}, nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

// loadLogger is loadRuntime for commands that only talk to a running service.
func loadLogger() (*slog.Logger, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg, err := config.LoadLogConfig()
	if err != nil {
		return nil, err
	}
	return logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}

// main boots the CLI: config → DB → schema → HTTP server for the default command.
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
