package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/peercheck"
	"github.com/jpalmerr/peercheck/config"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 10 * time.Second
)

// newLogger creates a JSON logger for CLI use.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// loadConfig reads the file named by --config, or returns the defaults when
// the flag is empty. A non-zero --port overrides the file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")

	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Lookup("port") != nil {
		port, _ := cmd.Flags().GetInt("port")
		if port != 0 {
			cfg.Port = port
		}
	}

	return cfg, nil
}

// serveCmd starts the lookup form server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lookup form",
	Long: `Serve the peer lookup form.

Without a config file the form listens on port 8000 and queries
https://dashboard.gensyn.ai with a 4s timeout and 8 lookups at a time.

The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  peercheck serve
  peercheck serve -c peercheck.yaml
  peercheck serve --port 9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file (optional)")
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (overrides config)")
	serveCmd.Flags().BoolP("verbose", "v", false, "log each failed lookup")
}

func runServe(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := newLogger(verbose)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger.Info("starting server",
		"port", cfg.Port,
		"dashboard_url", cfg.DashboardURL,
		"timeout", cfg.Timeout.Duration().String(),
		"max_concurrency", cfg.MaxConcurrency,
	)

	pc, err := peercheck.New(config.BuildOptions(cfg, logger)...)
	if err != nil {
		return fmt.Errorf("failed to create peercheck: %w", err)
	}

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- pc.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, wait for graceful shutdown with timeout
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
