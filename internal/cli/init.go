// Package cli provides common initialization utilities shared by
// cmd/finsight, cmd/finsight-worker and cmd/finsight-alerts.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finsight/internal/backend"
	"finsight/internal/config"
	"finsight/internal/log"
)

// LoadEnvFile reads .env into the environment when present. A missing
// file is fine; deployments set real variables.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger initializes structured logging at the given level, writing
// to w. Returns the configured logger and sets it as the default. An
// unknown level falls back to info with a warning.
func SetupLogger(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	logger := log.New(log.Config{
		Level:     lvl,
		Component: log.ComponentApp,
		Handler:   slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}),
	})
	log.SetDefault(logger)
	if err != nil {
		logger.Warn("Unknown log level, using info", log.FieldError, err)
	}
	return logger
}

// Bootstrap wires the shared startup sequence: the .env file, the logger
// at the configured level writing to w, and a validated configuration.
// Exits the process when the configuration is invalid. The one-shot
// report command passes os.Stderr so stdout stays pure JSON; the workers
// pass os.Stdout.
func Bootstrap(w io.Writer) (*config.Config, *log.Logger) {
	LoadEnvFile()
	cfg := config.Load()
	logger := SetupLogger(w, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}

// InitSource assembles the configured transaction source.
// Returns the source with its cleanup or exits the process on failure.
func InitSource(ctx context.Context, logger *log.Logger, cfg *config.Config) *backend.Result {
	srcCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid source configuration", log.FieldError, err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)
	res, err := factory.CreateSource(ctx, srcCfg)
	if err != nil {
		logger.Error("Failed to initialize transaction source",
			log.FieldBackend, srcCfg.Type.String(),
			log.FieldError, err)
		os.Exit(1)
	}
	return res
}

// GracefulShutdown installs SIGINT/SIGTERM handling. The returned
// context ends once a signal arrived and cleanup ran; the done channel
// closes when the grace period is over. The context carries the logger,
// so run-scoped work downstream inherits it.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(log.IntoContext(context.Background(), logger))
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup()
		}

		cancel()

		select {
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		case <-time.After(2 * time.Second):
			logger.Info("Shutdown complete", log.FieldOperation, log.OpShutdown)
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the shutdown context ends and the
// shutdown goroutine has drained.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
