// Command server runs the visa appointment booking wizard.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/vistos/internal/config"
)

const defaultShutdownTimeout = 30 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, envOr("CONFIG_PATH", "config.yaml")); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		stop()
		os.Exit(1)
	}
}

// run serves until ctx is cancelled, then drains in-flight requests.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	configureLogging(cfg)

	server, cleanup, err := newServer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}
	defer cleanup()

	shutdownTimeout := shutdownTimeoutFromEnv()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().
			Int("port", cfg.App.Port).
			Str("database", cfg.Database.Driver).
			Msg("Booking server listening")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info().Dur("timeout", shutdownTimeout).Msg("Draining booking server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func configureLogging(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level := zerolog.InfoLevel
	if cfg.Features.EnableDebug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	logger := log.Logger
	if cfg.App.Environment == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	log.Logger = logger.With().
		Str("app", cfg.App.Name).
		Str("environment", cfg.App.Environment).
		Logger()
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func shutdownTimeoutFromEnv() time.Duration {
	raw, ok := os.LookupEnv("SHUTDOWN_TIMEOUT_SECONDS")
	if !ok {
		return defaultShutdownTimeout
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		log.Warn().Str("value", raw).Msg("Ignoring invalid SHUTDOWN_TIMEOUT_SECONDS")
		return defaultShutdownTimeout
	}
	return time.Duration(seconds) * time.Second
}
