// Command technews builds today's newsletter once and emails it.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bilgisen/technews/internal/config"
	"github.com/bilgisen/technews/internal/logger"
	"github.com/bilgisen/technews/internal/newsletter"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: logOutput(cfg),
		Pretty: cfg.LogFile == "",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newsletter.NewService(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize newsletter")
		return 1
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing delivery ledger")
		}
	}()

	state, err := svc.Pipeline.Run(ctx)
	switch {
	case errors.Is(err, newsletter.ErrNoArticles):
		log.Warn().Msg("No articles found. Exiting.")
		return 0
	case err != nil:
		log.Error().Err(err).Str("state", string(state)).Msg("Newsletter run failed")
		return 1
	}

	log.Info().Str("state", string(state)).Msg("Newsletter run complete")
	return 0
}

func logOutput(cfg *config.Config) string {
	if cfg.LogFile != "" {
		return cfg.LogFile
	}
	return "stdout"
}
