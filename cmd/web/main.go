// Command web serves the newsletter trigger API and runs the optional daily
// schedule.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"

	"github.com/bilgisen/technews/internal/api"
	"github.com/bilgisen/technews/internal/config"
	"github.com/bilgisen/technews/internal/logger"
	"github.com/bilgisen/technews/internal/middleware"
	"github.com/bilgisen/technews/internal/newsletter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: "stdout",
		Pretty: true,
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Msg("Starting newsletter service...")

	svc, err := newsletter.NewService(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize newsletter")
	}
	defer func() {
		log.Info().Msg("Closing delivery ledger...")
		if err := svc.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing delivery ledger")
		}
	}()

	scheduler := cron.New()
	if cfg.Schedule != "" {
		_, err := scheduler.AddFunc(cfg.Schedule, func() {
			runID, err := svc.Pipeline.Start(newsletter.DefaultRunTimeout)
			if err != nil {
				log.Warn().Err(err).Msg("Scheduled run not started")
				return
			}
			log.Info().Str("run_id", runID).Msg("Scheduled run started")
		})
		if err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.Schedule).Msg("Invalid schedule")
		}
		scheduler.Start()
		log.Info().Str("schedule", cfg.Schedule).Msg("Daily schedule enabled")
	}

	app := newApp(cfg, api.NewHandlers(svc.Store, svc.Pipeline))

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	<-scheduler.Stop().Done()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func newApp(cfg *config.Config, handlers *api.Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	api.SetupRoutes(app, handlers, cfg)
	return app
}
