package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/technews/internal/config"
	"github.com/bilgisen/technews/internal/middleware"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, handlers *Handlers, cfg *config.Config) {
	api := app.Group("/api/v1")

	api.Get("/health", handlers.HealthCheck)
	api.Get("/issues", middleware.ValidateQueryParams[IssuesQuery](), handlers.ListIssues)
	api.Get("/issues/:id", handlers.GetIssue)
	api.Get("/runs/last", handlers.LastRun)

	admin := api.Group("/admin", middleware.AdminOnly(cfg.AdminAPIKey))
	admin.Post("/run", handlers.TriggerRun)
	admin.Delete("/ledger", handlers.ResetLedger)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
