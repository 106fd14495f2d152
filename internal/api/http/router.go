package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/board-report/internal/api/http/handlers"
	"github.com/spec-kit/board-report/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Reports           *handlers.ReportsHandler
	TriggerMiddleware *auth.TriggerMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")
	reports := api.Group("/reports", cfg.TriggerMiddleware.Handle)
	reports.Post("/run", cfg.Reports.Run)
}
