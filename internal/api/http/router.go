package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/backoffice-service/internal/api/http/handlers"
	"github.com/spec-kit/backoffice-service/internal/auth"
	"github.com/spec-kit/backoffice-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Licenses       *handlers.LicensesHandler
	Leads          *handlers.LeadsHandler
	Search         *handlers.SearchHandler
	Careers        *handlers.CareersHandler
	AuthMiddleware *auth.AuthMiddleware
	// Gatherer backs /metrics; nil skips the route.
	Gatherer prometheus.Gatherer
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	app.Post("/auth/login", cfg.Auth.Login)
	app.Post("/careers/applications", cfg.Careers.Submit)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle)

	licenses := admin.Group("/licenses", auth.RequireRole(domain.AdminRoleSuperAdmin))
	licenses.Get("/", cfg.Licenses.List)
	licenses.Post("/", cfg.Licenses.Issue)
	licenses.Get("/summary", cfg.Licenses.Summary)
	licenses.Get("/export", cfg.Licenses.Export)
	licenses.Get("/selection", cfg.Licenses.Selection)
	licenses.Delete("/selection", cfg.Licenses.ClearSelection)
	licenses.Post("/selection/toggle", cfg.Licenses.ToggleSelection)
	licenses.Post("/selection/actions", cfg.Licenses.BulkAction)
	licenses.Get("/:id", cfg.Licenses.Get)
	licenses.Post("/:id/actions", cfg.Licenses.Action)

	leads := admin.Group("/leads", auth.RequireRole(domain.AdminRoleSuperAdmin, domain.AdminRoleSales))
	leads.Get("/", cfg.Leads.List)
	leads.Get("/summary", cfg.Leads.Summary)
	leads.Get("/export", cfg.Leads.Export)
	leads.Post("/:id/advance", cfg.Leads.Advance)
	leads.Put("/:id/status", cfg.Leads.SetStatus)
	leads.Post("/:id/actions", cfg.Leads.Action)

	admin.Get("/search", auth.RequireRole(domain.AdminRoleSuperAdmin), cfg.Search.Search)
}
