package router

import (
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/ecobite/web/internal/aggregator"
	"github.com/anonto42/ecobite/web/internal/gateway"
	"github.com/anonto42/ecobite/web/internal/handlers"
	"github.com/anonto42/ecobite/web/internal/middleware"
	"github.com/anonto42/ecobite/web/internal/validators"
	"github.com/anonto42/ecobite/web/internal/views"
)

// Backend is the full set of gateway operations the pages use.
// *gateway.Client satisfies it.
type Backend interface {
	gateway.PostService
	gateway.ClaimService
	gateway.StatsService
}

// Deps are the dependencies injected into the page controllers.
type Deps struct {
	Backend  Backend
	Geocoder handlers.Geocoder
	Resolver middleware.IdentityResolver
	Flasher  *middleware.Flasher
	Strategy aggregator.Strategy
	Logger   *slog.Logger
	// Pages overrides the shared page dependencies, e.g. to pin the clock.
	Pages *handlers.Pages
}

// SetupRoutes configures the renderer, validator and all page routes.
func SetupRoutes(e *echo.Echo, deps Deps) error {
	renderer, err := views.NewRenderer()
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	e.Renderer = renderer
	e.Validator = validators.NewValidator()

	logger := deps.Logger

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	pages := deps.Pages
	if pages == nil {
		pages = handlers.NewPages(deps.Flasher, logger)
	}
	stats := aggregator.NewStatsSource(deps.Backend, deps.Strategy, logger)

	// --- Pages (require a resolved viewer) ---
	site := e.Group("")
	site.Use(middleware.Session(deps.Resolver))
	logger.Info("Session middleware applied to page routes.")

	feedHandler := handlers.NewFeedHandler(pages, deps.Backend, deps.Backend, stats)
	feedHandler.RegisterFeedRoutes(site)
	logger.Info("Feed routes configured.")

	createHandler := handlers.NewCreateHandler(pages, deps.Backend, deps.Geocoder)
	createHandler.RegisterCreateRoutes(site)
	logger.Info("Create routes configured.")

	myPostsHandler := handlers.NewMyPostsHandler(pages, deps.Backend, deps.Backend)
	myPostsHandler.RegisterMyPostsRoutes(site)
	logger.Info("My posts routes configured.")

	requestsHandler := handlers.NewRequestsHandler(pages, deps.Backend, deps.Backend)
	requestsHandler.RegisterRequestsRoutes(site)
	logger.Info("Requests routes configured.")

	profileHandler := handlers.NewProfileHandler(pages, deps.Backend)
	profileHandler.RegisterProfileRoutes(site)
	logger.Info("Profile routes configured.")

	logger.Info("All routes configured.")
	return nil
}
