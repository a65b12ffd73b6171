package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/ecobite/web/internal/aggregator"
	"github.com/anonto42/ecobite/web/internal/gateway"
	"github.com/anonto42/ecobite/web/internal/geocode"
	"github.com/anonto42/ecobite/web/internal/middleware"
	"github.com/anonto42/ecobite/web/internal/models"
	"github.com/anonto42/ecobite/web/internal/router"
	"github.com/anonto42/ecobite/web/pkg/config"
	"github.com/anonto42/ecobite/web/pkg/firebase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	strategy, err := aggregator.ParseStrategy(cfg.StatsStrategy)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Identity sources: Firebase first, then the static development user
	ctx := context.Background()
	var resolvers middleware.ChainResolver
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, logger)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		resolvers = append(resolvers, middleware.NewFirebaseResolver(firebaseApp.AuthClient))
	}
	if cfg.DevUserEmail != "" {
		logger.Warn("Static development identity enabled", "email", cfg.DevUserEmail)
		resolvers = append(resolvers, middleware.StaticResolver{
			Identity: models.Identity{Name: cfg.DevUserName, Email: cfg.DevUserEmail},
		})
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Setup global middleware
	config.SetupMiddleware(e, cfg, logger)

	// Setup routes and dependencies
	err = router.SetupRoutes(e, router.Deps{
		Backend:  gateway.New(cfg.BackendURL),
		Geocoder: geocode.New(cfg.GeocoderURL, nil, logger),
		Resolver: resolvers,
		Flasher:  middleware.NewFlasher(cfg.FlashSecret),
		Strategy: strategy,
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	// Start server
	go func() {
		logger.Info("Server starting", "port", cfg.Port, "backend", cfg.BackendURL, "stats_strategy", strategy)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-done

	logger.Info("Shutting down the server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
		return
	}

	logger.Info("Server stopped")
}
