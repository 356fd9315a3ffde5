package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"crashlens/internal/config"
	apierrors "crashlens/internal/errors"
	"crashlens/internal/infrastructure"
	"crashlens/internal/middleware"
	"crashlens/internal/preprocess"
	"crashlens/internal/services"
	handlers "crashlens/internal/transport/http"
)

// Application wires configuration, the analytics service and the HTTP
// server together.
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	Router    *chi.Mux
	Server    *http.Server
	Analytics *services.AnalyticsService
}

// NewApplication builds a ready-to-run application: configuration, logger,
// dataset load + preprocess, router and server.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("source", cfg.Data.Source),
		slog.Int("port", cfg.Server.Port))

	analytics, err := services.NewAnalyticsService(cfg.Data.Source, preprocess.NewCache(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize analytics service: %w", err)
	}

	app := &Application{
		Config:    cfg,
		Logger:    logger,
		Analytics: analytics,
	}
	app.setupRouter()
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app, nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(a.Logger))
	r.Use(middleware.Recoverer(a.Logger))
	r.Use(chimiddleware.Timeout(a.Config.Server.RequestTimeout))
	if a.Config.RateLimit.Enabled {
		r.Use(middleware.RateLimit(a.Config.RateLimit, a.Logger))
	}

	errorHandler := apierrors.NewErrorHandler(a.Logger)
	analyticsHandler := handlers.NewAnalyticsHandler(a.Analytics, a.Logger, errorHandler)

	r.Mount("/api", analyticsHandler.Routes())
	r.Method(http.MethodGet, "/healthz", handlers.NewHealthHandler(a.Analytics))

	a.Router = r
}

// Run starts the HTTP server and blocks until the context is cancelled or
// an interrupt arrives, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down",
		slog.Duration("timeout", a.Config.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
