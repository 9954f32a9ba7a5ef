package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"presencecli/internal/config"
	apierrors "presencecli/internal/errors"
	"presencecli/internal/infrastructure"
	"presencecli/internal/middleware"
	"presencecli/internal/services"
	handlers "presencecli/internal/transport/http"
	"presencecli/internal/validation"
)

const AppName = "Presence Report"

var (
	// Version is set at build time with -ldflags "-X presencecli/internal/app.Version=..."
	Version = "dev"
	// BuildTime is set at build time
	BuildTime = ""
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Services      *ServiceContainer
	ErrorHandler  *apierrors.ErrorHandler
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Report *services.ReportService
	Health *services.HealthService
	Files  *validation.FileValidator
}

// NewApplication wires services, router and server from an already loaded
// configuration. providers may be nil, in which case the global OpenTelemetry
// providers are used and /metrics is not served.
func NewApplication(cfg *config.Config, logger *slog.Logger, providers *infrastructure.OTelProviders) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	if err := app.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to setup router: %w", err)
	}
	app.createServer()

	return app, nil
}

func (a *Application) initializeServices() error {
	report, err := services.NewReportService(a.Logger, a.OTelProviders)
	if err != nil {
		return err
	}
	a.Services = &ServiceContainer{
		Report: report,
		Health: services.NewHealthService(Version, BuildTime, a.Paths.ReportsDir, a.Logger),
		Files:  validation.NewFileValidator(a.Logger, a.Config.Upload.AllowedExtensions...),
	}
	return nil
}

// setupRouter configures the HTTP router with all routes.
// Order: RequestID, RealIP, security headers, OTel, Logger, Recoverer, rate limit, Timeout.
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.SecurityHeaders)

	otelMiddleware, err := middleware.NewOTelMiddleware(a.OTelProviders)
	if err != nil {
		return err
	}

	r.Group(func(r chi.Router) {
		r.Use(otelMiddleware.Handler)
		r.Use(middleware.StructuredLogger(a.Logger))
		r.Use(middleware.Recoverer(a.ErrorHandler))
		if a.Config.RateLimit.Enabled {
			r.Use(middleware.RateLimiter(a.Config.RateLimit.RPS, a.Config.RateLimit.Burst, a.ErrorHandler))
		}

		a.setupAPIRoutes(r)
	})

	if a.OTelProviders != nil && a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	// Registered last so mounted subrouters inherit them.
	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	a.Router = r
	return nil
}

func (a *Application) setupAPIRoutes(r chi.Router) {
	health := handlers.NewHealthHandler(a.Services.Health, a.Logger)
	reports := handlers.NewReportHandler(
		a.Services.Report,
		a.Services.Files,
		handlers.ReportHandlerConfig{
			SheetName:      a.Config.Report.SheetName,
			HeaderColor:    a.Config.Report.HeaderColor,
			MaxUploadBytes: a.Config.Upload.MaxBytes,
		},
		a.Logger,
		a.ErrorHandler,
	)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(a.Config.Server.ReadTimeout, a.ErrorHandler))
			r.Get("/health", health.HealthCheck)
			r.Get("/health/ready", health.ReadinessCheck)
			r.Get("/version", health.Version)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(a.Config.Server.OperationTimeout, a.ErrorHandler))
			r.Use(chimiddleware.NoCache)
			r.Mount("/reports", reports.Routes())
		})
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts serving in the background. A listener failure cancels ctx
// through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("reports_dir", a.Paths.ReportsDir),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until SIGINT, SIGTERM or a server failure.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "Received signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.WarnContext(ctx, "Server stopped unexpectedly")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout+5*time.Second)
	defer stopCancel()
	return a.Stop(stopCtx)
}
