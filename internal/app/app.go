package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"agrodash/internal/config"
	"agrodash/internal/dataprocessing"
	apierrors "agrodash/internal/errors"
	"agrodash/internal/exporter"
	"agrodash/internal/infrastructure"
	customMiddleware "agrodash/internal/middleware"
	"agrodash/internal/services"
	handlers "agrodash/internal/transport/http"
	ws "agrodash/internal/websocket"
)

// BuildTime is set at link time with -ldflags "-X agrodash/internal/app.BuildTime=...".
var BuildTime string

// Application represents the main application container
type Application struct {
	Config       *config.Config
	Paths        *config.Paths
	Logger       *slog.Logger
	Telemetry    *infrastructure.Telemetry
	Pipeline     *dataprocessing.Pipeline
	Dashboard    *services.DashboardService
	Health       *services.HealthService
	WebSocketHub *ws.Hub
	Router       *chi.Mux
	Server       *http.Server
}

// New loads the data source once and wires the application. A source that
// cannot be loaded is returned as domain.ErrSourceUnavailable; the caller
// decides whether that is fatal.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.InfoContext(ctx, "Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion))

	paths, err := config.GetPaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	tel, err := infrastructure.InitializeTelemetry(ctx, cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	pipeline, err := LoadPipeline(ctx, cfg.Source, tel, logger)
	if err != nil {
		_ = tel.Shutdown(context.WithoutCancel(ctx))
		return nil, err
	}

	return Assemble(cfg, paths, tel, pipeline, logger)
}

// LoadPipeline opens the configured source and normalizes it.
func LoadPipeline(ctx context.Context, cfg config.SourceConfig, tel *infrastructure.Telemetry, logger *slog.Logger) (*dataprocessing.Pipeline, error) {
	src, err := dataprocessing.OpenSource(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}

	start := time.Now()
	p, err := dataprocessing.LoadPipeline(ctx, src, dataprocessing.NewNormalizer(cfg, logger), tel, logger)
	if err != nil {
		return nil, err
	}

	stats := p.Stats()
	logger.InfoContext(ctx, "Source loaded",
		slog.String("location", cfg.Location),
		slog.Int("rows", stats.Rows),
		slog.Int("records", stats.Records),
		slog.Int("parse_failures", stats.ParseFailures),
		slog.Any("commodities", stats.Commodities),
		slog.Duration("duration", time.Since(start)))
	return p, nil
}

// Assemble wires services, router and server around an already loaded
// pipeline.
func Assemble(cfg *config.Config, paths *config.Paths, tel *infrastructure.Telemetry, pipeline *dataprocessing.Pipeline, logger *slog.Logger) (*Application, error) {
	if tel == nil {
		tel = infrastructure.NewNoopTelemetry()
	}

	exp := exporter.New(paths, cfg.Export, tel.Metrics, logger)

	a := &Application{
		Config:       cfg,
		Paths:        paths,
		Logger:       logger,
		Telemetry:    tel,
		Pipeline:     pipeline,
		Dashboard:    services.NewDashboardService(pipeline, exp, paths, logger),
		WebSocketHub: ws.NewHub(logger),
	}
	a.Health = services.NewHealthService(config.AppVersion, BuildTime, map[string]services.Readiness{
		"records":    services.ReadinessFunc(a.recordsLoaded),
		"output_dir": services.DirectoryWritable(paths.OutputDir),
	}, logger)

	wsMetrics, err := ws.NewMetrics(tel.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create websocket metrics: %w", err)
	}

	a.setupRouter(wsMetrics)
	a.createServer()
	return a, nil
}

func (a *Application) recordsLoaded(context.Context) error {
	if a.Pipeline.Stats().Records == 0 {
		return errors.New("no records loaded")
	}
	return nil
}

// setupRouter builds the chi router.
// Middleware order: RequestID → RealIP → OTel → Logger → Recoverer, then
// per group SecureHeaders → CORS → RateLimit → Timeout.
func (a *Application) setupRouter(wsMetrics *ws.Metrics) {
	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Telemetry.Environment == "development")

	r := chi.NewRouter()
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.Telemetry).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(errorHandler.Recoverer)

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	// WebSocket sessions outlive the request timeout
	r.Handle("/ws", ws.NewHandler(a.WebSocketHub, a.Dashboard, errorHandler, ws.Options{
		AllowedOrigins: a.allowedOrigins(),
		RunTimeout:     a.Config.Server.RequestTimeout,
		Metrics:        wsMetrics,
	}, a.Logger))

	r.Handle("/metrics", handlers.NewMetricsHandler(a.Telemetry.MetricsHandler, errorHandler))

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.DefaultSecureHeaders().Handler)
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.allowedOrigins(),
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			Logger:         a.Logger,
		}))
		if rl := a.Config.Security.RateLimit; rl.Enabled {
			r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger).Handler)
		}
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))

		a.setupAPIRoutes(r, errorHandler)
	})

	a.Router = r
}

func (a *Application) setupAPIRoutes(r chi.Router, errorHandler *apierrors.ErrorHandler) {
	dashboard := handlers.NewDashboardHandler(a.Dashboard, a.Logger, errorHandler)
	health := handlers.NewHealthHandler(a.Health, a.Logger)
	clientLog := handlers.NewClientLogHandler(a.Logger, errorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/dashboard", dashboard.Routes())
		r.Mount("/health", health.Routes())
		r.Get("/version", health.Version)
		r.Post("/logs", clientLog.Handle)
	})
}

// allowedOrigins returns nil, allowing any origin, when CORS is disabled.
func (a *Application) allowedOrigins() []string {
	if !a.Config.Security.EnableCORS {
		return nil
	}
	return a.Config.Security.AllowedOrigins
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:           a.Router,
		ReadTimeout:       a.Config.Server.ReadTimeout,
		ReadHeaderTimeout: a.Config.Server.ReadTimeout,
		WriteTimeout:      a.Config.Server.WriteTimeout,
		IdleTimeout:       a.Config.Server.IdleTimeout,
	}
}

// Run serves until ctx is cancelled or the server fails, then shuts down.
func (a *Application) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(ctx, "HTTP server listening",
			slog.String("address", a.Server.Addr),
			slog.Int("records", a.Pipeline.Stats().Records))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(ctx))
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}
	a.WebSocketHub.Close()

	if err := a.Telemetry.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down telemetry", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}
