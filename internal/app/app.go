package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"screener/internal/config"
	"screener/internal/files"
	"screener/internal/infrastructure"
	custommiddleware "screener/internal/middleware"
	"screener/internal/runner"
	"screener/internal/services"
	handlers "screener/internal/transport/http"
)

// Version is the service version reported by the health endpoint.
const Version = "1.2.0"

// Application wires configuration, services and the HTTP server together.
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	Router    *chi.Mux
	Server    *http.Server
	Tracer    *infrastructure.TracerProvider
	Metrics   *infrastructure.Metrics
	Selection *services.SelectionService
	Batch     *services.BatchService
}

// NewApplication creates a new application instance with all dependencies
// constructed from configuration.
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
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port),
		slog.String("selection_dir", cfg.GetSelectionDir()),
		slog.String("results_dir", cfg.GetResultsDir()))

	tracer, err := infrastructure.InitializeTracing(Version)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	metrics := infrastructure.NewMetrics(prometheus.DefaultRegisterer)

	scriptRunner := runner.New(cfg.Script, logger)
	discovery := files.NewDiscovery(cfg.GetSelectionDir(), cfg.GetResultsDir())

	app := &Application{
		Config:    cfg,
		Logger:    logger,
		Tracer:    tracer,
		Metrics:   metrics,
		Selection: services.NewSelectionService(scriptRunner, discovery, logger, metrics, tracer),
		Batch:     services.NewBatchService(scriptRunner, discovery, logger, metrics, tracer),
	}

	if err := app.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}
	app.setupServer()

	return app, nil
}

// setupRouter builds the middleware chain and mounts every route.
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	r.Use(custommiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommiddleware.StructuredLogger(a.Logger))
	r.Use(custommiddleware.RequestMetrics(a.Metrics))
	r.Use(custommiddleware.Recoverer(a.Logger))

	if a.Config.Server.RateLimit.Enabled {
		limiter := custommiddleware.NewRateLimiter(
			a.Config.Server.RateLimit.RPS,
			a.Config.Server.RateLimit.Burst,
			a.Logger,
		)
		r.Use(limiter.Handler)
	}

	selectionHandler := handlers.NewSelectionHandler(a.Selection, a.Logger)
	batchHandler := handlers.NewBatchHandler(a.Batch, a.Logger)
	healthHandler := handlers.NewHealthHandler(Version)

	htmlHandler, err := handlers.NewHTMLHandler(a.Selection, a.Batch, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to parse page templates: %w", err)
	}

	// The write timeout bounds the response; the script timeout inside the
	// runner is tighter, so every request can still report its outcome.
	requestTimeout := a.Config.Server.WriteTimeout - time.Second

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(custommiddleware.Timeout(requestTimeout, a.Logger))

		r.Mount("/health", healthHandler.Routes())
		r.Mount("/selection", selectionHandler.Routes())
		r.Mount("/batch", batchHandler.Routes())
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(custommiddleware.Timeout(requestTimeout, a.Logger))

		r.Get("/", htmlHandler.Index)
		r.Get("/selection", htmlHandler.SelectionPage)
		r.Post("/selection", htmlHandler.SelectionPage)
		r.Get("/batch", htmlHandler.BatchPage)
	})

	a.Router = r
	return nil
}

// setupServer configures the HTTP server with timeouts from configuration.
func (a *Application) setupServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run starts the HTTP server and blocks until shutdown completes.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		return a.shutdown()
	})

	return group.Wait()
}

// shutdown drains the server, flushes tracing and releases the log file.
func (a *Application) shutdown() error {
	a.Logger.Info("shutting down",
		slog.Duration("timeout", a.Config.Server.ShutdownTimeout))

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(ctx); err != nil {
		a.Logger.Error("server shutdown failed", slog.String("error", err.Error()))
		return err
	}

	if err := a.Tracer.Shutdown(ctx); err != nil {
		a.Logger.Warn("tracer shutdown failed", slog.String("error", err.Error()))
	}

	infrastructure.CloseLogFile()
	a.Logger.Info("shutdown complete")
	return nil
}
