package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/herroute/internal/config"
	"github.com/UnknownOlympus/herroute/internal/geocoding"
	"github.com/UnknownOlympus/herroute/internal/metrics"
	"github.com/UnknownOlympus/herroute/internal/render"
	"github.com/UnknownOlympus/herroute/internal/repository"
	"github.com/UnknownOlympus/herroute/internal/server"
	"github.com/UnknownOlympus/herroute/internal/service"
	"github.com/UnknownOlympus/herroute/internal/streets"
	"github.com/UnknownOlympus/herroute/internal/view"
	"github.com/gin-gonic/gin"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = 10 * time.Minute
	maxSessions     = 10000
)

// Options are the command line options.
type Options struct {
	ConfigFile string `short:"c" long:"config" env:"HERROUTE_CONFIG" description:"Path to an optional YAML configuration file"`
}

// main is the entry point of the application.
func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Create a context that will be canceled when an interrupt signal is received.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad(opts.ConfigFile)
	logger := setupLogger(cfg.Env)
	if cfg.Env != envLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	geoProvider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.ProviderType),
		APIKey:    cfg.ProviderKey,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.FetchTimeout,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to create geocoding provider: %v", err)
	}
	logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.ProviderType)

	source, ready, closeSource := setupStreetSource(ctx, cfg, logger)
	defer closeSource()

	store := streets.NewStore()
	loader := streets.NewLoader(source, cfg.Streets.Source, store, logger, appMetrics, cfg.Streets.Refresh)

	renderer, err := render.NewRenderer(cfg.MapsAPIKey, cfg.Streets.Refresh, logger)
	if err != nil {
		log.Fatalf("Failed to initialize page renderer: %v", err)
	}

	sessions := view.NewSessions(appMetrics.ActiveSessions, maxSessions)
	app := server.New(server.Deps{
		Log:        logger,
		Sessions:   sessions,
		Search:     service.NewSearchService(logger, geoProvider, cfg.ProviderType, appMetrics),
		Streets:    store,
		Renderer:   renderer,
		Metrics:    appMetrics,
		SessionTTL: cfg.SessionTTL,
	})

	go loader.Run(ctx)
	go sessions.RunSweeper(ctx, cfg.SessionTTL, sweepInterval, logger)
	go startMonitoringServer(ctx, logger, reg, ready, cfg.MonitoringPort)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           app.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.FetchTimeout + 5*time.Second,
	}

	go func() {
		logger.InfoContext(ctx, "Starting http server", "port", cfg.Port)
		if errSrv := httpServer.ListenAndServe(); errSrv != nil && !errors.Is(errSrv, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "HTTP server failed", "error", errSrv)
			stop()
		}
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()
	logger.Info("Shutdown signal received. Stopping application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}

	logger.Info("Application stopped gracefully.")
}

// setupStreetSource returns the configured street source, a readiness check
// for /healthz and a cleanup function.
func setupStreetSource(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (streets.Source, func(context.Context) error, func()) {
	if cfg.Streets.Source == config.StreetsSourcePostgres {
		dtb, err := repository.NewPool(
			ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to set up database, map will render without streets", "error", err)
			return streets.Unavailable(err), func(context.Context) error { return err }, func() {}
		}

		if err = repository.Ping(ctx, dtb); err != nil {
			logger.ErrorContext(ctx, "Database is unreachable, streets load once it is back", "error", err)
		}

		ready := func(ctx context.Context) error { return repository.Ping(ctx, dtb) }
		return repository.NewRepository(dtb, logger), ready, dtb.Close
	}

	source := streets.NewHTTPSource(cfg.Streets.URL, cfg.FetchTimeout, logger)
	return source, func(context.Context) error { return nil }, func() {}
}

// monitoringHandler serves /healthz, backed by ready, and /metrics from reg.
func monitoringHandler(
	log *slog.Logger,
	reg *prometheus.Registry,
	ready func(context.Context) error,
) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, req *http.Request) {
		log.DebugContext(req.Context(), "Performing health checks...")
		status, body := http.StatusOK, "OK"
		if err := ready(req.Context()); err != nil {
			status, body = http.StatusServiceUnavailable, "DB ping failed"
		}
		writer.WriteHeader(status)
		if _, err := writer.Write([]byte(body)); err != nil {
			log.ErrorContext(req.Context(), "failed to write reply", "error", err)
		}

		log.DebugContext(req.Context(), "Health checks completed", "status", status)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return mux
}

// startMonitoringServer starts an HTTP server that provides health check and metrics endpoints.
// It stops when ctx is cancelled.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	ready func(context.Context) error,
	port int,
) {
	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      monitoringHandler(log, reg, ready),
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	dropTime := func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		return a
	}

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug, AddSource: true}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn, ReplaceAttr: dropTime}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError, ReplaceAttr: dropTime}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
