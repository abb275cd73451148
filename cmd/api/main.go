// Package main is the entrypoint for the fortune cookie API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fortunecookie/fortunecookie/internal/cache"
	"github.com/fortunecookie/fortunecookie/internal/config"
	"github.com/fortunecookie/fortunecookie/internal/fortune"
	"github.com/fortunecookie/fortunecookie/internal/frame"
	"github.com/fortunecookie/fortunecookie/internal/handler"
	"github.com/fortunecookie/fortunecookie/internal/metrics"
	"github.com/fortunecookie/fortunecookie/internal/middleware"
	"github.com/fortunecookie/fortunecookie/internal/repository"
	"github.com/fortunecookie/fortunecookie/internal/server"
	"github.com/fortunecookie/fortunecookie/internal/service"
	"github.com/fortunecookie/fortunecookie/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	sentryEnabled, err := initSentry(cfg)
	if err != nil {
		logger.Error("failed to initialise sentry", "error", err)
		os.Exit(1)
	}

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var recorder metrics.Recorder = metrics.NewNoop()
	if cfg.MetricsEnabled {
		prom, err := metrics.NewPrometheus(reg)
		if err != nil {
			logger.Error("failed to register metrics", "error", err)
			os.Exit(1)
		}
		recorder = prom
	}

	svc := service.NewFortuneService(st, fortune.NewPicker(), recorder, logger)

	limiter := middleware.NewIPLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 15*time.Minute)
	limiter.StartJanitor(ctx, 2*time.Minute)

	r := setupRouter(routerDeps{
		cfg:      cfg,
		logger:   logger,
		svc:      svc,
		health:   st,
		limiter:  limiter,
		registry: reg,
	})

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("store", func(context.Context) error {
		return st.Close()
	})
	if sentryEnabled {
		srv.OnShutdown("sentry", func(ctx context.Context) error {
			timeout := 2 * time.Second
			if deadline, ok := ctx.Deadline(); ok {
				timeout = time.Until(deadline)
			}
			if !sentry.Flush(timeout) {
				return errors.New("sentry flush timed out")
			}
			return nil
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"base_url", cfg.BaseURL,
		"store", cfg.StoreBackend,
		"cooldown", cfg.FortuneCooldown().String(),
		"env", cfg.AppEnv,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
// When LOG_FILE is set, output is also written to a rotated file.
func initLogger(cfg *config.Config) *slog.Logger {
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    100, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// initSentry configures error reporting. Reports false when no DSN is set.
func initSentry(cfg *config.Config) (bool, error) {
	if cfg.SentryDSN == "" {
		return false, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		return false, fmt.Errorf("sentry init: %w", err)
	}
	return true, nil
}

// openStore builds the fortune store selected by STORE_BACKEND.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	cooldown := cfg.FortuneCooldown()

	switch cfg.StoreBackend {
	case config.BackendRedis:
		c, err := cache.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect to redis %s: %s", redactURL(cfg.RedisURL), sanitizeError(err, cfg.RedisURL))
		}
		logger.Info("connected to Redis", "redis_url", redactURL(cfg.RedisURL))
		return cache.NewFortuneStore(c, cooldown), nil

	case config.BackendPostgres:
		if cfg.DBAutoMigrate {
			if err := repository.Migrate(ctx, cfg.DatabaseURL, logger); err != nil {
				return nil, fmt.Errorf("migrate %s: %s", redactURL(cfg.DatabaseURL), sanitizeError(err, cfg.DatabaseURL))
			}
		}
		repo, err := repository.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database %s: %s", redactURL(cfg.DatabaseURL), sanitizeError(err, cfg.DatabaseURL))
		}
		logger.Info("connected to database", "database_url", redactURL(cfg.DatabaseURL))
		return repository.NewFortuneRepository(repo, cooldown), nil

	default:
		logger.Warn("using in-memory store; fortunes are lost on restart")
		return store.NewMemory(cooldown), nil
	}
}

// routerDeps collects what the router wires together.
type routerDeps struct {
	cfg      *config.Config
	logger   *slog.Logger
	svc      *service.FortuneService
	health   handler.HealthChecker
	limiter  *middleware.IPLimiter
	registry *prometheus.Registry
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	cfg := d.cfg
	resolver := frame.Resolver{
		Configured:   cfg.BaseURL,
		PlatformHost: cfg.VercelURL,
		FallbackPort: cfg.AppPort,
	}

	h := handler.New(resolver)
	healthHandler := handler.NewHealthHandler(d.health, cfg.StoreBackend)
	fortuneHandler := handler.NewFortuneHandler(d.svc, resolver, d.logger)
	if cfg.RateLimitEnabled && d.limiter != nil {
		fortuneHandler.WithRateLimit(d.limiter)
	}
	frameHandler := handler.NewFrameHandler(resolver, d.logger)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  d.logger,
		Enabled: cfg.RateLimitEnabled,
		RPS:     cfg.RateLimitRPS,
		Burst:   cfg.RateLimitBurst,
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	// Health endpoints
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	if cfg.MetricsEnabled && d.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{}))
	}

	r.Get("/", h.Index)

	// /new limits inside the handler, after frame requests are split off
	r.Route("/api/fortune", func(r chi.Router) {
		r.With(middleware.RateLimitIP(rateLimitCfg, d.limiter)).Get("/status", fortuneHandler.Status)
		r.Post("/new", fortuneHandler.New)
	})

	// Client manifest and frame documents
	r.Get("/.well-known/warpcast.json", frameHandler.Manifest)
	r.Get("/warpcast.json", frameHandler.Manifest)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment(), Page: true}))
		r.Get("/frame", frameHandler.Frame)
		r.Get("/minimal-frame", frameHandler.MinimalFrame)
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(cfg.AssetsDir))))
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
