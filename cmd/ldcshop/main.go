// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/zsqnb999/ldc-shop/internal/cache"
	"github.com/zsqnb999/ldc-shop/internal/config"
	"github.com/zsqnb999/ldc-shop/internal/handler"
	"github.com/zsqnb999/ldc-shop/internal/logging"
	"github.com/zsqnb999/ldc-shop/internal/middleware"
	"github.com/zsqnb999/ldc-shop/internal/model"
	"github.com/zsqnb999/ldc-shop/internal/scheduler"
	"github.com/zsqnb999/ldc-shop/internal/settings"
	"github.com/zsqnb999/ldc-shop/internal/shell"
	"github.com/zsqnb999/ldc-shop/internal/store"
	"github.com/zsqnb999/ldc-shop/internal/version"
	"github.com/zsqnb999/ldc-shop/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// Admin API rate limit: sustained requests per second and burst per client.
const (
	adminRPS   = 2
	adminBurst = 10
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "ldcshop - LDC virtual goods storefront\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LDC_DB_PATH            SQLite database path (default: ./data/ldc.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LDC_SERVER_HOST        Listen host (default: localhost)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LDC_SERVER_PORT        Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LDC_ENV                Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LDC_LOG_LEVEL          debug|info|warn|error (default: info)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LDC_REDIS_URL          Redis URL for the settings cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LDC_SETTINGS_TIMEOUT   Per-setting read timeout (default: 2s)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LDC_SETTINGS_REFRESH   Cache refresh schedule, or \"off\" (default: @every 5m)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LDC_ADMIN_TOKEN        Bearer token for /api (min 24 bytes; API disabled if unset)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LDC_DO_SEED            Insert default shop settings (default: false)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showVersion {
		_, _ = fmt.Printf("ldcshop %s\n", info)
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	if err := store.Seed(context.Background(), db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}
	slog.Info("database ready")

	// Warnings and errors from here on are also written to the event log.
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	eventLog := logging.NewEventLogHandler(textHandler, db)
	defer eventLog.Close()
	logger := slog.New(eventLog)
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	cacheType := cache.BackendMemory
	if cfg.UseRedisCache() {
		cacheType = cache.BackendRedis
	}
	cacheResult, err := cache.NewCacheWithInfo(cache.Config{
		Type:             cacheType,
		RedisURL:         cfg.RedisURL,
		Prefix:           cfg.CachePrefix,
		DefaultTTL:       cfg.CacheTTLDuration(),
		MaxSize:          cfg.CacheMaxSize,
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = cacheResult.Cache.Close() }()
	slog.Info("settings cache initialized",
		"backend", cacheResult.BackendType,
		"fallback", cacheResult.IsFallback,
		"url", cache.SanitizeRedisURL(cfg.RedisURL),
	)

	storeSource := settings.NewStoreSource(store.New(db))
	cachedSource := settings.NewCachedSource(storeSource, cacheResult.Cache, cfg.CacheTTLDuration(), logger)
	reader := settings.NewReader(cachedSource, logger, cfg.SettingsTimeout)

	refresh := scheduler.New(scheduler.WarmFunc(func(ctx context.Context) (int, error) {
		return cachedSource.Warm(ctx, storeSource.All, model.ShellSettingKeys...)
	}), cfg.SettingsRefresh, logger)
	refresh.RunOnce(context.Background())
	if cfg.RefreshEnabled() {
		if err := refresh.Start(); err != nil {
			return fmt.Errorf("starting scheduler: %w", err)
		}
		defer refresh.Stop()
	}

	composer, err := shell.New()
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}
	slog.Info("template composer initialized")

	r := newRouter(routerDeps{
		cfg:      cfg,
		db:       db,
		logger:   logger,
		reader:   reader,
		composer: composer,
		cache:    cacheResult,
		cached:   cachedSource,
		version:  info,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

type routerDeps struct {
	cfg      *config.Config
	db       *sql.DB
	logger   *slog.Logger
	reader   *settings.Reader
	composer *shell.Composer
	cache    cache.Result
	cached   handler.Invalidator
	version  version.Info
}

func newRouter(d routerDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RedirectSlashes)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(20 * time.Second))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(d.cfg.IsDevelopment())))

	frontend := handler.NewFrontendHandler(d.reader, d.composer, d.logger)
	favicon := handler.NewFaviconHandler(d.db, web.DefaultFavicon, web.DefaultFaviconType, d.logger)
	health := handler.NewHealthHandler(d.db, d.cache.Cache, string(d.cache.BackendType), d.version)

	r.Get(handler.RouteRoot, frontend.Home)
	r.Get(handler.RouteManifest, frontend.Manifest)
	r.Get(handler.RouteRobots, frontend.Robots)
	r.Get(handler.RouteFavicon, favicon.Favicon)
	r.Get(handler.RouteHealth, health.Health)
	r.Get(handler.RouteHealthLive, health.Liveness)

	if d.cfg.AdminEnabled() {
		api := handler.NewSettingsAPIHandler(d.db, d.cached, d.logger)
		limiter := middleware.NewRateLimiter(adminRPS, adminBurst)
		r.Route(handler.RouteAPI, func(r chi.Router) {
			r.Use(limiter.Middleware())
			r.Use(middleware.AdminAuth(d.cfg.AdminToken))
			api.Register(r)
		})
		slog.Info("admin settings API mounted", "path", handler.RouteAPI)
	}

	r.NotFound(frontend.NotFound)

	return r
}
