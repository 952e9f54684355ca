// Package main runs avatarsd, the HTTP service that redirects avatar
// requests to the URL resolved from the configured templates.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	avatars "github.com/ferro-labs/avatars-external"
	"github.com/ferro-labs/avatars-external/internal/accounts"
	"github.com/ferro-labs/avatars-external/internal/admin"
	"github.com/ferro-labs/avatars-external/internal/cache"
	"github.com/ferro-labs/avatars-external/internal/logging"
	"github.com/ferro-labs/avatars-external/internal/ratelimit"
	"github.com/ferro-labs/avatars-external/internal/version"
)

const defaultCacheTTL = 60 * time.Second

func main() {
	cfgPath := os.Getenv("AVATARS_CONFIG")
	if cfgPath == "" {
		fatal("AVATARS_CONFIG is not set")
	}
	cfg, err := avatars.LoadConfig(cfgPath)
	if err != nil {
		fatal("failed to load config", "error", err)
	}
	if err := avatars.ValidateConfig(*cfg); err != nil {
		fatal("invalid config", "error", err)
	}
	warnings := avatars.ConfigWarnings(*cfg)
	for _, w := range warnings {
		logging.Logger.Warn("config warning", "warning", w)
	}

	res, err := avatars.New(*cfg)
	if err != nil {
		fatal("failed to create resolver", "error", err)
	}
	if err := res.LoadProviders(); err != nil {
		fatal("failed to load providers", "error", err)
	}

	dir, closeDir, err := buildDirectory(cfg.Accounts)
	if err != nil {
		fatal("failed to open account directory", "error", err)
	}
	defer closeDir()

	opts := routerOptions{
		RateLimit:   cfg.Server.RateLimit,
		AdminTokens: adminTokens(),
		Warnings:    warnings,
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		opts.CORSOrigins = strings.Split(origins, ",")
	}

	addr := ":8080"
	if p := os.Getenv("PORT"); p != "" {
		addr = ":" + p
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      newRouter(res, dir, opts),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logging.Logger.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Logger.Error("shutdown error", "error", err)
		}
	}()

	logging.Logger.Info("avatarsd listening",
		"version", version.Short(),
		"addr", addr,
		"strategy", cfg.Strategy.Mode,
		"providers", len(res.Providers()),
		"accounts_driver", cfg.Accounts.Driver,
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stop()
		fatal("server error", "error", err)
	}
	logging.Logger.Info("server stopped")
}

func fatal(msg string, args ...interface{}) {
	logging.Logger.Error(msg, args...)
	os.Exit(1)
}

// buildDirectory opens the configured account directory. SQL backends sit
// behind a circuit breaker, and a lookup cache is added when cache_size is
// positive.
func buildDirectory(cfg avatars.AccountsConfig) (accounts.Directory, func(), error) {
	var (
		dir     accounts.Directory
		closeFn = func() {}
	)
	switch cfg.Driver {
	case "", avatars.DriverMemory:
		dir = accounts.NewMemory()
	case avatars.DriverSQLite, avatars.DriverPostgres:
		var (
			store *accounts.SQLStore
			err   error
		)
		if cfg.Driver == avatars.DriverSQLite {
			store, err = accounts.NewSQLiteStore(cfg.DSN)
		} else {
			store, err = accounts.NewPostgresStore(cfg.DSN)
		}
		if err != nil {
			return nil, nil, err
		}
		dir = accounts.NewGuarded(store, 0, 0)
		closeFn = func() { _ = store.Close() }
	default:
		return nil, nil, fmt.Errorf("unknown accounts driver: %q", cfg.Driver)
	}

	if cfg.CacheSize > 0 {
		ttl := defaultCacheTTL
		if cfg.CacheTTLSeconds > 0 {
			ttl = time.Duration(cfg.CacheTTLSeconds) * time.Second
		}
		dir = accounts.NewCached(dir, cache.NewMemory(cfg.CacheSize, ttl))
	}
	return dir, closeFn, nil
}

// adminTokens reads the admin API tokens from the environment. The admin
// routes are not mounted when neither is set.
func adminTokens() admin.Tokens {
	tokens := admin.Tokens{}
	if t := os.Getenv("ADMIN_TOKEN"); t != "" {
		tokens[t] = admin.ScopeAdmin
	}
	if t := os.Getenv("ADMIN_READ_TOKEN"); t != "" {
		tokens[t] = admin.ScopeReadOnly
	}
	return tokens
}

type routerOptions struct {
	CORSOrigins []string
	RateLimit   *avatars.RateLimitConfig
	AdminTokens admin.Tokens
	Warnings    []string
}

// newRouter builds the HTTP router.
func newRouter(res *avatars.Resolver, dir accounts.Directory, opts routerOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(countRequests)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    "ok",
			"version":   version.Short(),
			"providers": len(res.Providers()),
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if opts.RateLimit != nil {
			burst := opts.RateLimit.Burst
			if burst <= 0 {
				burst = opts.RateLimit.RequestsPerSecond
			}
			store := ratelimit.NewStore(opts.RateLimit.RequestsPerSecond, burst)
			r.Use(ratelimit.Middleware(store, ratelimit.ClientIP))
		}

		r.Get("/avatar/{account}", avatarHandler(res, dir))
		r.Get("/avatar/{account}/change", changeAvatarHandler(res, dir))

		r.Group(func(r chi.Router) {
			r.Use(corsMiddleware(opts.CORSOrigins...))
			r.Get("/v1/avatars/{account}", avatarInfoHandler(res, dir))
			r.Options("/v1/avatars/{account}", func(http.ResponseWriter, *http.Request) {})
		})
	})

	if len(opts.AdminTokens) > 0 {
		adminHandlers := &admin.Handlers{
			Accounts:  dir,
			Providers: res,
			Warnings:  opts.Warnings,
		}
		r.Route("/admin", func(r chi.Router) {
			r.Use(admin.AuthMiddleware(opts.AdminTokens))
			r.Mount("/", adminHandlers.Routes())
		})
	}

	return r
}
