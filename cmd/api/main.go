// Copyright (c) 2026 Bookly. All rights reserved.
// Author: hai.dangngoc.vn@gmail.com

// Command api is the entry point for the Bookly HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire token codecs, guard, and domain handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danghai/bookly/internal/api"
	"github.com/danghai/bookly/internal/books"
	"github.com/danghai/bookly/internal/platform/config"
	"github.com/danghai/bookly/internal/platform/constants"
	"github.com/danghai/bookly/internal/platform/mail"
	"github.com/danghai/bookly/internal/platform/middleware"
	"github.com/danghai/bookly/internal/platform/migration"
	pgstore "github.com/danghai/bookly/internal/platform/postgres"
	redisstore "github.com/danghai/bookly/internal/platform/redis"
	"github.com/danghai/bookly/internal/platform/sec"
	"github.com/danghai/bookly/internal/reviews"
	"github.com/danghai/bookly/internal/tags"
	"github.com/danghai/bookly/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Bookly] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Application-lifetime context: cancelled on shutdown so background
	// routines (rate limiter cleanup) stop with the server.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Codecs & Guard ───────────────────────────────────────────
	bearerCodec := sec.NewTokenCodec(cfg.JWTSecret, constants.AuthIssuer)
	verifyCodec := sec.NewLinkTokenCodec(cfg.JWTSecret, sec.SaltEmailVerification, constants.AuthIssuer)
	resetCodec := sec.NewLinkTokenCodec(cfg.JWTSecret, sec.SaltPasswordReset, constants.AuthIssuer)

	revocationStore := auth.NewRevocationStore(rdb)
	guard := middleware.NewTokenGuard(bearerCodec, revocationStore)

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	mailDispatcher := mail.NewSMTPDispatcher(cfg.SMTPAddr, cfg.SMTPFrom, log)

	userRepository := auth.NewUserRepository(pool)
	authService := auth.NewService(
		userRepository,
		revocationStore,
		bearerCodec,
		verifyCodec,
		resetCodec,
		mailDispatcher,
		log,
		auth.ServiceOptions{
			AccessTokenTTL:  cfg.AccessTokenTTL,
			RefreshTokenTTL: cfg.RefreshTokenTTL,
			LinkTokenMaxAge: cfg.LinkTokenMaxAge,
			PublicBaseURL:   cfg.PublicBaseURL,
			MailFrom:        cfg.SMTPFrom,
		},
	)
	authHandler := auth.NewHandler(authService, guard)

	bookRepository := books.NewPostgresRepository(pool)
	bookService := books.NewService(bookRepository, log)
	bookHandler := books.NewHandler(bookService)

	reviewRepository := reviews.NewPostgresRepository(pool)
	reviewService := reviews.NewService(reviewRepository, bookService, log)
	reviewHandler := reviews.NewHandler(reviewService)

	tagRepository := tags.NewPostgresRepository(pool)
	tagService := tags.NewService(tagRepository, bookService, log)
	tagHandler := tags.NewHandler(tagService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Books:     bookHandler,
		Reviews:   reviewHandler,
		Tags:      tagHandler,
	}

	server := api.NewServer(appCtx, cfg, log, guard, authService, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
