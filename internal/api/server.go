// Copyright (c) 2026 Bookly. All rights reserved.
// Author: hai.dangngoc.vn@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/danghai/bookly/internal/books"
	"github.com/danghai/bookly/internal/platform/config"
	"github.com/danghai/bookly/internal/platform/constants"
	"github.com/danghai/bookly/internal/platform/middleware"
	"github.com/danghai/bookly/internal/platform/sec"
	"github.com/danghai/bookly/internal/reviews"
	"github.com/danghai/bookly/internal/tags"
	"github.com/danghai/bookly/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the authentication lifecycle (signup, login, refresh, logout).
	Auth *auth.Handler

	// Books handles the book catalogue.
	Books *books.Handler

	// Reviews handles per-book ratings and commentary.
	Reviews *reviews.Handler

	// Tags handles labels and book-tag links.
	Tags *tags.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// The guard and resolver protect every domain route group: requests must
// present a valid access token AND resolve to an account holding one of the
// standard roles. Auth routes manage their own guards per endpoint.
func NewServer(
	context context.Context,
	cfg *config.Config,
	log *slog.Logger,
	guard *middleware.TokenGuard,
	resolver middleware.IdentityResolver,
	h Handlers,
) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// Standard policy shared by all protected domain groups.
	memberPolicy := sec.NewRolePolicy(sec.RoleAdmin, sec.RoleUser)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())

		api.Route("/books", func(protected chi.Router) {
			protected.Use(guard.Require(middleware.AccessVariant))
			protected.Use(middleware.RequireRole(resolver, memberPolicy))
			h.Books.RegisterRoutes(protected)
		})

		api.Route("/reviews", func(protected chi.Router) {
			protected.Use(guard.Require(middleware.AccessVariant))
			protected.Use(middleware.RequireRole(resolver, memberPolicy))
			h.Reviews.RegisterRoutes(protected)
		})

		api.Route("/tags", func(protected chi.Router) {
			protected.Use(guard.Require(middleware.AccessVariant))
			protected.Use(middleware.RequireRole(resolver, memberPolicy))
			h.Tags.RegisterRoutes(protected)
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
