// Copyright (c) 2026 Bookly. All rights reserved.
// Author: hai.dangngoc.vn@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/danghai/bookly/internal/platform/ctxkey"
	"github.com/danghai/bookly/internal/platform/sec"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithClaims returns a new context with verified bearer token claims attached.
func WithClaims(ctx context.Context, claims *sec.BearerClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyClaims, claims)
}

// GetClaims retrieves the [*sec.BearerClaims] from the [context.Context].
// Returns nil for unauthenticated requests.
func GetClaims(ctx context.Context) *sec.BearerClaims {
	claims, ok := ctx.Value(ctxkey.KeyClaims).(*sec.BearerClaims)
	if !ok {
		return nil
	}
	return claims
}

// WithIdentity returns a new context with the resolved account attached.
func WithIdentity(ctx context.Context, identity *sec.Identity) context.Context {
	return context.WithValue(ctx, ctxkey.KeyIdentity, identity)
}

// GetIdentity retrieves the [*sec.Identity] from the [context.Context].
// Returns nil if no role gate has resolved the account for this request.
func GetIdentity(ctx context.Context) *sec.Identity {
	identity, ok := ctx.Value(ctxkey.KeyIdentity).(*sec.Identity)
	if !ok {
		return nil
	}
	return identity
}
