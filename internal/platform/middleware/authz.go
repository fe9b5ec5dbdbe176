// Copyright (c) 2026 Bookly. All rights reserved.
// Author: hai.dangngoc.vn@gmail.com

// Package middleware provides the HTTP middleware chain for the Bookly API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This includes cross-cutting concerns
// like Logging, AuthN/AuthZ, Rate Limiting, and CORS.
//
// The token guard in this file is a two-variant state machine over one
// request-scoped check: extract the bearer credential, decode it, consult the
// revocation list, then enforce the variant policy (access vs refresh). Every
// failure surfaces as the same HTTP 403 denial, distinguished only by an
// internal reason code and message, so clients get actionable hints without
// the outcome leaking why a token specifically failed.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/danghai/bookly/internal/platform/apperr"
	"github.com/danghai/bookly/internal/platform/constants"
	"github.com/danghai/bookly/internal/platform/ctxutil"
	"github.com/danghai/bookly/internal/platform/respond"
	"github.com/danghai/bookly/internal/platform/sec"
)

// # Guard Contracts

// TokenDecoder defines the interface needed to verify bearer tokens.
//
// # Why an interface?
//
// Defining TokenDecoder here decouples the guard from the [sec.TokenCodec]
// implementation, allowing us to inject fakes during unit testing.
type TokenDecoder interface {
	DecodeBearer(tokenString string) (*sec.BearerClaims, error)
}

// RevocationChecker reports whether a jti has been revoked.
//
// The check runs against a shared network store; any connectivity error is
// returned to the guard, which fails closed.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// IdentityResolver maps verified token claims to a stored account.
type IdentityResolver interface {
	Resolve(ctx context.Context, claims *sec.BearerClaims) (*sec.Identity, error)
}

// # Token Variants

// TokenVariant selects the guard policy applied after decoding.
type TokenVariant int

const (
	// AccessVariant rejects tokens carrying the refresh flag.
	AccessVariant TokenVariant = iota

	// RefreshVariant rejects tokens NOT carrying the refresh flag.
	RefreshVariant
)

// # Denial Reason Codes

const (
	CodeMissingCredential = "MISSING_CREDENTIAL"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeRevokedToken      = "REVOKED_TOKEN"
	CodeWrongTokenType    = "WRONG_TOKEN_TYPE"
	CodeStoreUnavailable  = "AUTH_STORE_UNAVAILABLE"
)

// # Token Guard

// TokenGuard authenticates requests by verifying bearer tokens against the
// codec and the revocation list.
type TokenGuard struct {
	decoder TokenDecoder
	revoked RevocationChecker
}

// NewTokenGuard constructs a guard with its verification dependencies.
func NewTokenGuard(decoder TokenDecoder, revoked RevocationChecker) *TokenGuard {
	return &TokenGuard{decoder: decoder, revoked: revoked}
}

// Require returns middleware enforcing the given token variant.
//
// # Flow
//  1. Extract 'Authorization: Bearer <token>'. Absent or malformed → denial.
//  2. Decode via the token codec. Any decode failure → denial.
//  3. Check the revocation list by jti. Revoked → denial. Store error →
//     denial (fail closed: allowing through on store failure would silently
//     defeat logout).
//  4. Enforce the variant policy on the refresh flag.
//  5. Inject [*sec.BearerClaims] into the request context.
func (guard *TokenGuard) Require(variant TokenVariant) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims, err := guard.Check(request, variant)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			ctx := ctxutil.WithClaims(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// Check runs the guard state machine for a single request and returns the
// verified claims, or a typed denial.
func (guard *TokenGuard) Check(request *http.Request, variant TokenVariant) (*sec.BearerClaims, error) {

	// ── 1. Credential Extraction ──────────────────────────────────────────
	authHeader := request.Header.Get(constants.HeaderAuthorization)
	if authHeader == "" {
		return nil, apperr.AccessDenied(CodeMissingCredential,
			"Authorization header is missing",
			"Provide a bearer token in the Authorization header")
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], constants.BearerScheme) {
		return nil, apperr.AccessDenied(CodeMissingCredential,
			"Authorization header is malformed",
			"Use the format 'Authorization: Bearer <token>'")
	}

	// ── 2. Decode & Signature Verification ────────────────────────────────
	claims, err := guard.decoder.DecodeBearer(parts[1])
	if err != nil {
		// All decode outcomes (expired, bad signature, malformed) are
		// "unauthenticated" — the distinction is logged, not exposed.
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(),
			"token_decode_rejected", "reason", err.Error())
		return nil, apperr.AccessDenied(CodeInvalidToken,
			"This token is invalid or expired",
			"Please get a new token")
	}

	// ── 3. Revocation Check (fail closed) ─────────────────────────────────
	isRevoked, err := guard.revoked.IsRevoked(request.Context(), claims.JTI())
	if err != nil {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(),
			"revocation_store_unreachable", "error", err.Error())
		return nil, apperr.AccessDenied(CodeStoreUnavailable,
			"This token could not be verified",
			"Please retry shortly or get a new token")
	}
	if isRevoked {
		return nil, apperr.AccessDenied(CodeRevokedToken,
			"This token has been revoked",
			"Please get a new token")
	}

	// ── 4. Variant Policy ─────────────────────────────────────────────────
	switch variant {
	case AccessVariant:
		if claims.Refresh {
			return nil, apperr.AccessDenied(CodeWrongTokenType,
				"Please provide an access token",
				"Use the access token, not the refresh token")
		}
	case RefreshVariant:
		if !claims.Refresh {
			return nil, apperr.AccessDenied(CodeWrongTokenType,
				"Please provide a refresh token",
				"Use the refresh token issued at login")
		}
	}

	return claims, nil
}

// # Role Gate

// RequireRole blocks requests whose resolved identity fails the role policy.
//
// # Usage
//
// Must be registered AFTER [TokenGuard.Require]: it consumes the claims the
// guard injected, resolves the stored account, and evaluates the policy.
// The resolved [*sec.Identity] is injected into the context on success.
func RequireRole(resolver IdentityResolver, policy sec.RolePolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetClaims(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Identity Resolution ────────────────────────────────────
			identity, err := resolver.Resolve(request.Context(), claims)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 3. Authorization Check ────────────────────────────────────
			if !policy.Check(identity) {
				respond.Error(writer, request, apperr.Forbidden("You are not allowed to perform this action"))
				return
			}

			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
