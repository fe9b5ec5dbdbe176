// Copyright (c) 2026 Bookly. All rights reserved.
// Author: hai.dangngoc.vn@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danghai/bookly/internal/platform/apperr"
	"github.com/danghai/bookly/internal/platform/ctxutil"
	"github.com/danghai/bookly/internal/platform/sec"
	"github.com/danghai/bookly/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter (UUID/Slug) from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Claims extracts the verified bearer token claims from the request context.

Returns nil if the request did not pass a token guard.
*/
func Claims(request *http.Request) *sec.BearerClaims {
	return ctxutil.GetClaims(request.Context())
}

/*
RequiredClaims ensures the request passed a token guard and returns the claims.

Returns:
  - *sec.BearerClaims: The verified token claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.BearerClaims, error) {

	// Get token claims
	claims := ctxutil.GetClaims(request.Context())

	// If the user is not authenticated, return an error
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return claims, nil
}

/*
RequiredUserID returns the User ID of the currently logged-in user.

Returns:
  - string: User UUID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {

	// Get token claims
	claims, err := RequiredClaims(request)

	// If the user is not authenticated, return an error
	if err != nil {
		return "", err
	}

	return claims.User.UID, nil
}

/*
RequiredIdentity returns the resolved account injected by the role gate.

Returns:
  - *sec.Identity: The resolved account
  - error: apperr.Unauthorized if no role gate ran for this request
*/
func RequiredIdentity(request *http.Request) (*sec.Identity, error) {

	identity := ctxutil.GetIdentity(request.Context())

	if identity == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return identity, nil
}
