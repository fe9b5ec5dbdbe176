// Copyright (c) 2026 Bookly. All rights reserved.
// Author: hai.dangngoc.vn@gmail.com

/*
HTTP delivery layer for user identity management.

It implements the gateway for the authentication lifecycle—from account
creation to token refresh, revocation, and recovery.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Refresh and logout run behind the token guard with their
    respective variants; /me additionally runs behind the role gate.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/danghai/bookly/internal/platform/constants"
	"github.com/danghai/bookly/internal/platform/middleware"
	requestutil "github.com/danghai/bookly/internal/platform/request"
	"github.com/danghai/bookly/internal/platform/respond"
	"github.com/danghai/bookly/internal/platform/sec"
	"github.com/danghai/bookly/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the user lifecycle entry points
// (Signup, Login, Refresh, Logout, Verification, Password Reset).
type Handler struct {
	authService *Service
	guard       *middleware.TokenGuard
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, guard *middleware.TokenGuard) *Handler {
	return &Handler{authService: service, guard: guard}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /signup  : Creates a new account.
//   - POST /login   : Authenticates and returns a token pair.
//   - GET  /refresh : Issues a fresh access token (refresh token required).
//   - GET  /logout  : Revokes the presented access token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/signup", handler.signup)
	router.Post("/login", handler.login)
	router.Post("/verify-email", handler.verifyEmail)
	router.Post("/password-reset-request", handler.passwordResetRequest)
	router.Post("/password-reset-confirm", handler.passwordResetConfirm)

	// Refresh requires a refresh-variant bearer token
	router.Group(func(r chi.Router) {
		r.Use(handler.guard.Require(middleware.RefreshVariant))
		r.Get("/refresh", handler.refresh)
	})

	// Access-variant protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(handler.guard.Require(middleware.AccessVariant))
		r.Get("/logout", handler.logout)
	})

	// /me resolves the stored account, so it also runs the role gate
	router.Group(func(r chi.Router) {
		r.Use(handler.guard.Require(middleware.AccessVariant))
		r.Use(middleware.RequireRole(handler.authService, sec.NewRolePolicy(sec.RoleAdmin, sec.RoleUser)))
		r.Get("/me", handler.me)
	})

	return router
}

// # Request Payloads

type signupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

type passwordResetRequestBody struct {
	Email string `json:"email"`
}

type passwordResetConfirmBody struct {
	Token              string `json:"token"`
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

/*
Signup handles the creation of a new user account.

POST /api/v1/auth/signup

Description: Validates input, checks for identity conflicts, persists a new
user profile, and dispatches a verification email.

Request:
  - Body: signupRequest (Username, Email, FirstName, LastName, Password)

Response:
  - 201: User: Created user profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or Email already exists
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, UsernameMinLength).
		MaxLen(FieldUsername, input.Username, UsernameMaxLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, PasswordMinLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Signup(request.Context(), SignupInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Password:  input.Password,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and issues a bearer token pair.

POST /api/v1/auth/login

Description: Verifies credentials and returns both the access token and the
refresh token alongside the user profile.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: Session: Token pair and User profile
  - 401: ErrUnauthorized: Invalid email or password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldAccessToken:  session.AccessToken,
		FieldRefreshToken: session.RefreshToken,
		FieldTokenType:    constants.BearerScheme,
		FieldUser:         session.User,
	})
}

/*
Refresh issues a new access token using a valid refresh token.

GET /api/v1/auth/refresh

Description: The token guard (refresh variant) has already verified the
bearer token; the service re-checks its expiry and mints a fresh access token.

Response:
  - 200: RefreshResponse: New access token
  - 403: AccessDenied: Missing, invalid, revoked, or wrong-variant token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	accessToken, err := handler.authService.RefreshAccessToken(request.Context(), claims)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldAccessToken: accessToken,
		FieldTokenType:   constants.BearerScheme,
		FieldExpiresIn:   int64(handler.authService.options.AccessTokenTTL / time.Second),
	})
}

/*
Logout revokes the presented access token.

GET /api/v1/auth/logout

Description: Adds the token's jti to the revocation list. The same token is
denied on every subsequent request until it would have expired anyway.

Response:
  - 200: Success: Token revoked
  - 403: AccessDenied: Missing or invalid token
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), claims); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Logged out successfully",
	})
}

/*
Me returns the authenticated user's resolved account.

GET /api/v1/auth/me

Description: The role gate has already resolved the identity; this endpoint
simply echoes it back.

Response:
  - 200: Identity: Current account
  - 403: AccessDenied: Missing or invalid token
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, identity)
}

/*
VerifyEmail confirms a user's email ownership.

POST /api/v1/auth/verify-email

Description: Validates a URL-safe verification token and marks the account
as verified.

Request:
  - Body: verifyEmailRequest (Token)

Response:
  - 200: Success: Email verified
  - 401: ErrUnauthorized: Expired or invalid link
*/
func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	var input verifyEmailRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Token == "" {
		respond.Error(writer, request, validate.RequiredError(FieldToken, "is required"))
		return
	}

	if err := handler.authService.VerifyEmail(request.Context(), input.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Email verified successfully",
	})
}

/*
PasswordResetRequest initiates the password recovery flow.

POST /api/v1/auth/password-reset-request

Description: Sends a password reset link to the provided email if the
account exists. The response never reveals whether it does.

Request:
  - Body: passwordResetRequestBody (Email)

Response:
  - 200: Success: Generic acknowledgement
  - 400: ErrInvalidJSON: Invalid email format
*/
func (handler *Handler) passwordResetRequest(writer http.ResponseWriter, request *http.Request) {
	var input passwordResetRequestBody

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.RequestPasswordReset(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "If this email is registered, a reset link has been sent.",
	})
}

/*
PasswordResetConfirm completes the password recovery flow.

POST /api/v1/auth/password-reset-confirm

Description: Checks that the two password fields match BEFORE touching any
store, then validates the reset token and updates the password.

Request:
  - Body: passwordResetConfirmBody (Token, NewPassword, ConfirmNewPassword)

Response:
  - 200: Success: Password updated
  - 400: ErrValidation: Mismatched or weak passwords
  - 401: ErrUnauthorized: Expired or invalid link
*/
func (handler *Handler) passwordResetConfirm(writer http.ResponseWriter, request *http.Request) {
	var input passwordResetConfirmBody

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldToken, input.Token).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, PasswordMinLength).
		Equals(FieldConfirmNewPassword, input.ConfirmNewPassword, input.NewPassword, "Passwords do not match")

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password updated successfully",
	})
}
