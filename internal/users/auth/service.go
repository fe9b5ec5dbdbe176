// Copyright (c) 2026 Bookly. All rights reserved.
// Author: hai.dangngoc.vn@gmail.com

/*
Authentication service for the Bookly platform.

It handles everything from user signup and secure password hashing to bearer
token lifecycle (issuance, refresh, revocation-backed logout) and the two
email-link flows (verification, password reset).

Architecture:

  - Service: Orchestrates business logic (Signup, Login, Refresh, Logout).
  - Repository: Abstracted interfaces for Postgres (Users) and Redis (Revocations).
  - Security: Leverages bcrypt hashing and HMAC-signed JWTs from platform/sec.

The service is also the identity resolver: it maps verified bearer claims to
the stored account consumed by the role gate.
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danghai/bookly/internal/platform/apperr"
	"github.com/danghai/bookly/internal/platform/mail"
	"github.com/danghai/bookly/internal/platform/sec"
	"github.com/danghai/bookly/pkg/uuidv7"
)

// # Contracts & Types

// BearerIssuer defines the contract for minting signed bearer tokens.
type BearerIssuer interface {
	// IssueBearer creates a signed JWT carrying the identity claims.
	//
	// # Parameters
	//   - user: The identity claims to embed.
	//   - lifetime: The duration before the token expires.
	//   - refresh: Marks the token as a refresh token.
	//
	// # Returns
	//   - A signed JWT string, or an error if signing fails.
	IssueBearer(user sec.UserClaims, lifetime time.Duration, refresh bool) (string, error)
}

// LinkCodec defines the contract for URL-safe single-purpose tokens carried
// in email links.
type LinkCodec interface {
	// IssueLink signs the claim map with an implicit creation timestamp.
	IssueLink(data map[string]string) (string, error)

	// VerifyLink checks the signature and enforces the age bound.
	VerifyLink(tokenString string, maxAge time.Duration) (map[string]string, error)
}

// ServiceOptions carries the tunable lifetimes and link origins, populated
// from configuration at startup.
type ServiceOptions struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	LinkTokenMaxAge time.Duration
	PublicBaseURL   string
	MailFrom        string
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, token
// issuance, or login logic must be reviewed by the security team.
type Service struct {
	userRepository  UserRepository
	revocationStore RevocationStore
	bearerIssuer    BearerIssuer
	verifyCodec     LinkCodec
	resetCodec      LinkCodec
	mailDispatcher  mail.Dispatcher
	logger          *slog.Logger
	options         ServiceOptions
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	revocations RevocationStore,
	bearerIssuer BearerIssuer,
	verifyCodec LinkCodec,
	resetCodec LinkCodec,
	mailDispatcher mail.Dispatcher,
	logger *slog.Logger,
	options ServiceOptions,
) *Service {
	return &Service{
		userRepository:  userRepo,
		revocationStore: revocations,
		bearerIssuer:    bearerIssuer,
		verifyCodec:     verifyCodec,
		resetCodec:      resetCodec,
		mailDispatcher:  mailDispatcher,
		logger:          logger,
		options:         options,
	}
}

// # Signup Flow

// SignupInput holds the data required to enroll a new member.
type SignupInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

/*
Signup validates, hashes, and persists a brand new user account.

Description: Deep-enrollment of a new member, handling password hashing and
dispatching the verification email as a fire-and-forget side effect.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *User: Created entity
  - error: Conflict (if identity exists) or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*User, error) {

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify username uniqueness. Return a client-safe Conflict error.
	_, err = service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during signup spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable UID to prevent PG index fragmentation.
	user := &User{
		UID:          uuidv7.New(),
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hashedPassword,
		Role:         sec.RoleUser,
		IsVerified:   false,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	// Dispatch the verification email asynchronously. Delivery failures are
	// logged, never returned: the account exists either way.
	service.sendVerificationMail(user.Email)

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginSession represents a successfully established token pair.
type LoginSession struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

/*
Login validates user credentials and issues a bearer token pair.

Description: Verifies identity via constant-time password comparison and
mints an access token plus a long-lived refresh token, each with its own jti.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready token pair
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {

	// Look up by email. Generic failure message to prevent enumeration.
	user, err := service.userRepository.FindByEmail(context, input.Email)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	// Verify password hash using bcrypt's constant-time comparison
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	claims := sec.UserClaims{
		UID:   user.UID,
		Email: user.Email,
		Role:  string(user.Role),
	}

	// Generate short-lived Access Token
	accessToken, err := service.bearerIssuer.IssueBearer(claims, service.options.AccessTokenTTL, false)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	// Generate long-lived Refresh Token
	refreshToken, err := service.bearerIssuer.IssueBearer(claims, service.options.RefreshTokenTTL, true)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// # Token Lifecycle

/*
RefreshAccessToken issues a fresh access token from verified refresh claims.

Description: The token guard has already decoded the refresh token and checked
the revocation list; the embedded expiry is re-checked here explicitly before
minting a new access token.

Parameters:
  - context: context.Context
  - claims: *sec.BearerClaims (verified refresh token claims)

Returns:
  - string: Fresh access token
  - error: Unauthorized or signing failures
*/
func (service *Service) RefreshAccessToken(context context.Context, claims *sec.BearerClaims) (string, error) {

	// Re-check the embedded expiry explicitly before issuing anything
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		return "", apperr.Unauthorized("Refresh token has expired, please log in again")
	}

	accessToken, err := service.bearerIssuer.IssueBearer(claims.User, service.options.AccessTokenTTL, false)
	if err != nil {
		return "", fmt.Errorf("auth_service_refresh_access_failed: %w", err)
	}

	return accessToken, nil
}

/*
Logout permanently revokes the presented token's jti.

Description: The revocation record lives as long as the longest bearer
lifetime, so it always outlives the token it denies. Idempotent.

Parameters:
  - context: context.Context
  - claims: *sec.BearerClaims (verified access token claims)

Returns:
  - error: Revocation failures
*/
func (service *Service) Logout(context context.Context, claims *sec.BearerClaims) error {
	if err := service.revocationStore.Revoke(context, claims.JTI(), service.options.RefreshTokenTTL); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Identity Resolution

/*
Resolve maps verified bearer claims to the stored account.

Description: The claims are trusted completely — the guard verified the
signature. Resolution only re-reads the account so role gates see the
current role, not the role at token issuance.

Parameters:
  - context: context.Context
  - claims: *sec.BearerClaims

Returns:
  - *sec.Identity: The resolved account
  - error: apperr.NotFound if the account no longer exists
*/
func (service *Service) Resolve(context context.Context, claims *sec.BearerClaims) (*sec.Identity, error) {
	user, err := service.userRepository.FindByEmail(context, claims.User.Email)
	if err != nil {
		return nil, err
	}

	return &sec.Identity{
		UID:        user.UID,
		Username:   user.Username,
		Email:      user.Email,
		Role:       user.Role,
		IsVerified: user.IsVerified,
	}, nil
}

// # Email Verification

/*
VerifyEmail confirms a user's email address using a URL-safe link token.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: Unauthorized (expired/invalid link) or database errors
*/
func (service *Service) VerifyEmail(context context.Context, token string) error {

	// Verify signature and age under the email-verification purpose key
	data, err := service.verifyCodec.VerifyLink(token, service.options.LinkTokenMaxAge)
	if err != nil {
		return mapLinkError(err)
	}

	// Resolve the account carried in the token payload
	user, err := service.userRepository.FindByEmail(context, data[FieldEmail])
	if err != nil {
		return err
	}

	// Update the user's status to verified in persistent storage
	if err := service.userRepository.MarkVerified(context, user.UID); err != nil {
		return fmt.Errorf("auth_service_verify_email_failed: %w", err)
	}

	return nil
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Issues a reset link token and dispatches it by email.
NOTE: Always succeeds from the caller's perspective to prevent user
enumeration — an unknown email is silently ignored.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Signing errors only
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) error {

	// Unknown email: report success without doing anything
	if _, err := service.userRepository.FindByEmail(context, email); err != nil {
		return nil
	}

	token, err := service.resetCodec.IssueLink(map[string]string{FieldEmail: email})
	if err != nil {
		return fmt.Errorf("auth_service_reset_link_failed: %w", err)
	}

	link := service.options.PublicBaseURL + "/api/v1/auth/password-reset-confirm?token=" + token
	mail.SendAsync(service.mailDispatcher, service.logger, mail.Message{
		To:      email,
		Subject: ResetMailSubject,
		Body:    "Use this link to reset your password:\n\n" + link,
	})

	return nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the link token, hashes the new password, and updates
the account. The password/confirmation equality check happens in the handler
before this method runs — no store mutation can precede it.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - error: Unauthorized (expired/invalid link) or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {

	// Verify signature and age under the password-reset purpose key
	data, err := service.resetCodec.VerifyLink(token, service.options.LinkTokenMaxAge)
	if err != nil {
		return mapLinkError(err)
	}

	// Resolve the account carried in the token payload
	user, err := service.userRepository.FindByEmail(context, data[FieldEmail])
	if err != nil {
		return err
	}

	// Hash the new password securely
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_hash_failed: %w", err)
	}

	// Update the user's password in persistent storage
	if err := service.userRepository.UpdatePassword(context, user.UID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_update_failed: %w", err)
	}

	return nil
}

// # Helpers

// sendVerificationMail issues a verification link token and dispatches it.
// Failures are logged, never surfaced.
func (service *Service) sendVerificationMail(email string) {
	token, err := service.verifyCodec.IssueLink(map[string]string{FieldEmail: email})
	if err != nil {
		service.logger.Error("verification_link_issue_failed",
			slog.String("email", email),
			slog.Any("error", err),
		)
		return
	}

	link := service.options.PublicBaseURL + "/api/v1/auth/verify-email?token=" + token
	mail.SendAsync(service.mailDispatcher, service.logger, mail.Message{
		To:      email,
		Subject: VerificationMailSubject,
		Body:    "Welcome to Bookly! Verify your account using this link:\n\n" + link,
	})
}

// mapLinkError converts link token decode failures into client-safe errors.
func mapLinkError(err error) error {
	if errors.Is(err, sec.ErrLinkExpired) {
		return apperr.Unauthorized("This link has expired, please request a new one")
	}
	return apperr.Unauthorized("This link is invalid")
}
