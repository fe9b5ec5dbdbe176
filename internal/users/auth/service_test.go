// Copyright (c) 2026 Bookly. All rights reserved.
// Author: hai.dangngoc.vn@gmail.com

package auth_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danghai/bookly/internal/platform/apperr"
	"github.com/danghai/bookly/internal/platform/mail"
	"github.com/danghai/bookly/internal/platform/sec"
	"github.com/danghai/bookly/internal/users/auth"
)

const testSecret = "unit-test-signing-secret"

// # Test Fakes

// fakeUserRepo is an in-memory [auth.UserRepository].
type fakeUserRepo struct {
	users map[string]*auth.User // keyed by UID
}

func newFakeUserRepo(users ...*auth.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*auth.User)}
	for _, user := range users {
		repo.users[user.UID] = user
	}
	return repo
}

func (repo *fakeUserRepo) FindByUID(_ context.Context, uid string) (*auth.User, error) {
	if user, ok := repo.users[uid]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	repo.users[user.UID] = user
	return nil
}

func (repo *fakeUserRepo) UpdatePassword(_ context.Context, userUID, newHash string) error {
	user, ok := repo.users[userUID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

func (repo *fakeUserRepo) MarkVerified(_ context.Context, userUID string) error {
	user, ok := repo.users[userUID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.IsVerified = true
	return nil
}

// fakeRevocations records revocations in memory.
type fakeRevocations struct {
	revoked map[string]time.Duration // jti -> ttl it was stored with
}

func newFakeRevocations() *fakeRevocations {
	return &fakeRevocations{revoked: make(map[string]time.Duration)}
}

func (store *fakeRevocations) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	store.revoked[jti] = ttl
	return nil
}

func (store *fakeRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := store.revoked[jti]
	return ok, nil
}

// fakeDispatcher forwards messages to a channel so tests can wait for the
// fire-and-forget delivery goroutine.
type fakeDispatcher struct {
	sent chan mail.Message
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{sent: make(chan mail.Message, 4)}
}

func (dispatcher *fakeDispatcher) Send(_ context.Context, message mail.Message) error {
	dispatcher.sent <- message
	return nil
}

func (dispatcher *fakeDispatcher) waitForMail(t *testing.T) mail.Message {
	t.Helper()
	select {
	case message := <-dispatcher.sent:
		return message
	case <-time.After(2 * time.Second):
		t.Fatal("no mail dispatched within 2s")
		return mail.Message{}
	}
}

// # Harness

type serviceHarness struct {
	service     *auth.Service
	repo        *fakeUserRepo
	revocations *fakeRevocations
	dispatcher  *fakeDispatcher
	codec       *sec.TokenCodec
	verifyCodec *sec.LinkTokenCodec
	resetCodec  *sec.LinkTokenCodec
}

func newServiceHarness(t *testing.T, users ...*auth.User) *serviceHarness {
	t.Helper()

	repo := newFakeUserRepo(users...)
	revocations := newFakeRevocations()
	dispatcher := newFakeDispatcher()
	codec := sec.NewTokenCodec(testSecret, "bookly.app")
	verifyCodec := sec.NewLinkTokenCodec(testSecret, sec.SaltEmailVerification, "bookly.app")
	resetCodec := sec.NewLinkTokenCodec(testSecret, sec.SaltPasswordReset, "bookly.app")

	service := auth.NewService(
		repo,
		revocations,
		codec,
		verifyCodec,
		resetCodec,
		dispatcher,
		slog.Default(),
		auth.ServiceOptions{
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 48 * time.Hour,
			LinkTokenMaxAge: time.Hour,
			PublicBaseURL:   "http://localhost:8000",
			MailFrom:        "noreply@bookly.app",
		},
	)

	return &serviceHarness{
		service:     service,
		repo:        repo,
		revocations: revocations,
		dispatcher:  dispatcher,
		codec:       codec,
		verifyCodec: verifyCodec,
		resetCodec:  resetCodec,
	}
}

func existingUser(t *testing.T, password string) *auth.User {
	t.Helper()
	hash, err := sec.HashPassword(password)
	require.NoError(t, err)
	return &auth.User{
		UID:          "user-uid-1",
		Username:     "reader",
		Email:        "reader@bookly.app",
		PasswordHash: hash,
		Role:         sec.RoleUser,
		IsVerified:   true,
	}
}

// # Signup

/*
TestService_Signup verifies enrollment: the stored account carries a hash
(never the plain password), the default role, and the unverified flag, and a
verification mail goes out.
*/
func TestService_Signup(t *testing.T) {
	harness := newServiceHarness(t)

	user, err := harness.service.Signup(context.Background(), auth.SignupInput{
		Username:  "newreader",
		Email:     "new@bookly.app",
		FirstName: "New",
		LastName:  "Reader",
		Password:  "plain-password-1",
	})
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.NotEmpty(t, user.UID)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.False(t, user.IsVerified)
	assert.NotEqual(t, "plain-password-1", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("plain-password-1", user.PasswordHash))

	message := harness.dispatcher.waitForMail(t)
	assert.Equal(t, "new@bookly.app", message.To)
	assert.Contains(t, message.Body, "/api/v1/auth/verify-email?token=")
}

/*
TestService_Signup_Conflicts verifies that a taken email or username yields
a 409 before anything is stored.
*/
func TestService_Signup_Conflicts(t *testing.T) {
	tests := []struct {
		name    string
		input   auth.SignupInput
		wantMsg string
	}{
		{
			name:    "email_taken",
			input:   auth.SignupInput{Username: "someoneelse", Email: "reader@bookly.app", Password: "password123"},
			wantMsg: "Email is already registered",
		},
		{
			name:    "username_taken",
			input:   auth.SignupInput{Username: "reader", Email: "other@bookly.app", Password: "password123"},
			wantMsg: "Username is already taken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			harness := newServiceHarness(t, existingUser(t, "password123"))

			user, err := harness.service.Signup(context.Background(), tt.input)
			assert.Nil(t, user)

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, "CONFLICT", appErr.Code)
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}
}

// # Login

/*
TestService_Login verifies the token pair: the access token decodes without
the refresh flag, the refresh token with it, and each carries its own jti.
*/
func TestService_Login(t *testing.T) {
	harness := newServiceHarness(t, existingUser(t, "password123"))

	session, err := harness.service.Login(context.Background(), auth.LoginInput{
		Email:    "reader@bookly.app",
		Password: "password123",
	})
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "user-uid-1", session.User.UID)

	accessClaims, err := harness.codec.DecodeBearer(session.AccessToken)
	require.NoError(t, err)
	assert.False(t, accessClaims.Refresh)
	assert.Equal(t, "user-uid-1", accessClaims.User.UID)

	refreshClaims, err := harness.codec.DecodeBearer(session.RefreshToken)
	require.NoError(t, err)
	assert.True(t, refreshClaims.Refresh)

	assert.NotEqual(t, accessClaims.JTI(), refreshClaims.JTI())
}

/*
TestService_Login_InvalidCredentials verifies that an unknown email and a
wrong password produce the same generic 401, preventing enumeration.
*/
func TestService_Login_InvalidCredentials(t *testing.T) {
	tests := []struct {
		name  string
		input auth.LoginInput
	}{
		{"unknown_email", auth.LoginInput{Email: "nobody@bookly.app", Password: "password123"}},
		{"wrong_password", auth.LoginInput{Email: "reader@bookly.app", Password: "wrong"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			harness := newServiceHarness(t, existingUser(t, "password123"))

			session, err := harness.service.Login(context.Background(), tt.input)
			assert.Nil(t, session)

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, "UNAUTHORIZED", appErr.Code)
			assert.Equal(t, "Invalid email or password", appErr.Message)
		})
	}
}

// # Token Lifecycle

/*
TestService_RefreshAccessToken verifies that valid refresh claims mint a new
access token and expired claims are rejected before anything is issued.
*/
func TestService_RefreshAccessToken(t *testing.T) {
	harness := newServiceHarness(t)

	claims := &sec.BearerClaims{
		User:    sec.UserClaims{UID: "user-uid-1", Email: "reader@bookly.app", Role: "user"},
		Refresh: true,
	}
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))

	token, err := harness.service.RefreshAccessToken(context.Background(), claims)
	require.NoError(t, err)

	decoded, err := harness.codec.DecodeBearer(token)
	require.NoError(t, err)
	assert.False(t, decoded.Refresh)
	assert.Equal(t, "user-uid-1", decoded.User.UID)
}

/*
TestService_RefreshAccessToken_Expired covers the explicit re-check of the
embedded expiry, including claims missing it entirely.
*/
func TestService_RefreshAccessToken_Expired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt *jwt.NumericDate
	}{
		{"past_expiry", jwt.NewNumericDate(time.Now().Add(-time.Minute))},
		{"missing_expiry", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			harness := newServiceHarness(t)

			claims := &sec.BearerClaims{Refresh: true}
			claims.ExpiresAt = tt.expiresAt

			token, err := harness.service.RefreshAccessToken(context.Background(), claims)
			assert.Empty(t, token)

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, "UNAUTHORIZED", appErr.Code)
		})
	}
}

/*
TestService_Logout verifies the jti lands on the revocation list with the
refresh-token lifetime, and that revoking twice succeeds.
*/
func TestService_Logout(t *testing.T) {
	harness := newServiceHarness(t)

	claims := &sec.BearerClaims{}
	claims.ID = "jti-to-revoke"

	require.NoError(t, harness.service.Logout(context.Background(), claims))

	revoked, err := harness.revocations.IsRevoked(context.Background(), "jti-to-revoke")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, 48*time.Hour, harness.revocations.revoked["jti-to-revoke"])

	// Idempotent
	require.NoError(t, harness.service.Logout(context.Background(), claims))
}

// # Identity Resolution

/*
TestService_Resolve verifies the claims-to-account mapping and the NotFound
outcome for deleted accounts.
*/
func TestService_Resolve(t *testing.T) {
	harness := newServiceHarness(t, existingUser(t, "password123"))

	claims := &sec.BearerClaims{
		User: sec.UserClaims{UID: "user-uid-1", Email: "reader@bookly.app", Role: "user"},
	}

	identity, err := harness.service.Resolve(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, "user-uid-1", identity.UID)
	assert.Equal(t, "reader", identity.Username)
	assert.Equal(t, sec.RoleUser, identity.Role)
	assert.True(t, identity.IsVerified)

	// Account deleted after issuance
	gone := &sec.BearerClaims{User: sec.UserClaims{Email: "gone@bookly.app"}}
	identity, err = harness.service.Resolve(context.Background(), gone)
	assert.Nil(t, identity)
	require.NotNil(t, apperr.As(err))
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Email Verification

/*
TestService_VerifyEmail verifies the full link flow: a token from the
verification codec flips the stored flag, a tampered token is rejected, and
a token from the wrong purpose codec never verifies.
*/
func TestService_VerifyEmail(t *testing.T) {
	user := existingUser(t, "password123")
	user.IsVerified = false
	harness := newServiceHarness(t, user)

	token, err := harness.verifyCodec.IssueLink(map[string]string{"email": "reader@bookly.app"})
	require.NoError(t, err)

	require.NoError(t, harness.service.VerifyEmail(context.Background(), token))
	assert.True(t, harness.repo.users["user-uid-1"].IsVerified)

	// Tampered token
	err = harness.service.VerifyEmail(context.Background(), "garbage")
	require.NotNil(t, apperr.As(err))
	assert.Equal(t, "This link is invalid", apperr.As(err).Message)

	// Reset-purpose token presented to the verification flow
	crossToken, err := harness.resetCodec.IssueLink(map[string]string{"email": "reader@bookly.app"})
	require.NoError(t, err)
	err = harness.service.VerifyEmail(context.Background(), crossToken)
	require.NotNil(t, apperr.As(err))
	assert.Equal(t, "This link is invalid", apperr.As(err).Message)
}

// # Password Recovery

/*
TestService_RequestPasswordReset verifies the mail dispatch for a known
account and the silent success for an unknown one.
*/
func TestService_RequestPasswordReset(t *testing.T) {
	harness := newServiceHarness(t, existingUser(t, "password123"))

	require.NoError(t, harness.service.RequestPasswordReset(context.Background(), "reader@bookly.app"))

	message := harness.dispatcher.waitForMail(t)
	assert.Equal(t, "reader@bookly.app", message.To)
	assert.Contains(t, message.Body, "/api/v1/auth/password-reset-confirm?token=")

	// Unknown email: success, no mail
	require.NoError(t, harness.service.RequestPasswordReset(context.Background(), "nobody@bookly.app"))
	select {
	case unexpected := <-harness.dispatcher.sent:
		t.Fatalf("unexpected mail dispatched to %s", unexpected.To)
	case <-time.After(100 * time.Millisecond):
	}
}

/*
TestService_ResetPassword verifies the completed flow: the old password stops
working and the new one verifies.
*/
func TestService_ResetPassword(t *testing.T) {
	harness := newServiceHarness(t, existingUser(t, "old-password-1"))

	token, err := harness.resetCodec.IssueLink(map[string]string{"email": "reader@bookly.app"})
	require.NoError(t, err)

	require.NoError(t, harness.service.ResetPassword(context.Background(), token, "new-password-1"))

	stored := harness.repo.users["user-uid-1"]
	assert.False(t, sec.CheckPasswordHash("old-password-1", stored.PasswordHash))
	assert.True(t, sec.CheckPasswordHash("new-password-1", stored.PasswordHash))
}

/*
TestService_ResetPassword_BadLink verifies the distinct messages for expired
and tampered links.
*/
func TestService_ResetPassword_BadLink(t *testing.T) {
	harness := newServiceHarness(t, existingUser(t, "password123"))

	err := harness.service.ResetPassword(context.Background(), "garbage", "new-password-1")
	require.NotNil(t, apperr.As(err))
	assert.Equal(t, "This link is invalid", apperr.As(err).Message)

	// Password unchanged after a rejected link
	stored := harness.repo.users["user-uid-1"]
	assert.True(t, sec.CheckPasswordHash("password123", stored.PasswordHash))
}
