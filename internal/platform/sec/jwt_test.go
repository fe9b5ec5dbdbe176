// Copyright (c) 2026 Bookly. All rights reserved.
// Author: hai.dangngoc.vn@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danghai/bookly/internal/platform/sec"
)

const testSecret = "unit-test-signing-secret"

func testUserClaims() sec.UserClaims {
	return sec.UserClaims{
		UID:   "user-uid-1",
		Email: "reader@bookly.app",
		Role:  "user",
	}
}

/*
TestTokenCodec_RoundTrip verifies that issued claims decode back intact for
both the access and refresh variants.
*/
func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := sec.NewTokenCodec(testSecret, "bookly.app")

	tests := []struct {
		name    string
		refresh bool
	}{
		{"access_token", false},
		{"refresh_token", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := codec.IssueBearer(testUserClaims(), time.Hour, tt.refresh)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := codec.DecodeBearer(token)
			require.NoError(t, err)

			assert.Equal(t, "user-uid-1", claims.User.UID)
			assert.Equal(t, "reader@bookly.app", claims.User.Email)
			assert.Equal(t, "user", claims.User.Role)
			assert.Equal(t, tt.refresh, claims.Refresh)
			assert.Equal(t, "bookly.app", claims.Issuer)
			assert.NotEmpty(t, claims.JTI())
		})
	}
}

/*
TestTokenCodec_FreshJTI verifies that every issuance gets its own jti, so
revoking one token never affects another.
*/
func TestTokenCodec_FreshJTI(t *testing.T) {
	codec := sec.NewTokenCodec(testSecret, "bookly.app")

	first, err := codec.IssueBearer(testUserClaims(), time.Hour, false)
	require.NoError(t, err)
	second, err := codec.IssueBearer(testUserClaims(), time.Hour, false)
	require.NoError(t, err)

	firstClaims, err := codec.DecodeBearer(first)
	require.NoError(t, err)
	secondClaims, err := codec.DecodeBearer(second)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.JTI(), secondClaims.JTI())
}

/*
TestTokenCodec_Expired verifies the explicit expired outcome.
*/
func TestTokenCodec_Expired(t *testing.T) {
	codec := sec.NewTokenCodec(testSecret, "bookly.app")

	// Negative lifetime: already expired at issuance
	token, err := codec.IssueBearer(testUserClaims(), -time.Minute, false)
	require.NoError(t, err)

	_, err = codec.DecodeBearer(token)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
}

/*
TestTokenCodec_WrongSecret verifies the explicit signature outcome.
*/
func TestTokenCodec_WrongSecret(t *testing.T) {
	issuer := sec.NewTokenCodec(testSecret, "bookly.app")
	verifier := sec.NewTokenCodec("a-different-secret", "bookly.app")

	token, err := issuer.IssueBearer(testUserClaims(), time.Hour, false)
	require.NoError(t, err)

	_, err = verifier.DecodeBearer(token)
	assert.ErrorIs(t, err, sec.ErrTokenSignature)
}

/*
TestTokenCodec_Malformed verifies the explicit malformed outcome for inputs
that are not JWTs at all.
*/
func TestTokenCodec_Malformed(t *testing.T) {
	codec := sec.NewTokenCodec(testSecret, "bookly.app")

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9.only-two-parts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.DecodeBearer(tt.token)
			assert.ErrorIs(t, err, sec.ErrTokenMalformed)
		})
	}
}
