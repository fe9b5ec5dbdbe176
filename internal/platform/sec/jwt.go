// Copyright (c) 2026 Bookly. All rights reserved.
// Author: hai.dangngoc.vn@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via narrow interfaces.
//
// Two independent token families live here:
//
//   - Bearer tokens ([TokenCodec]): short-lived access and refresh JWTs
//     presented on every protected request.
//   - Link tokens ([LinkTokenCodec]): longer-lived single-purpose tokens
//     embedded in email links (verification, password reset).
//
// The families share no signing state. The link codec derives its key from
// the process secret plus a purpose salt, so a link token can never be
// replayed as a bearer token or vice versa.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// # Decode Outcomes

// Bearer decode failures are exhaustive and explicit. Callers must treat any
// of them as "unauthenticated", never as "unauthorized".
var (
	// ErrTokenExpired means the signature was valid but the exp claim has passed.
	ErrTokenExpired = errors.New("sec: token expired")

	// ErrTokenSignature means the signature did not verify against the secret.
	ErrTokenSignature = errors.New("sec: token signature invalid")

	// ErrTokenMalformed means the string is not a parseable JWT or the claims
	// shape is wrong.
	ErrTokenMalformed = errors.New("sec: token malformed")
)

// # Claims

// UserClaims is the identity payload embedded inside a bearer token.
//
// By embedding the UID, Email, and Role directly inside the JWT, the token
// guard can authenticate requests without querying the database; only the
// role gate resolves the stored account.
type UserClaims struct {
	UID   string `json:"user_uid"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// BearerClaims is the full payload of an access or refresh token.
//
// It replaces dict-shaped claims with an explicit tagged structure validated
// at the decode boundary: the jti lives in RegisteredClaims.ID, the expiry in
// RegisteredClaims.ExpiresAt, and the Refresh flag marks the token variant.
type BearerClaims struct {
	jwt.RegisteredClaims

	User    UserClaims `json:"user"`
	Refresh bool       `json:"refresh"`
}

// JTI returns the unique token identifier used as the revocation key.
func (c *BearerClaims) JTI() string { return c.ID }

// # Bearer Token Codec

// TokenCodec signs and verifies bearer tokens using HS256.
//
// The symmetric secret and the algorithm are fixed at construction from
// process-wide configuration and never mutated afterwards.
type TokenCodec struct {
	secret []byte
	issuer string
}

// NewTokenCodec creates a bearer token codec from the shared signing secret.
func NewTokenCodec(secret, issuer string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), issuer: issuer}
}

// IssueBearer creates a signed bearer token for the given identity claims.
//
// # Parameters
//   - user: The identity claims to embed.
//   - lifetime: The duration before the token expires.
//   - refresh: Marks the token as a refresh token rather than an access token.
//
// # Returns
//   - A signed JWT string carrying {user, exp, jti, refresh}.
func (codec *TokenCodec) IssueBearer(user UserClaims, lifetime time.Duration, refresh bool) (string, error) {
	currentTime := time.Now()
	claims := BearerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			// Fresh random jti on every issuance: the revocation key.
			ID:        uuid.NewString(),
			Subject:   user.UID,
			Issuer:    codec.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(lifetime)),
		},
		User:    user,
		Refresh: refresh,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(codec.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign bearer token: %w", err)
	}

	return signedToken, nil
}

// DecodeBearer checks the signature and validity of a bearer token string.
//
// # Failure Modes
//
// Exactly one of the typed sentinels is returned on failure:
// [ErrTokenExpired], [ErrTokenSignature], or [ErrTokenMalformed]. The expiry
// is enforced here at decode time because exp is always embedded at issuance.
func (codec *TokenCodec) DecodeBearer(tokenString string) (*BearerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &BearerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return codec.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		default:
			return nil, ErrTokenMalformed
		}
	}

	claims, ok := token.Claims.(*BearerClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
