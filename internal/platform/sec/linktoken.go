// Copyright (c) 2026 Bookly. All rights reserved.
// Author: hai.dangngoc.vn@gmail.com

package sec

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Purpose Salts

// Each link token purpose is its own signing context. Tokens issued for one
// purpose never verify under another.
const (
	SaltEmailVerification = "email-verification"
	SaltPasswordReset     = "password-reset"
)

// # Link Decode Outcomes

// Link token failures are distinguishable so callers can surface different
// user-facing messages for "expired" and "tampered".
var (
	// ErrLinkExpired means the token verified but its age exceeds maxAge.
	ErrLinkExpired = errors.New("sec: link token expired")

	// ErrLinkInvalid means the signature mismatched or the payload is corrupt.
	ErrLinkInvalid = errors.New("sec: link token invalid")
)

// linkClaims is the wire shape of a URL-safe link token: an arbitrary string
// claim map plus the creation instant. No expiry is embedded — the verifier
// enforces age at verification time.
type linkClaims struct {
	jwt.RegisteredClaims

	Data map[string]string `json:"data"`
}

// # Link Token Codec

// LinkTokenCodec signs and verifies URL-safe single-purpose tokens.
//
// The signing key is derived as SHA-256(secret || purposeSalt), giving every
// purpose a signing context distinct from bearer tokens and from the other
// purposes, without requiring extra configured secrets.
type LinkTokenCodec struct {
	key    []byte
	issuer string
}

// NewLinkTokenCodec creates a link token codec for one purpose salt.
func NewLinkTokenCodec(secret, purposeSalt, issuer string) *LinkTokenCodec {
	derived := sha256.Sum256([]byte(secret + "/" + purposeSalt))
	return &LinkTokenCodec{key: derived[:], issuer: issuer}
}

// IssueLink signs the claim map together with an implicit creation timestamp.
func (codec *LinkTokenCodec) IssueLink(data map[string]string) (string, error) {
	claims := linkClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   codec.issuer,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		Data: data,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(codec.key)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign link token: %w", err)
	}

	return signedToken, nil
}

// VerifyLink recomputes the signature and enforces the age bound.
//
// # Failure Modes
//   - [ErrLinkInvalid]: signature mismatch or corrupt payload.
//   - [ErrLinkExpired]: age since creation reached maxAge. The bound is
//     strict, so maxAge of zero rejects a token immediately after issuance.
func (codec *LinkTokenCodec) VerifyLink(tokenString string, maxAge time.Duration) (map[string]string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &linkClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return codec.key, nil
	})

	if err != nil {
		return nil, ErrLinkInvalid
	}

	claims, ok := token.Claims.(*linkClaims)
	if !ok || !token.Valid || claims.IssuedAt == nil {
		return nil, ErrLinkInvalid
	}

	if time.Since(claims.IssuedAt.Time) >= maxAge {
		return nil, ErrLinkExpired
	}

	return claims.Data, nil
}
