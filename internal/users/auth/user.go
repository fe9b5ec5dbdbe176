// Copyright (c) 2026 Bookly. All rights reserved.
// Author: hai.dangngoc.vn@gmail.com

/*
Package auth implements the user identity and access management layer.

It defines the core domain entity (User) and the logic for authentication,
token lifecycle, and account recovery.

# Architecture

This layer is the "Truth" of the system. The entity defined here has no
external dependencies and encapsulates all business rules related to user
identity.
*/
package auth

import (
	"time"

	"github.com/danghai/bookly/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Bookly platform.
type User struct {
	UID          string       `json:"uid"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	Role         sec.UserRole `json:"role"`
	IsVerified   bool         `json:"is_verified"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername           = "username"
	FieldEmail              = "email"
	FieldFirstName          = "first_name"
	FieldLastName           = "last_name"
	FieldPassword           = "password"
	FieldNewPassword        = "new_password"
	FieldConfirmNewPassword = "confirm_new_password"
	FieldToken              = "token"
	FieldAccessToken        = "access_token"
	FieldRefreshToken       = "refresh_token"
	FieldTokenType          = "token_type"
	FieldExpiresIn          = "expires_in"
	FieldUser               = "user"
	FieldMessage            = "message"
)
