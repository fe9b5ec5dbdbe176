// Copyright (c) 2026 Bookly. All rights reserved.
// Author: hai.dangngoc.vn@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByUID returns the account with the given primary key.

		Parameters:
		  - context: context.Context
		  - uid: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUID(context context.Context, uid string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userUID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userUID, newHash string) error

	/*
		MarkVerified updates the user's status to is_verified = true.

		Parameters:
		  - context: context.Context
		  - userUID: string

		Returns:
		  - error: Persistence failures
	*/
	MarkVerified(context context.Context, userUID string) error
}

// # Revocation Data Access

// RevocationStore defines the contract for the bearer token revocation list.
//
// Revocation is keyed on the jti claim embedded at issuance: revoking one
// token never affects other tokens held by the same user.
type RevocationStore interface {

	/*
		Revoke adds the jti to the revocation list for the given duration.

		Description: Idempotent — revoking an already-revoked jti succeeds.
		The ttl should cover the longest bearer lifetime so the record
		outlives every token that could carry this jti.

		Parameters:
		  - context: context.Context
		  - jti: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Revoke(context context.Context, jti string, ttl time.Duration) error

	/*
		IsRevoked reports whether the jti is on the revocation list.

		Description: Connectivity errors are returned, never swallowed —
		the caller decides the failure policy (the token guard fails closed).

		Parameters:
		  - context: context.Context
		  - jti: string

		Returns:
		  - bool: true if revoked
		  - error: Retrieval failures
	*/
	IsRevoked(context context.Context, jti string) (bool, error)
}
