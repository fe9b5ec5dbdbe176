// Copyright (c) 2026 Bookly. All rights reserved.
// Author: hai.dangngoc.vn@gmail.com

// PostgreSQL implementation of the auth storage contracts.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/danghai/bookly/internal/platform/apperr"
	"github.com/danghai/bookly/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users table.

Description: Deep-persists account metadata, ensuring timestamps are initialized
if not provided. Unique violations on email or username surface as Conflict.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Conflict on duplicates, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users (
			uid, username, email, first_name, last_name, password_hash, role, is_verified, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.UID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.Role,
		user.IsVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "User")
	}

	return nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT uid, username, email, first_name, last_name, password_hash, role, is_verified, created_at, updated_at
		FROM users
		WHERE email = $1`

	return repository.scanOne(context, query, email)
}

/*
FindByUsername retrieves a user record by their unique username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	const query = `
		SELECT uid, username, email, first_name, last_name, password_hash, role, is_verified, created_at, updated_at
		FROM users
		WHERE username = $1`

	return repository.scanOne(context, query, username)
}

/*
FindByUID retrieves a user record by their primary key.

Parameters:
  - context: context.Context
  - uid: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: Not found or execution errors
*/
func (repository *PostgresUserRepository) FindByUID(context context.Context, uid string) (*User, error) {
	const query = `
		SELECT uid, username, email, first_name, last_name, password_hash, role, is_verified, created_at, updated_at
		FROM users
		WHERE uid = $1`

	return repository.scanOne(context, query, uid)
}

/*
UpdatePassword updates only the password hash for a specific user.

Parameters:
  - context: context.Context
  - userUID: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userUID, newHash string) error {
	const query = `
		UPDATE users
		SET password_hash = $2, updated_at = $3
		WHERE uid = $1`

	_, err := repository.pool.Exec(context, query, userUID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}

	return nil
}

/*
MarkVerified updates the user's status to is_verified = true.

Description: Post-verification step to activate the account.

Parameters:
  - context: context.Context
  - userUID: string

Returns:
  - error: Database errors
*/
func (repository *PostgresUserRepository) MarkVerified(context context.Context, userUID string) error {
	const query = "UPDATE users SET is_verified = TRUE, updated_at = $2 WHERE uid = $1"
	_, err := repository.pool.Exec(context, query, userUID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_mark_verified_failed: %w", err)
	}
	return nil
}

// scanOne runs a single-row query and hydrates a User entity.
func (repository *PostgresUserRepository) scanOne(context context.Context, query string, argument any) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(context, query, argument).Scan(
		&user.UID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.Role,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_failed: %w", err)
	}

	return user, nil
}
