// Copyright (c) 2026 Bookly. All rights reserved.
// Author: hai.dangngoc.vn@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/danghai/bookly/internal/platform/constants"
)

// # Revocation Store

// RedisRevocationStore implements RevocationStore using Redis.
//
// Each revoked jti becomes a key with a TTL; Redis expires the record on its
// own, so the list never needs manual cleanup and can never deny a token
// longer than the token could have lived.
type RedisRevocationStore struct {
	client *redis.Client
}

// NewRevocationStore creates a new Redis-backed RevocationStore.
func NewRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

/*
Revoke adds the jti to the revocation list.

Description: Idempotent SET with TTL; revoking the same jti twice simply
refreshes the record.

Parameters:
  - context: context.Context
  - jti: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (store *RedisRevocationStore) Revoke(context context.Context, jti string, ttl time.Duration) error {

	// Namespace the jti under the revocation prefix
	key := constants.RedisPrefixRevokedJTI + jti

	// The value is irrelevant; only key existence matters
	if err := store.client.Set(context, key, "", ttl).Err(); err != nil {
		return fmt.Errorf("redis_revocation_set_failed: %w", err)
	}

	// Return nil on success
	return nil
}

/*
IsRevoked reports whether the jti is on the revocation list.

Description: Existence check only. Connectivity errors propagate to the
caller so the token guard can fail closed.

Parameters:
  - context: context.Context
  - jti: string

Returns:
  - bool: true if the jti has been revoked
  - error: Connectivity errors
*/
func (store *RedisRevocationStore) IsRevoked(context context.Context, jti string) (bool, error) {

	// Namespace the jti under the revocation prefix
	key := constants.RedisPrefixRevokedJTI + jti

	// Check key existence
	count, err := store.client.Exists(context, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis_revocation_exists_failed: %w", err)
	}

	// Key present means revoked
	return count > 0, nil
}
