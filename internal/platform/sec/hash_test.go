// Copyright (c) 2026 Bookly. All rights reserved.
// Author: hai.dangngoc.vn@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danghai/bookly/internal/platform/sec"
)

/*
TestHashPassword_RoundTrip verifies that a hashed password verifies against
the original and rejects everything else.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	// The digest must never equal the plain text
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, sec.CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, sec.CheckPasswordHash("wrong password", hash))
	assert.False(t, sec.CheckPasswordHash("", hash))
}

/*
TestHashPassword_DistinctSalts verifies that hashing the same password twice
produces different digests (per-hash salt).
*/
func TestHashPassword_DistinctSalts(t *testing.T) {
	first, err := sec.HashPassword("samepassword")
	require.NoError(t, err)

	second, err := sec.HashPassword("samepassword")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	// Both still verify
	assert.True(t, sec.CheckPasswordHash("samepassword", first))
	assert.True(t, sec.CheckPasswordHash("samepassword", second))
}

/*
TestCheckPasswordHash_MalformedDigest verifies that a corrupt stored digest
yields false rather than panicking or erroring.
*/
func TestCheckPasswordHash_MalformedDigest(t *testing.T) {
	assert.False(t, sec.CheckPasswordHash("anything", "not-a-bcrypt-digest"))
	assert.False(t, sec.CheckPasswordHash("anything", ""))
}
