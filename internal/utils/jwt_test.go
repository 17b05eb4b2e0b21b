// Tests for JWT issue/parse round trips.
// Run with: go test ./...

package utils

import (
	"testing" // Go's testing package

	"github.com/stretchr/testify/assert" // For assertions
)

// TestGenerateAndParseJWT round-trips the identity claims
func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT(42, "alice", "admin", "secret")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ParseJWT(token, "secret")
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	// Tokens are issued without an expiry claim
	assert.Nil(t, claims.ExpiresAt)
	assert.NotNil(t, claims.IssuedAt)
}

// TestParseJWTWrongSecret rejects tokens signed with another key
func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(42, "alice", "user", "secret")
	assert.NoError(t, err)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

// TestParseJWTGarbage rejects malformed input
func TestParseJWTGarbage(t *testing.T) {
	_, err := ParseJWT("not-a-token", "secret")
	assert.Error(t, err)
}
