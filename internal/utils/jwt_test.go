package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("u-1", "sari@example.com", ScopeUser, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "sari@example.com", claims.Email)
	assert.Equal(t, ScopeUser, claims.Scope)
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("u-1", "sari@example.com", ScopeUser, "secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	token, err := GenerateJWT("u-1", "sari@example.com", ScopeUser, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "secret")
	assert.Error(t, err)
}

func TestJWTScopeSurvives(t *testing.T) {
	token, err := GenerateJWT("3", "admin@kanalkids.id", ScopeAdmin, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, ScopeAdmin, claims.Scope)
}
