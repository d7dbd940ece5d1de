package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   "activation",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestTokenExpiry(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got, ok := TokenExpiry(signedToken(t, exp))
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, ok = TokenExpiry("opaque-session-token")
	assert.False(t, ok)
}

func TestTokenExpired(t *testing.T) {
	t.Parallel()

	now := time.Now()

	assert.True(t, TokenExpired(signedToken(t, now.Add(-time.Minute)), now, 0))
	assert.False(t, TokenExpired(signedToken(t, now.Add(time.Hour)), now, 0))
	assert.True(t, TokenExpired(signedToken(t, now.Add(10*time.Second)), now, 30*time.Second))
	assert.False(t, TokenExpired("opaque-session-token", now, 0))
}
