package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute, time.Hour)

	token, err := issuer.GenerateAccessToken(7, "manager", "m@example.com")
	require.NoError(t, err)

	claims, err := issuer.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "m@example.com", claims.Email)
}

func TestTokenIssuer_RejectsForeignSignature(t *testing.T) {
	token, err := NewTokenIssuer("other", time.Minute, time.Hour).GenerateAccessToken(1, "admin", "a@example.com")
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Minute, time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute, time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := issuer.GenerateAccessToken(1, "admin", "a@example.com")
	require.NoError(t, err)

	_, err = issuer.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestHashRefreshToken(t *testing.T) {
	a := HashRefreshToken("token")
	assert.Len(t, a, 64)
	assert.Equal(t, a, HashRefreshToken("token"))
	assert.NotEqual(t, a, HashRefreshToken("other"))
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("password")
	require.NoError(t, err)
	assert.True(t, ComparePassword(hash, "password"))
	assert.False(t, ComparePassword(hash, "wrong"))
}
