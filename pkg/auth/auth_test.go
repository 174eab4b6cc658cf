package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, VerifyPassword("s3cret-pass", hash))
	assert.False(t, VerifyPassword("wrong-pass", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-signing-secret", time.Hour)

	token, err := tm.GenerateToken(Identity{
		UserID:   "usr-1a2b3c4d",
		Username: "johndoe",
		Email:    "john@example.com",
	})
	require.NoError(t, err)

	id, err := tm.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "usr-1a2b3c4d", id.UserID)
	assert.Equal(t, "johndoe", id.Username)
	assert.Equal(t, "john@example.com", id.Email)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).GenerateToken(Identity{
		UserID:   "usr-1",
		Username: "johndoe",
	})
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).VerifyToken(token)
	assert.Error(t, err)
}

func TestTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("test-signing-secret", -time.Minute)

	token, err := tm.GenerateToken(Identity{UserID: "usr-1", Username: "johndoe"})
	require.NoError(t, err)

	_, err = tm.VerifyToken(token)
	assert.Error(t, err)
}
