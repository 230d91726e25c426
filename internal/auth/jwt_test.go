package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-access-secret-that-is-32-chars!!"

func TestJWTManager_SignAndValidate(t *testing.T) {
	m := NewJWTManager(testSecret)
	userID := uuid.NewString()

	token, err := m.SignAccessToken(userID, "user@example.com", 15*time.Minute)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "aura", claims.Issuer)
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	m := NewJWTManager(testSecret)

	token, err := m.SignAccessToken(uuid.NewString(), "user@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	m := NewJWTManager(testSecret)
	other := NewJWTManager("another-secret-that-is-also-32-chars!")

	token, err := other.SignAccessToken(uuid.NewString(), "user@example.com", 15*time.Minute)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsGarbage(t *testing.T) {
	m := NewJWTManager(testSecret)
	_, err := m.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}
