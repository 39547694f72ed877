package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	manager := NewManager("test-secret", 15)

	token, err := manager.GenerateAccessToken("user-123", "test@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, "access", claims.Type)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", 15).GenerateAccessToken("user-123", "test@example.com")
	require.NoError(t, err)

	_, err = NewManager("secret-b", 15).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	manager := NewManager("test-secret", -1)

	token, err := manager.GenerateAccessToken("user-123", "test@example.com")
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateGarbageToken(t *testing.T) {
	_, err := NewManager("test-secret", 15).ValidateToken("not.a.token")
	assert.Error(t, err)
}
