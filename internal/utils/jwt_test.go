package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddanilovv/poketrade-api/internal/models"
)

func TestJWTRoundTrip(t *testing.T) {
	service := NewJWTService("test-secret")
	userID := uuid.New()

	token, err := service.GenerateToken(userID, models.RoleAdmin, true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.True(t, claims.IsBlacklisted)
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateToken(uuid.New(), models.RoleUser, false)
	require.NoError(t, err)

	_, err = NewJWTService("secret-b").ParseClaims(token)
	assert.Error(t, err)
}

func TestJWTGarbageToken(t *testing.T) {
	_, err := NewJWTService("secret").ParseClaims("definitely.not.a-token")
	assert.Error(t, err)
}
