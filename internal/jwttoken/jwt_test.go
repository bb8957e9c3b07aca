package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "peopledesk/pkg/domain-errors"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-signing-key", time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken("u-emp-001", "EMPLOYEE")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-emp-001", claims.UserID)
	assert.Equal(t, "EMPLOYEE", claims.Role)
}

func TestValidateToken(t *testing.T) {
	svc := NewJWTService("test-signing-key", time.Hour)

	t.Run("expired token is rejected", func(t *testing.T) {
		expired := NewJWTService("test-signing-key", -time.Minute)
		token, _, err := expired.GenerateAccessToken("u-emp-001", "EMPLOYEE")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("token signed with a different key is rejected", func(t *testing.T) {
		other := NewJWTService("other-key", time.Hour)
		token, _, err := other.GenerateAccessToken("u-emp-001", "EMPLOYEE")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-jwt")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
