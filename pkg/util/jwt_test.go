package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateResetToken(t *testing.T) {
	secret := "test-secret"

	token, jti, err := GenerateResetToken("alice@example.com", secret, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, jti)

	claims, err := ValidateResetToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, jti, claims.ID)
}

func TestValidateResetTokenErrors(t *testing.T) {
	secret := "test-secret"

	t.Run("Expired token", func(t *testing.T) {
		token, _, err := GenerateResetToken("alice@example.com", secret, -time.Minute)
		require.NoError(t, err)

		_, err = ValidateResetToken(token, secret)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		token, _, err := GenerateResetToken("alice@example.com", secret, time.Hour)
		require.NoError(t, err)

		_, err = ValidateResetToken(token, "other-secret")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage token", func(t *testing.T) {
		_, err := ValidateResetToken("not.a.token", secret)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
