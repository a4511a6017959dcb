package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "super-secret-jwt-token-with-at-least-32-characters"

func TestJWTValidator(t *testing.T) {
	v, err := NewJWTValidator(secret, "")
	require.NoError(t, err)

	t.Run("valid token with bearer prefix", func(t *testing.T) {
		tok, err := GenerateToken(secret, "", "user-1", "a@b.c", time.Hour)
		require.NoError(t, err)
		claims, err := v.ValidateToken("Bearer " + tok)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "a@b.c", claims.Email)
	})

	t.Run("expired", func(t *testing.T) {
		tok, err := GenerateToken(secret, "", "user-1", "", -time.Minute)
		require.NoError(t, err)
		_, err = v.ValidateToken(tok)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		tok, err := GenerateToken("another-secret-of-reasonable-length-1234", "", "user-1", "", time.Hour)
		require.NoError(t, err)
		_, err = v.ValidateToken(tok)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := v.ValidateToken("Bearer ")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("no subject", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}).SignedString([]byte(secret))
		require.NoError(t, err)
		_, err = v.ValidateToken(tok)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"sub": "u"}).SignedString([]byte(secret))
		require.NoError(t, err)
		_, err = v.ValidateToken(tok)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
}

func TestIssuerCheck(t *testing.T) {
	v, err := NewJWTValidator(secret, "https://proj.supabase.co/auth/v1")
	require.NoError(t, err)
	tok, err := GenerateToken(secret, "someone-else", "u", "", time.Hour)
	require.NoError(t, err)
	_, err = v.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestNewJWTValidatorNeedsSecret(t *testing.T) {
	_, err := NewJWTValidator("", "")
	assert.Error(t, err)
}

func TestLookupVerifier(t *testing.T) {
	v := NewLookupVerifier(func(token string) (string, string, error) {
		if token != "good" {
			return "", "", errors.New("401")
		}
		return "u-9", "x@y.z", nil
	})

	u, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, &User{ID: "u-9", Email: "x@y.z"}, u)

	_, err = v.Verify(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = v.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestUserContext(t *testing.T) {
	_, ok := UserFrom(context.Background())
	assert.False(t, ok)

	ctx := WithUser(context.Background(), &User{ID: "u"})
	u, ok := UserFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "u", u.ID)
}
