package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/stocktake/internal/models"
)

func TestTokenIssuer(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "test_user@gmail.com"}
	issuer := NewTokenIssuer("secret", time.Hour)

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "test_user@gmail.com", claims.Email)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestTokenIssuerRejects(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "test_user@gmail.com"}
	issuer := NewTokenIssuer("secret", time.Hour)

	t.Run("expired", func(t *testing.T) {
		token, err := issuer.Issue(user)
		require.NoError(t, err)

		later := *issuer
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err = later.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		token, err := NewTokenIssuer("other", time.Hour).Issue(user)
		require.NoError(t, err)

		_, err = issuer.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unexpected algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{UserID: "user-1"}).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = issuer.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Validate("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
