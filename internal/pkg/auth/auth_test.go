package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/foodgram-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testConfig() *config.Config {
	return &config.Config{
		JWT:      config.JWTConfig{Secret: testSecret},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
	}
}

func sign(t *testing.T, claims *Claims, method jwt.SigningMethod, key interface{}) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func accessClaims(userID uint, ttl time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		UserID:    userID,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

func TestValidateAccessToken(t *testing.T) {
	manager := NewJWTManager(testConfig())

	t.Run("valid", func(t *testing.T) {
		token := sign(t, accessClaims(42, time.Hour), jwt.SigningMethodHS256, []byte(testSecret))

		claims, err := manager.ValidateAccessToken(token)

		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
	})

	t.Run("expired", func(t *testing.T) {
		token := sign(t, accessClaims(42, -time.Minute), jwt.SigningMethodHS256, []byte(testSecret))

		_, err := manager.ValidateAccessToken(token)

		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := sign(t, accessClaims(42, time.Hour), jwt.SigningMethodHS256, []byte("another-secret-another-secret-123"))

		_, err := manager.ValidateAccessToken(token)

		assert.Error(t, err)
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		claims := accessClaims(42, time.Hour)
		claims.TokenType = "refresh"
		token := sign(t, claims, jwt.SigningMethodHS256, []byte(testSecret))

		_, err := manager.ValidateAccessToken(token)

		assert.ErrorContains(t, err, "invalid token type")
	})

	t.Run("other algorithm rejected", func(t *testing.T) {
		token := sign(t, accessClaims(42, time.Hour), jwt.SigningMethodHS512, []byte(testSecret))

		_, err := manager.ValidateAccessToken(token)

		assert.Error(t, err)
	})

	t.Run("missing user", func(t *testing.T) {
		token := sign(t, accessClaims(0, time.Hour), jwt.SigningMethodHS256, []byte(testSecret))

		_, err := manager.ValidateAccessToken(token)

		assert.ErrorContains(t, err, "no user")
	})
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "abc", ExtractTokenFromHeader("bearer abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Token abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Bearer "))
}

func TestPasswordManager(t *testing.T) {
	manager := NewPasswordManager(testConfig())

	hash, err := manager.HashPassword("Gr8-souffle", "chef", "chef@example.com")
	require.NoError(t, err)
	assert.NoError(t, manager.VerifyPassword("Gr8-souffle", hash))
	assert.ErrorIs(t, manager.VerifyPassword("wrong-password", hash), ErrPasswordMismatched)

	cases := map[string]struct {
		password string
		attrs    []string
		want     error
	}{
		"short":   {"abc12", nil, ErrPasswordTooShort},
		"numeric": {"1234567890", nil, ErrPasswordNumeric},
		"common":  {"Password123", nil, ErrPasswordCommon},
		"similar": {"gordon-ramsay-1", []string{"ramsay"}, ErrPasswordSimilar},
		"email":   {"x-julia99-x", []string{"julia99@example.com"}, ErrPasswordSimilar},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, manager.ValidatePassword(tc.password, tc.attrs...), tc.want)
		})
	}
}
