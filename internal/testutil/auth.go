package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/your-org/foodgram-backend/internal/pkg/auth"
)

// AccessToken mints an access token the way the identity provider does
func AccessToken(t *testing.T, userID uint, email string) string {
	t.Helper()

	claims := auth.Claims{
		UserID:    userID,
		Email:     email,
		TokenType: auth.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(JWTSecret))
	require.NoError(t, err)
	return token
}
