// internal/pkg/auth/password.go
package auth

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/your-org/foodgram-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong    = errors.New("password must be no more than 128 characters long")
	ErrPasswordNumeric    = errors.New("password cannot be entirely numeric")
	ErrPasswordCommon     = errors.New("password is too common")
	ErrPasswordSimilar    = errors.New("password is too similar to the username or email")
	ErrPasswordMismatched = errors.New("password does not match")
)

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"qwerty123": {}, "qwertyuiop": {}, "letmein1": {}, "iloveyou": {}, "welcome1": {},
	"football": {}, "baseball": {}, "sunshine": {}, "princess": {}, "11111111": {},
}

// PasswordManager handles password operations
type PasswordManager struct {
	cost int
}

// NewPasswordManager creates a new password manager
func NewPasswordManager(cfg *config.Config) *PasswordManager {
	cost := cfg.Security.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordManager{cost: cost}
}

// HashPassword validates and hashes a password using bcrypt.
// attributes are user fields (username, email) the password must not resemble.
func (p *PasswordManager) HashPassword(password string, attributes ...string) (string, error) {
	if err := p.ValidatePassword(password, attributes...); err != nil {
		return "", err
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// VerifyPassword verifies a password against its hash
func (p *PasswordManager) VerifyPassword(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrPasswordMismatched
	}
	return nil
}

// ValidatePassword validates password strength
func (p *PasswordManager) ValidatePassword(password string, attributes ...string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	if len(password) > 128 {
		return ErrPasswordTooLong
	}

	numeric := true
	for _, char := range password {
		if !unicode.IsDigit(char) {
			numeric = false
			break
		}
	}
	if numeric {
		return ErrPasswordNumeric
	}

	lowered := strings.ToLower(password)
	if _, ok := commonPasswords[lowered]; ok {
		return ErrPasswordCommon
	}

	for _, attr := range attributes {
		attr = strings.ToLower(attr)
		if i := strings.IndexByte(attr, '@'); i > 0 {
			attr = attr[:i]
		}
		if len(attr) >= 3 && (strings.Contains(lowered, attr) || strings.Contains(attr, lowered)) {
			return ErrPasswordSimilar
		}
	}

	return nil
}
