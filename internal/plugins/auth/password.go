package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/garotinhosDePrograma/mylinks-api/internal/apperror"
)

// passwordSpecials is the accepted special character set for the strength
// policy. Part of the contract with existing clients -- keep in sync with
// the web client's validation.
const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

// hashPassword creates a salted bcrypt hash of the given password. bcrypt
// embeds a fresh random salt in every digest, so hashing the same password
// twice yields different digests.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// verifyPassword checks a plaintext password against a stored bcrypt digest.
// Malformed digests verify as false rather than erroring -- a corrupt
// credential row must read as "wrong password", never as a 500.
func verifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// validatePasswordStrength enforces the password policy: at least 10
// characters with one uppercase, one lowercase, one digit, and one special
// character. Checked on registration and password change, never on login --
// accounts predating a policy tightening must still be able to sign in.
func validatePasswordStrength(password string) error {
	if password == "" {
		return apperror.NewBadRequest("password is required")
	}
	if len(password) < 10 {
		return apperror.NewBadRequest("password must be at least 10 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return apperror.NewBadRequest("password must contain at least 1 uppercase letter")
	case !hasLower:
		return apperror.NewBadRequest("password must contain at least 1 lowercase letter")
	case !hasDigit:
		return apperror.NewBadRequest("password must contain at least 1 number")
	case !hasSpecial:
		return apperror.NewBadRequest("password must contain at least 1 special character")
	}
	return nil
}

// generateRandomSecret returns a cryptographically random url-safe string.
// Used as the unusable password for federated accounts and as the OAuth
// state parameter. 32 bytes = 256 bits of entropy.
func generateRandomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating random secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
