package services

import (
	"strings"

	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.BadRequest("Password must be at least 6 characters long")
	}
	return nil
}

// HashPassword bcrypt-hashes a plain password with the default cost.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Internal("Failed to hash password", err)
	}
	return string(hashed), nil
}

// IsHashed reports whether s already looks like a bcrypt hash.
func IsHashed(s string) bool {
	if len(s) != 60 {
		return false
	}
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

func checkPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
