// Package auth provides credential hashing and signed session tokens for
// the identity layer. Ledger operations never touch it; they receive an
// already-verified user.Identity.
package auth

import (
	"github.com/go-faster/errors"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen is the minimum accepted password length at registration.
const MinPasswordLen = 8

// ErrPasswordTooShort is returned when a registration password is below
// MinPasswordLen.
var ErrPasswordTooShort = errors.Errorf("password must be at least %d characters", MinPasswordLen)

// HashPassword derives a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLen {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
