package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.NotContains(t, hash, "correct horse", "hash must not embed the plaintext")

	assert.True(t, CheckPassword(hash, "correct horse battery"))
	assert.False(t, CheckPassword(hash, "wrong password!"))
	assert.False(t, CheckPassword(hash, ""))
}

func TestHashPassword_MinLength(t *testing.T) {
	_, err := HashPassword("short")
	require.ErrorIs(t, err, ErrPasswordTooShort)

	// Exactly the minimum is accepted.
	_, err = HashPassword(strings.Repeat("x", MinPasswordLen))
	require.NoError(t, err)
}

func TestHashPassword_Salted(t *testing.T) {
	h1, err := HashPassword("same password")
	require.NoError(t, err)
	h2, err := HashPassword("same password")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2, "bcrypt salts every hash")
}
