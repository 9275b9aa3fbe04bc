// Package password stores and verifies user passwords as bcrypt hashes.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hash returns the salted bcrypt hash of plaintext.
func Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Verify reports whether plaintext matches hash. Malformed hashes never match.
func Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
