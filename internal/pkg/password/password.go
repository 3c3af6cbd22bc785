package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// cost pins the bcrypt work factor instead of tracking the library default.
const cost = 10

// Hash produces a salted bcrypt hash of the plaintext. The error never
// contains the plaintext.
func Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Verify reports whether plaintext matches the stored hash. A mismatch is
// (false, nil); an error is returned only for a malformed hash.
func Verify(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("verify password: %w", err)
}
