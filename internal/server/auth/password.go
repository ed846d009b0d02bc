package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes passwords with bcrypt. Each hash gets a fresh random
// salt; cost and salt are embedded in the returned record.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt record for plain. Passwords longer than 72 bytes
// are rejected by bcrypt.
func (h *BcryptHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// Verify reports whether plain matches record. Mismatches and malformed
// records both yield false.
func (h *BcryptHasher) Verify(plain, record string) bool {
	return bcrypt.CompareHashAndPassword([]byte(record), []byte(plain)) == nil
}
