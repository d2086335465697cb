package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor. Expensive enough to resist offline
// brute force while keeping interactive login latency acceptable.
const HashCost = 10

// PasswordHasher performs one-way hashing and verification of passwords.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher with the default cost.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: HashCost}
}

// Hash returns the bcrypt hash of the password. Each call salts
// independently, so hashing the same password twice yields different
// outputs.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether password matches the stored hash.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
