package service

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and checks bcrypt passwords
type PasswordHasher struct {
	cost int

	dummyOnce sync.Once
	dummy     []byte
}

// NewPasswordHasher creates a hasher. A cost of 0 uses bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt hash of password
func (h *PasswordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Matches reports whether password matches hash
func (h *PasswordHasher) Matches(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Burn compares password against a fixed hash so an unknown login id
// costs the same as a wrong password.
func (h *PasswordHasher) Burn(password string) {
	h.dummyOnce.Do(func() {
		h.dummy, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}
