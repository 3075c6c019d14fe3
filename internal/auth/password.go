package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"go-notes-api/internal/model"
)

// PasswordHasher hashes and verifies passwords with bcrypt at a fixed cost. The cost
// is embedded in every hash, so raising it later keeps existing hashes verifiable.
type PasswordHasher struct {
	cost  int
	dummy []byte
}

// NewPasswordHasher validates cost (0 selects bcrypt.DefaultCost) and prepares a
// throwaway hash used to equalize timing when a username does not exist.
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: hash cost %d outside [%d, %d]", ErrConfiguration, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	seed := make([]byte, 18)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("generate dummy password: %w", err)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte(base64.RawStdEncoding.EncodeToString(seed)), cost)
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}

	return &PasswordHasher{cost: cost, dummy: dummy}, nil
}

func (h *PasswordHasher) Cost() int {
	return h.cost
}

// Hash returns a salted bcrypt hash. Each call yields a different string.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. A malformed hash yields false.
// bcrypt only reads the first 72 bytes, so longer input never matches.
func (h *PasswordHasher) Verify(plaintext string, hash string) bool {
	if len(plaintext) > model.MaxPasswordBytes {
		h.Burn(plaintext[:model.MaxPasswordBytes])
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// Burn spends the same work as Verify against a hash that never matches.
func (h *PasswordHasher) Burn(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plaintext))
}

// NeedsRehash reports whether hash was produced with a lower cost than the current
// one, or cannot be parsed at all.
func (h *PasswordHasher) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return true
	}
	return cost < h.cost
}
