package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

// Bcrypt hashes and verifies passwords with bcrypt.
//
// Bcrypt instances are intended to be configured during initialization
// and then treated as immutable.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a hasher with the given work factor. cost <= 0
// selects DefaultCost.
func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost <= 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d outside [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Bcrypt{cost: cost}, nil
}

// Hash returns the bcrypt digest of plaintext. bcrypt truncates input at
// 72 bytes, so longer passwords are rejected rather than silently
// weakened.
func (b *Bcrypt) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", errors.New("password longer than 72 bytes")
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. Any parse or
// mismatch failure reads as false; the caller cannot distinguish a
// corrupt digest from a wrong password.
func (b *Bcrypt) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
