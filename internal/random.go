package internal

import "github.com/google/uuid"

// NewTokenID returns a random identifier suitable for the `tid` claim and
// the store key suffix. UUIDv4 carries 122 bits of entropy, which is enough
// to make collisions and guessing equally implausible.
func NewTokenID() string {
	return uuid.NewString()
}
