package tokenvault

import (
	"context"
	"time"
)

// User is the directory record for an authenticated subject. The core
// only reads identity and display fields; PasswordHash is consumed by
// the sign-in flow, never by the token lifecycle itself.
type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
}

// UserDirectory is the collaborator interface for user/profile lookup.
// Implementations live outside the core (see directory/postgres); an
// absent user is reported as (nil, nil), not as an error.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Exists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user User) (string, error)
	Update(ctx context.Context, id string, fields map[string]any) (int64, error)
}

// CredentialHasher is the collaborator interface for password hashing.
// The token lifecycle core never sees plaintext passwords; only the
// account flows use this.
type CredentialHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// Claims are the denormalized display claims embedded in access tokens.
// They are never stored server-side; rotation re-fetches them from the
// directory so stale display data cannot outlive an access TTL.
type Claims struct {
	Email    string
	FullName string
}

// TokenPair is the result of Issue and Rotate.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"` // access-token lifetime, whole seconds
	Type         string `json:"type"`      // fixed credential-type label, "Bearer"
}

// TokenType is the credential-type label returned with every pair.
const TokenType = "Bearer"

// Introspection is the decoded view of a valid access token.
type Introspection struct {
	Subject   string    `json:"sub"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email,omitempty"`
	FullName  string    `json:"fullName,omitempty"`
	TokenID   string    `json:"tid"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
