package flows

import (
	"context"
	"time"

	"github.com/hexlayer/tokenvault/jwt"
	"github.com/hexlayer/tokenvault/tokenstore"
)

// Subject is the slice of a user record the token flows need. Flows never
// see password hashes or any other directory fields.
type Subject struct {
	ID       string
	Email    string
	FullName string
}

// Deps carries everything a flow needs. The Manager fills this once at
// build time; tests fill it with fakes.
type Deps struct {
	JWT   *jwt.Manager
	Store *tokenstore.Store

	// ResolveUser looks up a subject by ID. ok=false means the user does
	// not exist; err is reserved for transport failures.
	ResolveUser func(ctx context.Context, userID string) (*Subject, bool, error)

	// NewTokenID mints the random identifier shared by an access/refresh
	// pair's `tid` claims and the store key.
	NewTokenID func() string

	// Now is the single clock for a flow invocation.
	Now func() time.Time
}

// FailureKind classifies why a flow did not complete. The zero value
// FailureNone means success.
type FailureKind int

const (
	FailureNone FailureKind = iota

	// FailureTokenInvalid covers malformed, mis-signed or expired tokens.
	FailureTokenInvalid

	// FailureRecordNotFound means the refresh record was absent from the
	// store: already consumed, revoked, or expired.
	FailureRecordNotFound

	// FailureUserInvalid means the token verified but its subject no
	// longer resolves to a user.
	FailureUserInvalid

	// FailureInternal covers store and directory transport errors.
	FailureInternal
)

// Result is the outcome of a flow. On success Kind is FailureNone and the
// operation-specific fields are set; on failure Err carries the underlying
// cause for logging.
type Result struct {
	Kind FailureKind
	Err  error

	Pair          *IssuedPair
	Introspection *IntrospectedToken
}

// IssuedPair is a freshly minted access/refresh pair. TokenID is the
// refresh token's ID, which is also the store key suffix; AccessID is
// the access token's own label.
type IssuedPair struct {
	AccessToken  string
	RefreshToken string
	AccessID     string
	TokenID      string
	ExpiresIn    int64
}

// IntrospectedToken is the decoded view of a verified access token.
type IntrospectedToken struct {
	UserID    string
	Email     string
	FullName  string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func failure(kind FailureKind, err error) Result {
	return Result{Kind: kind, Err: err}
}
