package jwt

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const minSecretLen = 32

// Config defines the signing material and lifetimes for both token kinds.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable; Manager reads them without synchronization.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Leeway        time.Duration
}

// AccessClaims is the payload of an access token. The token is stateless:
// validity is proven solely by signature and expiry.
type AccessClaims struct {
	UserID   string `json:"userId"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
	TokenID  string `json:"tid"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a refresh token. TokenID keys the live
// store record that the token is additionally validated against.
type RefreshClaims struct {
	TokenID string `json:"tid"`
	UserID  string `json:"userId"`
	jwt.RegisteredClaims
}

// Manager signs and parses both token kinds with HS256-pinned parsers.
type Manager struct {
	config Config
}

// NewManager validates cfg and returns a ready Manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if len(cfg.AccessSecret) < minSecretLen {
		return nil, fmt.Errorf("access secret must be at least %d bytes", minSecretLen)
	}
	if len(cfg.RefreshSecret) < minSecretLen {
		return nil, fmt.Errorf("refresh secret must be at least %d bytes", minSecretLen)
	}
	if bytes.Equal(cfg.AccessSecret, cfg.RefreshSecret) {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	return &Manager{config: cfg}, nil
}

// AccessTTL returns the configured access-token lifetime.
func (m *Manager) AccessTTL() time.Duration { return m.config.AccessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (m *Manager) RefreshTTL() time.Duration { return m.config.RefreshTTL }

// CreateAccess signs an access token issued at now. tokenID is embedded
// for traceability only; the server never looks it up.
func (m *Manager) CreateAccess(userID, email, fullName, tokenID string, now time.Time) (string, error) {
	claims := AccessClaims{
		UserID:   userID,
		Email:    email,
		FullName: fullName,
		TokenID:  tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.AccessTTL)),
			Issuer:    m.config.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.config.AccessSecret)
}

// CreateRefresh signs a refresh token issued at now. The caller writes
// the matching store record with a TTL derived from the same instant.
func (m *Manager) CreateRefresh(tokenID, userID string, now time.Time) (string, error) {
	claims := RefreshClaims{
		TokenID: tokenID,
		UserID:  userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.RefreshTTL)),
			Issuer:    m.config.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.config.RefreshSecret)
}

// ParseAccess verifies signature, algorithm, and expiry of an access
// token and returns its claims.
func (m *Manager) ParseAccess(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := m.parse(tokenStr, claims, m.config.AccessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseRefresh verifies signature, algorithm, and expiry of a refresh
// token and returns its claims. A valid result still requires a live
// store record before the token may be consumed.
func (m *Manager) ParseRefresh(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := m.parse(tokenStr, claims, m.config.RefreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (m *Manager) parse(tokenStr string, claims jwt.Claims, secret []byte) error {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return secret, nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return jwt.ErrTokenInvalidClaims
	}
	return nil
}
