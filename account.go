package tokenvault

import (
	"context"
	"fmt"
)

const minPasswordLen = 8

// SignUp creates a directory account and returns its ID. No tokens are
// issued; the caller signs in afterwards. Requires a directory and a
// hasher.
func (m *Manager) SignUp(ctx context.Context, fullName, email, password string) (string, error) {
	if m.closed.Load() {
		return "", ErrManagerClosed
	}
	if m.directory == nil || m.hasher == nil {
		return "", fmt.Errorf("%w: account flows need a directory and a hasher", ErrInternal)
	}
	if fullName == "" || email == "" || password == "" {
		return "", ErrMissingFields
	}
	if len(password) < minPasswordLen {
		return "", ErrPasswordPolicy
	}

	taken, err := m.directory.Exists(ctx, email)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if taken {
		return "", ErrUserExists
	}

	digest, err := m.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInternal, err)
	}

	id, err := m.directory.Create(ctx, User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: digest,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInternal, err)
	}

	m.auditEmit(ctx, "signup", id, "", true, nil)
	return id, nil
}

// SignIn verifies credentials against the directory and issues a token
// pair for the matched account.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*TokenPair, error) {
	if m.closed.Load() {
		return nil, ErrManagerClosed
	}
	if m.directory == nil || m.hasher == nil {
		return nil, fmt.Errorf("%w: account flows need a directory and a hasher", ErrInternal)
	}
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := m.directory.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if user == nil {
		m.auditEmit(ctx, "signin", "", "", false, ErrUserNotFound)
		return nil, ErrUserNotFound
	}
	if !m.hasher.Verify(password, user.PasswordHash) {
		m.auditEmit(ctx, "signin", user.ID, "", false, ErrInvalidCredentials)
		return nil, ErrInvalidCredentials
	}

	// Issue classifies, counts and audits its own failures.
	pair, err := m.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	m.auditEmit(ctx, "signin", user.ID, "", true, nil)
	return pair, nil
}
