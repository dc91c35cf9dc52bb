package tokenvault

import (
	"context"
	"errors"
)

// Envelope API. These wrappers render the typed-error API into the
// uniform Response envelope a routing layer serializes as-is. They never
// return an error and never panic; every failure becomes a coded
// envelope with a stable message.

// IssueTokens mints a pair for userID and wraps it in an envelope.
func (m *Manager) IssueTokens(ctx context.Context, userID string) *Response {
	pair, err := m.Issue(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserInvalid):
			return fail(CodeNotAuthorized, "Invalid user")
		default:
			return fail(CodeInternalServerError, "Error in generating tokens")
		}
	}
	return ok(CodeSuccess, "Tokens generated successfully", pair)
}

// RefreshTokens rotates a refresh token and wraps the new pair in an
// envelope.
func (m *Manager) RefreshTokens(ctx context.Context, refreshToken string) *Response {
	pair, err := m.Rotate(ctx, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenInvalid):
			return fail(CodeBadRequest, "Invalid refresh token")
		case errors.Is(err, ErrRefreshInvalid):
			return fail(CodeNotAuthorized, "Invalid refresh token")
		case errors.Is(err, ErrUserInvalid):
			return fail(CodeNotAuthorized, "Invalid user")
		default:
			return fail(CodeInternalServerError, "Error in refreshing token")
		}
	}
	return ok(CodeSuccess, "Tokens generated successfully", pair)
}

// InvalidateToken revokes a refresh token and reports the outcome in an
// envelope. An already-dead token yields a 401 envelope, not a success.
func (m *Manager) InvalidateToken(ctx context.Context, refreshToken string) *Response {
	if err := m.Revoke(ctx, refreshToken); err != nil {
		switch {
		case errors.Is(err, ErrTokenInvalid):
			return fail(CodeBadRequest, "Invalid refresh token")
		case errors.Is(err, ErrRefreshInvalid):
			return fail(CodeNotAuthorized, "Invalid refresh token")
		default:
			return fail(CodeInternalServerError, "Error in invalidating token")
		}
	}
	return ok(CodeSuccess, "Token invalidated", true)
}

// DecodeToken verifies an access token and wraps its claims in an
// envelope. Verification is signature and expiry only.
func (m *Manager) DecodeToken(ctx context.Context, accessToken string) *Response {
	intro, err := m.Introspect(ctx, accessToken)
	if err != nil {
		return fail(CodeBadRequest, "Error in verifying token")
	}
	return ok(CodeSuccess, "Token Decoded", intro)
}

// SignUpAccount creates an account and wraps the outcome in an envelope.
func (m *Manager) SignUpAccount(ctx context.Context, fullName, email, password string) *Response {
	id, err := m.SignUp(ctx, fullName, email, password)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			return fail(CodeBadRequest, "Missing fields")
		case errors.Is(err, ErrPasswordPolicy):
			return fail(CodeBadRequest, "Password requirements are not met.")
		case errors.Is(err, ErrUserExists):
			return fail(CodeBadRequest, "User already exist")
		default:
			return fail(CodeInternalServerError, "Error in creating account")
		}
	}
	return ok(CodeCreated, "Successfully created your account", map[string]string{"id": id})
}

// SignInAccount verifies credentials, issues a pair, and wraps it in an
// envelope.
func (m *Manager) SignInAccount(ctx context.Context, email, password string) *Response {
	pair, err := m.SignIn(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			return fail(CodeBadRequest, "Missing fields")
		case errors.Is(err, ErrUserNotFound):
			return fail(CodeNotFound, "User doesn't exist please sign up")
		case errors.Is(err, ErrInvalidCredentials):
			return fail(CodeBadRequest, "Passwords don't match.")
		default:
			return fail(CodeInternalServerError, "Error in signing in")
		}
	}
	return ok(CodeSuccess, "Tokens generated successfully", pair)
}
