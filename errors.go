package tokenvault

import "errors"

var (
	// ErrTokenInvalid is returned when a token is malformed, carries the
	// wrong algorithm, or fails signature verification.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrRefreshInvalid is returned when a well-formed refresh token has
	// no live store record: consumed, revoked, or expired.
	ErrRefreshInvalid = errors.New("invalid refresh token")
	// ErrUserInvalid is returned when the subject of a refresh token no
	// longer resolves in the user directory.
	ErrUserInvalid = errors.New("invalid user")
	// ErrInternal wraps unexpected failures during store I/O or signing,
	// so callers can distinguish "bad token" from "transient failure".
	ErrInternal = errors.New("internal error")

	// ErrUserNotFound is returned by sign-in when no account matches the
	// presented credentials identifier.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned by sign-in on password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists is returned by sign-up when the email is taken.
	ErrUserExists = errors.New("account already exists")
	// ErrMissingFields is returned by sign-up/sign-in on empty inputs.
	ErrMissingFields = errors.New("missing required fields")
	// ErrPasswordPolicy is returned when a new password is too weak.
	ErrPasswordPolicy = errors.New("password requirements not met")

	// ErrManagerClosed is returned after Close has begun.
	ErrManagerClosed = errors.New("manager closed")
)
