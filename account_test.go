package tokenvault

import (
	"context"
	"errors"
	"testing"
)

func TestSignUpAndSignIn(t *testing.T) {
	m, _ := newTestManager(t, newMemDirectory())
	ctx := context.Background()

	id, err := m.SignUp(ctx, "Ada Lovelace", "ada@example.com", "difference-engine")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if id == "" {
		t.Fatal("SignUp returned an empty id")
	}

	pair, err := m.SignIn(ctx, "ada@example.com", "difference-engine")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	intro, err := m.Introspect(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("Introspect: %v", err)
	}
	if intro.UserID != id || intro.FullName != "Ada Lovelace" {
		t.Fatalf("unexpected claims: %+v", intro)
	}
}

func TestSignUpValidation(t *testing.T) {
	m, _ := newTestManager(t, newMemDirectory())
	ctx := context.Background()

	cases := []struct {
		name            string
		fullName, email string
		pw              string
		want            error
	}{
		{"missing name", "", "a@b.c", "longenough", ErrMissingFields},
		{"missing email", "Ada", "", "longenough", ErrMissingFields},
		{"missing password", "Ada", "a@b.c", "", ErrMissingFields},
		{"short password", "Ada", "a@b.c", "seven77", ErrPasswordPolicy},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := m.SignUp(ctx, tc.fullName, tc.email, tc.pw); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	m, _ := newTestManager(t, newMemDirectory())
	ctx := context.Background()

	if _, err := m.SignUp(ctx, "Ada", "ada@example.com", "longenough"); err != nil {
		t.Fatalf("first SignUp: %v", err)
	}
	if _, err := m.SignUp(ctx, "Also Ada", "ada@example.com", "different8"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("err = %v, want ErrUserExists", err)
	}
}

func TestSignInFailures(t *testing.T) {
	m, _ := newTestManager(t, newMemDirectory())
	ctx := context.Background()

	if _, err := m.SignUp(ctx, "Ada", "ada@example.com", "longenough"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	if _, err := m.SignIn(ctx, "nobody@example.com", "longenough"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown email err = %v, want ErrUserNotFound", err)
	}
	if _, err := m.SignIn(ctx, "ada@example.com", "wrongpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password err = %v, want ErrInvalidCredentials", err)
	}
}

func TestAccountEnvelopes(t *testing.T) {
	m, _ := newTestManager(t, newMemDirectory())
	ctx := context.Background()

	resp := m.SignUpAccount(ctx, "Ada", "ada@example.com", "longenough")
	if resp.Status.Error || resp.Status.Code != CodeCreated {
		t.Fatalf("signup envelope: %+v", resp)
	}
	if resp.Message != "Successfully created your account" {
		t.Fatalf("signup message = %q", resp.Message)
	}

	resp = m.SignUpAccount(ctx, "Ada", "ada@example.com", "longenough")
	if !resp.Status.Error || resp.Message != "User already exist" {
		t.Fatalf("duplicate signup envelope: %+v", resp)
	}

	resp = m.SignInAccount(ctx, "ada@example.com", "longenough")
	if resp.Status.Error || resp.Message != "Tokens generated successfully" {
		t.Fatalf("signin envelope: %+v", resp)
	}
	if _, ok := resp.Result.(*TokenPair); !ok {
		t.Fatalf("signin result type %T", resp.Result)
	}

	resp = m.SignInAccount(ctx, "ghost@example.com", "longenough")
	if !resp.Status.Error || resp.Status.Code != CodeNotFound {
		t.Fatalf("unknown user envelope: %+v", resp)
	}

	resp = m.SignInAccount(ctx, "ada@example.com", "wrongpassword")
	if !resp.Status.Error || resp.Message != "Passwords don't match." {
		t.Fatalf("bad password envelope: %+v", resp)
	}
}
