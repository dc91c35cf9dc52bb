package tokenvault

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestCodeForError(t *testing.T) {
	cases := []struct {
		err  error
		want Code
	}{
		{nil, CodeSuccess},
		{ErrTokenInvalid, CodeBadRequest},
		{ErrMissingFields, CodeBadRequest},
		{ErrPasswordPolicy, CodeBadRequest},
		{ErrUserExists, CodeBadRequest},
		{ErrInvalidCredentials, CodeBadRequest},
		{ErrRefreshInvalid, CodeNotAuthorized},
		{ErrUserInvalid, CodeNotAuthorized},
		{ErrUserNotFound, CodeNotFound},
		{ErrInternal, CodeInternalServerError},
		{errors.New("anything else"), CodeInternalServerError},
		{fmt.Errorf("%w: wrapped cause", ErrRefreshInvalid), CodeNotAuthorized},
	}
	for _, tc := range cases {
		if got := CodeForError(tc.err); got != tc.want {
			t.Errorf("CodeForError(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestResponseJSONShape(t *testing.T) {
	resp := ok(CodeSuccess, "Token invalidated", true)
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"status":{"code":200,"error":false},"message":"Token invalidated","result":true}`
	if string(data) != want {
		t.Fatalf("json = %s, want %s", data, want)
	}

	resp = fail(CodeNotAuthorized, "Invalid refresh token")
	data, _ = json.Marshal(resp)
	want = `{"status":{"code":401,"error":true},"message":"Invalid refresh token"}`
	if string(data) != want {
		t.Fatalf("json = %s, want %s", data, want)
	}
}
