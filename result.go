package tokenvault

import "errors"

// Code is the well-defined status code carried in every [Response].
type Code int

const (
	// CodeSuccess is an exported constant used in the result envelope.
	CodeSuccess Code = 200
	// CodeCreated is an exported constant used in the result envelope.
	CodeCreated Code = 201
	// CodeBadRequest is an exported constant used in the result envelope.
	CodeBadRequest Code = 400
	// CodeNotAuthorized is an exported constant used in the result envelope.
	CodeNotAuthorized Code = 401
	// CodeNotFound is an exported constant used in the result envelope.
	CodeNotFound Code = 404
	// CodeInternalServerError is an exported constant used in the result envelope.
	CodeInternalServerError Code = 500
)

// Status pairs a code with an error flag inside the envelope.
type Status struct {
	Code  Code `json:"code"`
	Error bool `json:"error"`
}

// Response is the uniform result envelope produced for the routing
// layer. Every operation returns one; no operation panics or leaks raw
// errors past the manager boundary.
type Response struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Result  any    `json:"result,omitempty"`
}

func ok(code Code, message string, result any) *Response {
	return &Response{
		Status:  Status{Code: code, Error: false},
		Message: message,
		Result:  result,
	}
}

func fail(code Code, message string) *Response {
	return &Response{
		Status:  Status{Code: code, Error: true},
		Message: message,
	}
}

// CodeForError maps the package's error taxonomy onto envelope codes.
func CodeForError(err error) Code {
	switch {
	case err == nil:
		return CodeSuccess
	case errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrPasswordPolicy), errors.Is(err, ErrUserExists),
		errors.Is(err, ErrInvalidCredentials):
		return CodeBadRequest
	case errors.Is(err, ErrRefreshInvalid), errors.Is(err, ErrUserInvalid):
		return CodeNotAuthorized
	case errors.Is(err, ErrUserNotFound):
		return CodeNotFound
	default:
		return CodeInternalServerError
	}
}
