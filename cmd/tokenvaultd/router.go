package main

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/hexlayer/tokenvault"
)

// The HTTP layer is deliberately thin: decode the request body, call the
// envelope API, serialize the envelope with its code as the HTTP status.

type tokenRequest struct {
	UserID       string `json:"userId,omitempty"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type accountRequest struct {
	FullName    string `json:"fullName,omitempty"`
	Email       string `json:"email,omitempty"`
	Credentials string `json:"credentials,omitempty"`
	Password    string `json:"password,omitempty"`
}

func newRouter(m *tokenvault.Manager, accounts bool, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/tokens", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decode[tokenRequest](w, r)
		if !ok {
			return
		}
		writeEnvelope(w, m.IssueTokens(r.Context(), req.UserID))
	})

	mux.HandleFunc("POST /v1/tokens/refresh", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decode[tokenRequest](w, r)
		if !ok {
			return
		}
		writeEnvelope(w, m.RefreshTokens(r.Context(), req.RefreshToken))
	})

	mux.HandleFunc("POST /v1/tokens/revoke", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decode[tokenRequest](w, r)
		if !ok {
			return
		}
		writeEnvelope(w, m.InvalidateToken(r.Context(), req.RefreshToken))
	})

	mux.HandleFunc("POST /v1/tokens/decode", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decode[tokenRequest](w, r)
		if !ok {
			return
		}
		writeEnvelope(w, m.DecodeToken(r.Context(), req.AccessToken))
	})

	if accounts {
		mux.HandleFunc("POST /v1/signup", func(w http.ResponseWriter, r *http.Request) {
			req, ok := decode[accountRequest](w, r)
			if !ok {
				return
			}
			writeEnvelope(w, m.SignUpAccount(r.Context(), req.FullName, req.Email, req.Password))
		})

		mux.HandleFunc("POST /v1/signin", func(w http.ResponseWriter, r *http.Request) {
			req, ok := decode[accountRequest](w, r)
			if !ok {
				return
			}
			email := req.Email
			if email == "" {
				email = req.Credentials
			}
			writeEnvelope(w, m.SignInAccount(r.Context(), email, req.Password))
		})
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := m.Ping(r.Context()); err != nil {
			logger.Warn("health check", zap.Error(err))
			http.Error(w, "store unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(m.MetricsSnapshot().Counters)
	})

	return mux
}

func decode[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, &tokenvault.Response{
			Status:  tokenvault.Status{Code: tokenvault.CodeBadRequest, Error: true},
			Message: "Malformed request body",
		})
		var zero T
		return zero, false
	}
	return req, true
}

func writeEnvelope(w http.ResponseWriter, resp *tokenvault.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(int(resp.Status.Code))
	_ = json.NewEncoder(w).Encode(resp)
}
