// Package auth implements the bearer-token gate in front of the API.
//
// The studio runs single-operator: one admin token, configured as a bcrypt
// hash, is compared against the Authorization header on every request.
package auth

import (
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/aurumworks/aurum/internal/platform/httpx"
)

// TokenGate verifies bearer tokens against a configured bcrypt hash.
type TokenGate struct {
	tokenHash []byte
}

// NewTokenGate constructs a gate from the configured hash.
func NewTokenGate(tokenHash string) *TokenGate {
	return &TokenGate{tokenHash: []byte(tokenHash)}
}

// Middleware rejects requests without a valid bearer token.
func (g *TokenGate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httpx.RespondError(w, fmt.Errorf("%w: missing bearer token", httpx.ErrUnauthorized))
			return
		}
		if err := bcrypt.CompareHashAndPassword(g.tokenHash, []byte(token)); err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: invalid token", httpx.ErrUnauthorized))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
