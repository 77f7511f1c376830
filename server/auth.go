// This file contains bearer-token authentication for the streaming
// daemon, via github.com/golang-jwt/jwt/v5.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthorized is returned when a request carries no token, or one
// that fails verification.
var ErrUnauthorized = errors.New("server: unauthorized")

// Authenticator verifies the bearer token on an incoming connection
// request using a single shared HMAC secret.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator builds an Authenticator around a shared secret. An
// empty secret disables authentication entirely, which callers may want
// for local/offline use.
func NewAuthenticator(secret []byte) *Authenticator {
	return &Authenticator{secret: secret}
}

// Authenticate extracts and verifies the "Authorization: Bearer <token>"
// header. It is a no-op success when the Authenticator has no secret
// configured.
func (a *Authenticator) Authenticate(r *http.Request) error {
	if len(a.secret) == 0 {
		return nil
	}

	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
	}

	_, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return nil
}

// IssueToken mints a signed token for use by a client, mainly useful for
// the daemon's own CLI to hand out tokens during local testing.
func IssueToken(secret []byte, subject string) (string, error) {
	claims := jwt.RegisteredClaims{Subject: subject}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(secret)
}
