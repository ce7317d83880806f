// Package session derives the authentication signal from the configured
// access token.
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind describes how a token was interpreted.
type Kind string

const (
	KindNone   Kind = "none"
	KindJWT    Kind = "jwt"
	KindOpaque Kind = "opaque"
)

// Session is the client's view of the logged-in user. The token is never
// verified here; the server is the authority and rejects bad tokens on the
// first request.
type Session struct {
	Token     string    `json:"-"`
	Kind      Kind      `json:"kind"`
	Subject   string    `json:"subject,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`

	now func() time.Time
}

// New inspects token. JWTs are decoded without verification so the expiry
// and subject are known up front; anything else is treated as an opaque
// session id.
func New(token string) Session {
	return newAt(token, time.Now)
}

func newAt(token string, now func() time.Time) Session {
	token = strings.TrimSpace(token)
	s := Session{Token: token, Kind: KindNone, now: now}
	if token == "" {
		return s
	}

	claims := jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil {
		s.Kind = KindOpaque
		return s
	}

	s.Kind = KindJWT
	s.Subject = claims.Subject
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s
}

// Authenticated reports whether a push connection should be attempted.
func (s Session) Authenticated() bool {
	switch s.Kind {
	case KindOpaque:
		return true
	case KindJWT:
		return !s.Expired()
	default:
		return false
	}
}

// Expired reports whether a JWT session has passed its exp claim.
func (s Session) Expired() bool {
	if s.Kind != KindJWT || s.ExpiresAt.IsZero() {
		return false
	}
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	return !now().Before(s.ExpiresAt)
}

// ErrNoToken is returned by Require when no token is configured.
var ErrNoToken = errors.New("no access token configured (set server.token or BELL_SERVER_TOKEN)")

// ErrExpired is returned by Require when the JWT has expired.
var ErrExpired = errors.New("access token has expired")

// Require returns an error explaining why the session is not authenticated.
func (s Session) Require() error {
	switch {
	case s.Kind == KindNone:
		return ErrNoToken
	case s.Expired():
		return ErrExpired
	default:
		return nil
	}
}
