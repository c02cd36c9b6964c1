package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/hassan-suriya/upwork-proposal-tracker/internal/token"
)

// SessionCookie carries the signed token; StatusCookie is a non-sensitive
// marker readable by clients for cheap presence checks.
const (
	SessionCookie = "token"
	StatusCookie  = "auth-status"
	StatusValue   = "logged-in"
)

var (
	ErrNoToken      = errors.New("no token provided")
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is a resolved, validated session.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// FromRequest locates a candidate token without validating it.
// Precedence: Authorization Bearer header, session cookie, then a manual
// parse of the raw Cookie header as a fallback.
func FromRequest(r *http.Request) (string, bool) {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		if t := strings.TrimPrefix(h, "Bearer "); t != "" {
			return t, true
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value, true
	}
	if raw := r.Header.Get("Cookie"); raw != "" {
		for _, part := range strings.Split(raw, ";") {
			k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
			if ok && k == SessionCookie && v != "" {
				return v, true
			}
		}
	}
	return "", false
}

// Resolve extracts and cryptographically verifies the request's credential.
// Returns ErrNoToken or ErrInvalidToken; never panics.
func Resolve(secret string, r *http.Request) (*Identity, error) {
	tok, ok := FromRequest(r)
	if !ok {
		return nil, ErrNoToken
	}
	c, err := token.Parse(secret, tok)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &Identity{UserID: c.UserID, Email: c.Email, Role: c.Role}, nil
}
