package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSecret is a configuration error: tokens cannot be issued or parsed
// without a signing secret.
var ErrNoSecret = errors.New("session secret is not set")

var errMissingFields = errors.New("token missing required fields")

type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Issue signs a session credential for the given identity, valid for ttl.
func Issue(secret, userID, email, role string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	now := time.Now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID, Email: email, Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}).SignedString([]byte(secret))
}

// IssueReset signs a short-lived password-reset credential. It carries only
// the user ID, so Parse rejects it as a session token.
func IssueReset(secret, userID string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	now := time.Now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}).SignedString([]byte(secret))
}

// Parse validates signature and expiry and requires all identity fields.
func Parse(secret, tok string) (*Claims, error) {
	c, err := parse(secret, tok)
	if err != nil {
		return nil, err
	}
	if c.UserID == "" || c.Email == "" || c.Role == "" {
		return nil, errMissingFields
	}
	return c, nil
}

// ParseReset validates a password-reset credential. It only requires the
// user ID.
func ParseReset(secret, tok string) (*Claims, error) {
	c, err := parse(secret, tok)
	if err != nil {
		return nil, err
	}
	if c.UserID == "" {
		return nil, errMissingFields
	}
	return c, nil
}

func parse(secret, tok string) (*Claims, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	t, err := jwt.ParseWithClaims(tok, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return c, nil
}
