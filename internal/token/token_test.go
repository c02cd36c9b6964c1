package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndParse_Roundtrip(t *testing.T) {
	t.Parallel()

	tok, err := Issue("super-secret", "u1", "a@x.com", "operator", time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	c, err := Parse("super-secret", tok)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if c.UserID != "u1" || c.Email != "a@x.com" || c.Role != "operator" {
		t.Fatalf("payload mismatch: %+v", c)
	}
}

func TestIssue_NoSecret(t *testing.T) {
	t.Parallel()

	if _, err := Issue("", "u1", "a@x.com", "operator", time.Hour); err != ErrNoSecret {
		t.Fatalf("expected ErrNoSecret, got %v", err)
	}
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()

	tok, err := Issue("secret", "u1", "a@x.com", "operator", -time.Minute)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := Parse("secret", tok); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := Issue("secret-a", "u1", "a@x.com", "operator", time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := Parse("secret-b", tok); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	for _, tok := range []string{"", "garbage", "a.b", "a.b.c"} {
		if _, err := Parse("secret", tok); err == nil {
			t.Fatalf("expected error for malformed token %q", tok)
		}
	}
}

func TestIssueResetAndParseReset_Roundtrip(t *testing.T) {
	t.Parallel()

	tok, err := IssueReset("super-secret", "u1", time.Hour)
	if err != nil {
		t.Fatalf("IssueReset error: %v", err)
	}

	c, err := ParseReset("super-secret", tok)
	if err != nil {
		t.Fatalf("ParseReset error: %v", err)
	}
	if c.UserID != "u1" {
		t.Fatalf("payload mismatch: %+v", c)
	}
}

func TestParse_RejectsResetToken(t *testing.T) {
	t.Parallel()

	// Reset tokens carry only the user ID and must never pass as a
	// session credential.
	tok, err := IssueReset("secret", "u1", time.Hour)
	if err != nil {
		t.Fatalf("IssueReset error: %v", err)
	}
	if _, err := Parse("secret", tok); err == nil {
		t.Fatal("expected Parse to reject a reset token")
	}
}

func TestParse_MissingFields(t *testing.T) {
	t.Parallel()

	// Sign a structurally valid token that lacks the role claim.
	now := time.Now()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "u1", Email: "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := Parse("secret", raw); err == nil {
		t.Fatal("expected error for token missing a required field")
	}
}
