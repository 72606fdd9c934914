package auth_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"apptracker/internal/auth"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

func issuerUser() *auth.User {
	return &auth.User{
		ID:       "user-1",
		Username: "alice",
		Role:     auth.RoleCandidate,
	}
}

// ── Issue / Verify ─────────────────────────────────────────────────────────

func TestToken_RoundTrip(t *testing.T) {
	issuer := auth.NewTokenIssuer(secret, time.Hour)

	token, err := issuer.Issue(issuerUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("token is not a compact JWT: %q", token)
	}

	id, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.ID != "user-1" || id.Username != "alice" || id.Role != auth.RoleCandidate {
		t.Errorf("identity = %+v, want user-1/alice/CANDIDATE", id)
	}
}

func TestToken_WrongSecretRejected(t *testing.T) {
	issuer := auth.NewTokenIssuer(secret, time.Hour)
	other := auth.NewTokenIssuer([]byte("fedcba9876543210fedcba9876543210"), time.Hour)

	token, err := issuer.Issue(issuerUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := other.Verify(token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("Verify with wrong secret: error = %v, want ErrInvalidToken", err)
	}
}

func TestToken_ExpiredRejected(t *testing.T) {
	issuer := auth.NewTokenIssuer(secret, -time.Minute)

	token, err := issuer.Issue(issuerUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := issuer.Verify(token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("Verify of expired token: error = %v, want ErrInvalidToken", err)
	}
}

func TestToken_MalformedRejected(t *testing.T) {
	issuer := auth.NewTokenIssuer(secret, time.Hour)

	for _, garbage := range []string{"", "not-a-token", "a.b.c", "eyJhbGciOiJub25lIn0.."} {
		if _, err := issuer.Verify(garbage); !errors.Is(err, auth.ErrInvalidToken) {
			t.Errorf("Verify(%q): error = %v, want ErrInvalidToken", garbage, err)
		}
	}
}

func TestToken_TamperedPayloadRejected(t *testing.T) {
	issuer := auth.NewTokenIssuer(secret, time.Hour)

	token, err := issuer.Issue(issuerUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	parts := strings.Split(token, ".")
	parts[1] = parts[1][:len(parts[1])-2] + "xx"
	tampered := strings.Join(parts, ".")

	if _, err := issuer.Verify(tampered); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("Verify of tampered token: error = %v, want ErrInvalidToken", err)
	}
}
