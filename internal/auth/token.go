package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"apptracker/internal/lifecycle"
)

// ErrInvalidToken covers expired, malformed and wrongly signed tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// claims is the token payload: subject is the stable user id, username
// and role ride along so the middleware needs no database read.
type claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS512 JWTs.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer returns an issuer with the given signing secret and
// token lifetime.
func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl}
}

// Issue signs a token for the user.
func (t *TokenIssuer) Issue(u *User) (string, error) {
	now := time.Now()
	c := claims{
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS512, c).SignedString(t.secret)
}

// Verify parses and validates a token, returning the caller identity.
func (t *TokenIssuer) Verify(token string) (lifecycle.Identity, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return lifecycle.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid || c.Subject == "" {
		return lifecycle.Identity{}, ErrInvalidToken
	}
	return lifecycle.Identity{ID: c.Subject, Username: c.Username, Role: c.Role}, nil
}
