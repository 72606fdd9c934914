// Package auth is the identity collaborator: user accounts, password
// hashing and JWT issue/verify. It hands the rest of the system a
// lifecycle.Identity; nothing here participates in ownership decisions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"apptracker/internal/lifecycle"
)

// Roles gate routes at the transport layer only.
const (
	RoleCandidate = "CANDIDATE"
	RoleRecruiter = "RECRUITER"
)

// User is a registered account. PasswordHash is a bcrypt hash, never the
// raw password.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Role         string    `json:"role"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Identity converts the user to the identity value passed into core calls.
func (u *User) Identity() lifecycle.Identity {
	return lifecycle.Identity{ID: u.ID, Username: u.Username, Role: u.Role}
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already exists")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserStore is the persistence contract for accounts.
type UserStore interface {
	// CreateUser inserts the user and returns ErrEmailTaken or
	// ErrUsernameTaken on a uniqueness conflict.
	CreateUser(ctx context.Context, u *User) (*User, error)
	UserByUsername(ctx context.Context, username string) (*User, error)
	UserByID(ctx context.Context, id string) (*User, error)
}

// RegistrationInput carries a registration request.
type RegistrationInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// Service implements registration and login.
type Service struct {
	store  UserStore
	tokens *TokenIssuer
}

// NewService returns a configured Service.
func NewService(store UserStore, tokens *TokenIssuer) *Service {
	return &Service{store: store, tokens: tokens}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, in RegistrationInput) (*User, error) {
	if err := validateRegistration(in); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.store.CreateUser(ctx, &User{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         in.Role,
		Enabled:      true,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("user registered", "username", user.Username, "role", user.Role)
	return user, nil
}

// Login verifies credentials and issues a token. A missing user and a
// wrong password both surface as ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (string, *User, error) {
	user, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.Enabled {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// Token issues a bearer token for an already-authenticated user, such as
// one that was just registered. Credential checks belong in Login.
func (s *Service) Token(u *User) (string, error) {
	return s.tokens.Issue(u)
}

// VerifyToken resolves a bearer token to the caller identity.
func (s *Service) VerifyToken(token string) (lifecycle.Identity, error) {
	return s.tokens.Verify(token)
}

func validateRegistration(in RegistrationInput) error {
	if strings.TrimSpace(in.Username) == "" {
		return &lifecycle.ValidationError{Msg: "username is required"}
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return &lifecycle.ValidationError{Msg: "a valid email is required"}
	}
	if len(in.Password) < 8 {
		return &lifecycle.ValidationError{Msg: "password must be at least 8 characters"}
	}
	switch in.Role {
	case RoleCandidate, RoleRecruiter:
	default:
		return &lifecycle.ValidationError{Msg: "role must be CANDIDATE or RECRUITER"}
	}
	return nil
}
