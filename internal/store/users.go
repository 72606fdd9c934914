package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"apptracker/internal/auth"
)

const userColumns = `id, username, email, password_hash, first_name, last_name,
	role, enabled, created_at, updated_at`

// CreateUser inserts a new account. Unique violations map to the auth
// package's sentinel errors by constraint name.
func (s *Store) CreateUser(ctx context.Context, u *auth.User) (*auth.User, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, first_name, last_name, role, enabled)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+userColumns,
		u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role, u.Enabled,
	)
	saved, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "users_email_key":
				return nil, auth.ErrEmailTaken
			case "users_username_key":
				return nil, auth.ErrUsernameTaken
			}
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return saved, nil
}

// UserByUsername looks up an account by its unique username.
func (s *Store) UserByUsername(ctx context.Context, username string) (*auth.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row)
	if err != nil {
		if notFound(err) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UserByID looks up an account by id.
func (s *Store) UserByID(ctx context.Context, id string) (*auth.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if notFound(err) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*auth.User, error) {
	var u auth.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Role, &u.Enabled, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
