package store

import (
	"context"
	"fmt"
)

// CreateUser inserts a user row.
func (s *Store) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, display_name, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := s.conn(ctx).Exec(ctx, query,
		user.ID, user.Email, user.DisplayName, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, email, display_name, created_at
		FROM users
		WHERE id = $1`

	user := &User{}
	err := s.conn(ctx).QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.DisplayName, &user.CreatedAt)
	if err != nil {
		return nil, wrapNotFound("get user", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, email, display_name, created_at
		FROM users
		WHERE email = $1`

	user := &User{}
	err := s.conn(ctx).QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.DisplayName, &user.CreatedAt)
	if err != nil {
		return nil, wrapNotFound("get user by email", err)
	}
	return user, nil
}
