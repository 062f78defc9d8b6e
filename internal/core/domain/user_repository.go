package domain

import (
	"context"
	"errors"
)

// Uniqueness violations reported by the store at insert time. The store's
// constraints are the source of truth for duplicates; the logic layer's
// existence pre-checks only order the error messages.
var (
	ErrUsernameTaken = errors.New("username taken")
	ErrEmailTaken    = errors.New("email taken")
)

// UserRepository defines the data-access contract for user operations.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only — never on SQL or pgx directly.
type UserRepository interface {
	// GetByUsername returns the user matching the given username.
	// Returns (nil, nil) when no user is found.
	GetByUsername(ctx context.Context, username string) (*UserRow, error)

	// GetByEmail returns the user matching the given email.
	// Returns (nil, nil) when no user is found.
	GetByEmail(ctx context.Context, email string) (*UserRow, error)

	// Create inserts a new user and returns the generated user ID.
	// Returns ErrUsernameTaken or ErrEmailTaken on a unique violation.
	Create(ctx context.Context, username, email, passwordHash string) (int, error)

	// UpdatePasswordHash replaces the stored hash for the given user.
	UpdatePasswordHash(ctx context.Context, userID int, newHash string) error
}
