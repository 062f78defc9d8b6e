package repository

import (
	"context"
	"sync"

	"github.com/minhngo/authweb/internal/core/domain"
)

// MemoryUserRepository is a mutex-guarded in-memory implementation of
// domain.UserRepository. It backs tests and DSN-less development runs,
// and enforces the same uniqueness guarantees as the SQL constraints.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	nextID int
	users  map[int]domain.UserRow
}

// NewMemoryUserRepository creates an empty MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		nextID: 1,
		users:  make(map[int]domain.UserRow),
	}
}

// GetByUsername returns the user matching the given username.
// Returns (nil, nil) when no user is found.
func (r *MemoryUserRepository) GetByUsername(ctx context.Context, username string) (*domain.UserRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			row := u
			return &row, nil
		}
	}
	return nil, nil
}

// GetByEmail returns the user matching the given email.
// Returns (nil, nil) when no user is found.
func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.UserRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			row := u
			return &row, nil
		}
	}
	return nil, nil
}

// Create inserts a new user, enforcing username and email uniqueness
// atomically under the write lock.
func (r *MemoryUserRepository) Create(ctx context.Context, username, email, passwordHash string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			return 0, domain.ErrUsernameTaken
		}
		if u.Email == email {
			return 0, domain.ErrEmailTaken
		}
	}

	id := r.nextID
	r.nextID++
	r.users[id] = domain.UserRow{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	return id, nil
}

// UpdatePasswordHash replaces the stored hash for the given user.
func (r *MemoryUserRepository) UpdatePasswordHash(ctx context.Context, userID int, newHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return nil
	}
	u.PasswordHash = newHash
	r.users[userID] = u
	return nil
}
