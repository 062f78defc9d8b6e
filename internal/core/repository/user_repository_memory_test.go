package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhngo/authweb/internal/core/domain"
)

func TestMemoryUserRepositoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	id, err := repo.Create(ctx, "alice", "a@x.com", "hash1")
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, "a@x.com", byName.Email)
	assert.Equal(t, "hash1", byName.PasswordHash)

	byEmail, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, "alice", byEmail.Username)
}

func TestMemoryUserRepositoryAbsentUser(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	row, err := repo.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, row)

	row, err = repo.GetByEmail(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestMemoryUserRepositoryUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	_, err := repo.Create(ctx, "alice", "a@x.com", "hash1")
	require.NoError(t, err)

	_, err = repo.Create(ctx, "alice", "other@x.com", "hash2")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	_, err = repo.Create(ctx, "bob", "a@x.com", "hash2")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	// The rejected inserts must not have consumed the username or email.
	_, err = repo.Create(ctx, "bob", "b@x.com", "hash2")
	require.NoError(t, err)
}

func TestMemoryUserRepositoryUpdatePasswordHash(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	id, err := repo.Create(ctx, "alice", "a@x.com", "hash1")
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePasswordHash(ctx, id, "hash2"))

	row, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "hash2", row.PasswordHash)
}
