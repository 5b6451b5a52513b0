package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bw-lms-api/internal/models"
	"github.com/noah-isme/bw-lms-api/pkg/kv"
)

func TestUserRepositorySaveMaintainsIndex(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(kv.NewMemoryStore())

	exists, err := repo.IndexExists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	user := &models.User{ID: "u1", Name: "Swim Instructor", Username: "instructor", Roles: models.NewRoleSet(models.RoleInstructor)}
	require.NoError(t, repo.Save(ctx, user))

	user.Username = "coach"
	require.NoError(t, repo.Save(ctx, user))

	index, err := repo.Index(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.UserIndexEntry{{ID: "u1", Username: "coach"}}, index)

	found, err := repo.FindByUsername(ctx, "  COACH ")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.ID)
	assert.True(t, found.Roles.Has(models.RoleInstructor))

	_, err = repo.FindByUsername(ctx, "instructor")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestUserRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(kv.NewMemoryStore())
	require.NoError(t, repo.Save(ctx, &models.User{ID: "u1", Username: "a"}))
	require.NoError(t, repo.Save(ctx, &models.User{ID: "u2", Username: "b"}))

	require.NoError(t, repo.Delete(ctx, "u1"))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u2", users[0].ID)

	_, err = repo.FindByID(ctx, "u1")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	exists, err := repo.IndexExists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepositoryListSkipsDanglingEntries(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(kv.NewMemoryStore())
	require.NoError(t, repo.SaveIndex(ctx, []models.UserIndexEntry{{ID: "ghost", Username: "ghost"}, {ID: "u1", Username: "a"}}))
	require.NoError(t, repo.SaveRecord(ctx, &models.User{ID: "u1", Username: "a"}))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].ID)
}
