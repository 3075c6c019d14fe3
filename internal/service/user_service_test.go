package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-notes-api/internal/model"
)

func TestUserService_UpdateRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.identity(t, "admin", model.RoleAdmin)
	bob := f.identity(t, "bob", model.RoleUser)

	updated, err := f.users.UpdateRole(ctx, admin, bob.UserID, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, updated.Role)

	_, err = f.users.UpdateRole(ctx, admin, admin.UserID, model.RoleUser)
	assert.ErrorIs(t, err, model.ErrSelfModification)

	_, err = f.users.UpdateRole(ctx, admin, bob.UserID, model.Role("Owner"))
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = f.users.UpdateRole(ctx, admin, 999, model.RoleUser)
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestUserService_DeleteCascadesNotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.identity(t, "admin", model.RoleAdmin)
	bob := f.identity(t, "bob", model.RoleUser)

	_, err := f.notes.Create(ctx, bob, model.CreateNoteRequest{Title: "mine"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.users.Delete(ctx, admin, admin.UserID), model.ErrSelfModification)
	require.NoError(t, f.users.Delete(ctx, admin, bob.UserID))

	all, err := f.notes.AdminListAll(ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = f.users.Get(ctx, bob.UserID)
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestUserService_EnsureUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, created, err := f.users.EnsureUser(ctx, "root", "bootstrap-pass", model.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.RoleAdmin, user.Role)

	again, created, err := f.users.EnsureUser(ctx, "root", "ignored-pass", model.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, user.PasswordHash, again.PasswordHash)

	_, err = f.users.SetRoleByUsername(ctx, "root", model.RoleUser)
	require.NoError(t, err)

	promoted, created, err := f.users.EnsureUser(ctx, "root", "ignored-pass", model.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, model.RoleAdmin, promoted.Role)
}

func TestUserService_List(t *testing.T) {
	f := newFixture(t)
	f.identity(t, "zoe", model.RoleUser)
	f.identity(t, "adam", model.RoleAdmin)

	users, err := f.users.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "adam", users[0].Username)
}
