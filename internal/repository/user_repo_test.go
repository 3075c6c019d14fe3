package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-notes-api/internal/model"
)

var userCols = []string{"id", "username", "password_hash", "role", "created_at", "updated_at"}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestUserRepository_FindByUsername(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewUserRepository(mock)

		mock.ExpectQuery(`SELECT .+ FROM users WHERE lower\(username\) = lower\(\$1\)`).
			WithArgs("alice").
			WillReturnRows(mock.NewRows(userCols).
				AddRow(int64(7), "alice", "$2a$10$hash", "Admin", created, created))

		u, err := repo.FindByUsername(context.Background(), " alice ")
		require.NoError(t, err)
		assert.Equal(t, int64(7), u.ID)
		assert.Equal(t, model.RoleAdmin, u.Role)
		assert.Equal(t, "$2a$10$hash", u.PasswordHash)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing maps to ErrUserNotFound", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewUserRepository(mock)

		mock.ExpectQuery(`SELECT .+ FROM users`).
			WithArgs("ghost").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.FindByUsername(context.Background(), "ghost")
		assert.ErrorIs(t, err, model.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver failure is wrapped", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewUserRepository(mock)

		boom := errors.New("connection reset")
		mock.ExpectQuery(`SELECT .+ FROM users`).
			WithArgs("alice").
			WillReturnError(boom)

		_, err := repo.FindByUsername(context.Background(), "alice")
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, model.ErrUserNotFound)
	})
}

func TestUserRepository_Create(t *testing.T) {
	t.Run("returns generated id", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewUserRepository(mock)

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("bob", "hash", "User", pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(42)))

		u, err := repo.Create(context.Background(), model.User{Username: "bob", PasswordHash: "hash", Role: model.RoleUser})
		require.NoError(t, err)
		assert.Equal(t, int64(42), u.ID)
		assert.False(t, u.CreatedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to ErrUserAlreadyExists", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewUserRepository(mock)

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("bob", "hash", "User", pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_lower_key"})

		_, err := repo.Create(context.Background(), model.User{Username: "bob", PasswordHash: "hash", Role: model.RoleUser})
		assert.ErrorIs(t, err, model.ErrUserAlreadyExists)
	})
}

func TestUserRepository_UpdateRole(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(`UPDATE users SET role = \$2`).
		WithArgs(int64(3), "Admin", pgxmock.AnyArg()).
		WillReturnRows(mock.NewRows(userCols).AddRow(int64(3), "carol", "h", "Admin", now, now))
	mock.ExpectQuery(`UPDATE users SET role = \$2`).
		WithArgs(int64(99), "User", pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	u, err := repo.UpdateRole(context.Background(), 3, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)

	_, err = repo.UpdateRole(context.Background(), 99, model.RoleUser)
	assert.ErrorIs(t, err, model.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(int64(6)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), 5))
	assert.ErrorIs(t, repo.Delete(context.Background(), 6), model.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .+ FROM users ORDER BY username`).
		WillReturnRows(mock.NewRows(userCols).
			AddRow(int64(1), "alice", "h1", "Admin", now, now).
			AddRow(int64(2), "bob", "h2", "User", now, now))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, model.RoleUser, users[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}
