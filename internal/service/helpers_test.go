package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-notes-api/internal/auth"
	"go-notes-api/internal/metrics"
	"go-notes-api/internal/model"
	"go-notes-api/internal/repository"
)

const testSigningKey = "0123456789abcdef0123456789abcdef"

type fixture struct {
	store *repository.MemoryStore
	users *UserService
	auth  *AuthService
	notes *NoteService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithCost(t, bcrypt.MinCost)
}

func newFixtureWithCost(t *testing.T, cost int) *fixture {
	t.Helper()

	store := repository.NewMemoryStore()
	hasher, err := auth.NewPasswordHasher(cost)
	require.NoError(t, err)
	cfg, err := auth.NewTokenConfig(testSigningKey, 30*time.Minute, "")
	require.NoError(t, err)

	audit := NewAuditService(slog.New(slog.NewTextHandler(io.Discard, nil)))
	users := NewUserService(store.Users(), hasher, audit)

	return &fixture{
		store: store,
		users: users,
		auth:  NewAuthService(store.Users(), users, hasher, cfg, metrics.New()),
		notes: NewNoteService(store.Notes(), store.Users(), audit),
	}
}

func (f *fixture) identity(t *testing.T, username string, role model.Role) auth.Identity {
	t.Helper()

	u, err := f.users.CreateUser(context.Background(), username, "password123", role)
	require.NoError(t, err)
	return auth.Identity{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// mockUserStore is a testify mock for failure paths the memory store cannot produce.
type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) FindByID(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) FindByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) Create(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) UpdateRole(ctx context.Context, id int64, role model.Role) (model.User, error) {
	args := m.Called(ctx, id, role)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *mockUserStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserStore) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}
