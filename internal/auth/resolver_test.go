package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-notes-api/internal/model"
)

type stubUsers struct {
	users map[string]model.User
	err   error
	calls int
}

func (s *stubUsers) FindByUsername(_ context.Context, username string) (model.User, error) {
	s.calls++
	if s.err != nil {
		return model.User{}, s.err
	}
	user, ok := s.users[username]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func newTestResolver(t *testing.T, users *stubUsers) (*IdentityResolver, *TokenIssuer) {
	t.Helper()

	cfg := newTestTokenConfig(t)
	return NewIdentityResolver(NewTokenVerifier(cfg, WithClock(fixedClock)), users), NewTokenIssuer(cfg, WithClock(fixedClock))
}

func TestResolve_ReturnsStoredIdentity(t *testing.T) {
	users := &stubUsers{users: map[string]model.User{
		"alice": {ID: 7, Username: "alice", Role: model.RoleUser},
	}}
	resolver, issuer := newTestResolver(t, users)

	token, err := issuer.Issue("alice")
	require.NoError(t, err)

	identity, err := resolver.Resolve(context.Background(), token.Value)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: 7, Username: "alice", Role: model.RoleUser}, identity)
}

func TestResolve_ReadsRoleFreshEachTime(t *testing.T) {
	users := &stubUsers{users: map[string]model.User{
		"alice": {ID: 7, Username: "alice", Role: model.RoleUser},
	}}
	resolver, issuer := newTestResolver(t, users)

	token, err := issuer.Issue("alice")
	require.NoError(t, err)

	users.users["alice"] = model.User{ID: 7, Username: "alice", Role: model.RoleAdmin}

	identity, err := resolver.Resolve(context.Background(), token.Value)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, identity.Role)
	assert.Equal(t, 1, users.calls)
}

func TestResolve_DeletedSubject(t *testing.T) {
	users := &stubUsers{users: map[string]model.User{
		"alice": {ID: 7, Username: "alice", Role: model.RoleUser},
	}}
	resolver, issuer := newTestResolver(t, users)

	token, err := issuer.Issue("alice")
	require.NoError(t, err)

	delete(users.users, "alice")

	_, err = resolver.Resolve(context.Background(), token.Value)
	require.ErrorIs(t, err, ErrInvalidCredential)
	assert.NotErrorIs(t, err, model.ErrUserNotFound)
	assert.Equal(t, ReasonUnknownUser, RejectionReason(err))
}

func TestResolve_BadTokenSkipsStore(t *testing.T) {
	users := &stubUsers{users: map[string]model.User{}}
	resolver, _ := newTestResolver(t, users)

	_, err := resolver.Resolve(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidCredential)
	assert.Zero(t, users.calls)
}

func TestResolve_StoreFailureIsNotMasked(t *testing.T) {
	users := &stubUsers{err: errors.New("connection refused")}
	resolver, issuer := newTestResolver(t, users)

	token, err := issuer.Issue("alice")
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), token.Value)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrInvalidCredential)
	assert.Contains(t, err.Error(), "connection refused")
}
