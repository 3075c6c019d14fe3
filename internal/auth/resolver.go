package auth

import (
	"context"
	"errors"
	"fmt"

	"go-notes-api/internal/model"
)

// UserFinder is the credential store lookup the resolver depends on.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
}

type IdentityResolver struct {
	verifier *TokenVerifier
	users    UserFinder
}

func NewIdentityResolver(verifier *TokenVerifier, users UserFinder) *IdentityResolver {
	return &IdentityResolver{verifier: verifier, users: users}
}

// Resolve verifies token and loads its subject from the store. A subject that no
// longer exists is indistinguishable from a forged token. Store failures are
// reported as ErrUnavailable so callers can retry.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (Identity, error) {
	claims, err := r.verifier.Verify(token)
	if err != nil {
		return Identity{}, err
	}

	user, err := r.users.FindByUsername(ctx, claims.Subject)
	if errors.Is(err, model.ErrUserNotFound) {
		return Identity{}, reject(ReasonUnknownUser, nil)
	}
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return Identity{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}
