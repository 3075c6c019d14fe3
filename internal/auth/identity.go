package auth

import (
	"context"

	"go-notes-api/internal/model"
)

// Identity is the request-scoped principal resolved from a bearer token. Role is the
// stored role at resolution time, never a token claim.
type Identity struct {
	UserID   int64
	Username string
	Role     model.Role
}

func (id Identity) IsZero() bool {
	return id.Username == ""
}

type contextKey int

const identityKey contextKey = iota

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && !id.IsZero()
}
