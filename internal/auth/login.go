package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-notes-api/internal/model"
)

// Authenticator checks a username and password against the credential store and
// issues an access token for the stored username.
type Authenticator struct {
	users  UserFinder
	hasher *PasswordHasher
	issuer *TokenIssuer
}

func NewAuthenticator(users UserFinder, hasher *PasswordHasher, issuer *TokenIssuer) *Authenticator {
	return &Authenticator{users: users, hasher: hasher, issuer: issuer}
}

// Login returns the matched user alongside the token so callers can act on the
// stored record (e.g. upgrade its hash). An unknown username and a wrong password
// both fail with ErrInvalidCredential after the same amount of bcrypt work.
func (a *Authenticator) Login(ctx context.Context, username string, password string) (model.User, Token, error) {
	username = strings.TrimSpace(username)

	user, err := a.users.FindByUsername(ctx, username)
	if errors.Is(err, model.ErrUserNotFound) {
		a.hasher.Burn(password)
		return model.User{}, Token{}, reject(ReasonUnknownUser, nil)
	}
	if err != nil {
		return model.User{}, Token{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		return model.User{}, Token{}, reject(ReasonWrongPassword, nil)
	}

	token, err := a.issuer.Issue(user.Username)
	if err != nil {
		return model.User{}, Token{}, err
	}
	return user, token, nil
}
