package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go-notes-api/internal/auth"
	"go-notes-api/internal/metrics"
	"go-notes-api/internal/model"
)

const tokenTypeBearer = "bearer"

type AuthService struct {
	users         UserStore
	userService   *UserService
	hasher        *auth.PasswordHasher
	authenticator *auth.Authenticator
	resolver      *auth.IdentityResolver
	ttl           time.Duration
	metrics       *metrics.Metrics
}

func NewAuthService(users UserStore, userService *UserService, hasher *auth.PasswordHasher, cfg auth.TokenConfig, m *metrics.Metrics, opts ...auth.Option) *AuthService {
	issuer := auth.NewTokenIssuer(cfg, opts...)
	verifier := auth.NewTokenVerifier(cfg, opts...)

	return &AuthService{
		users:         users,
		userService:   userService,
		hasher:        hasher,
		authenticator: auth.NewAuthenticator(users, hasher, issuer),
		resolver:      auth.NewIdentityResolver(verifier, users),
		ttl:           cfg.TTL(),
		metrics:       m,
	}
}

// Register creates a regular user. Self-registration never grants Admin.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	user, err := s.userService.CreateUser(ctx, req.Username, req.Password, model.RoleUser)
	if err != nil {
		return model.User{}, err
	}

	s.metrics.Registered()
	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username string, password string) (model.AccessToken, error) {
	user, token, err := s.authenticator.Login(ctx, username, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredential):
			s.metrics.Login(metrics.LoginRejected)
			slog.Debug("login rejected", "username", username, "reason", auth.RejectionReason(err))
		default:
			s.metrics.Login(metrics.LoginError)
		}
		return model.AccessToken{}, err
	}

	if s.hasher.NeedsRehash(user.PasswordHash) {
		s.upgradeHash(ctx, user, password)
	}

	s.metrics.Login(metrics.LoginSuccess)
	return model.AccessToken{
		AccessToken: token.Value,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int64(s.ttl / time.Second),
		ExpiresAt:   token.ExpiresAt,
	}, nil
}

// Resolve maps a bearer token to the current identity of its subject.
func (s *AuthService) Resolve(ctx context.Context, token string) (auth.Identity, error) {
	return s.resolver.Resolve(ctx, token)
}

// upgradeHash re-hashes the password at the current cost. Failures are logged and
// do not fail the login.
func (s *AuthService) upgradeHash(ctx context.Context, user model.User, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		slog.Warn("password rehash failed", "user_id", user.ID, "error", err)
		return
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		slog.Warn("password rehash not stored", "user_id", user.ID, "error", err)
		return
	}
	slog.Info("password hash upgraded", "user_id", user.ID, "cost", s.hasher.Cost())
}
