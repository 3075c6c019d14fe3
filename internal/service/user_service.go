package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"go-notes-api/internal/auth"
	"go-notes-api/internal/model"
)

type UserService struct {
	users  UserStore
	hasher *auth.PasswordHasher
	audit  *AuditService
}

func NewUserService(users UserStore, hasher *auth.PasswordHasher, audit *AuditService) *UserService {
	return &UserService{users: users, hasher: hasher, audit: audit}
}

// CreateUser validates the credential, hashes the password and stores the user with
// the given role. A taken username fails with auth.ErrConflict.
func (s *UserService) CreateUser(ctx context.Context, username string, password string, role model.Role) (model.User, error) {
	req := model.RegisterRequest{Username: username, Password: password}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return model.User{}, err
	}
	if !role.Valid() {
		return model.User{}, fmt.Errorf("%w: unknown role %q", model.ErrInvalidInput, role)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.User{}, err
	}

	user, err := s.users.Create(ctx, model.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         role,
	})
	if errors.Is(err, model.ErrUserAlreadyExists) {
		return model.User{}, fmt.Errorf("%w: %s", auth.ErrConflict, req.Username)
	}
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

// EnsureUser makes sure username exists with role. An existing account keeps its
// password; only its role is corrected. It reports whether the user was created.
func (s *UserService) EnsureUser(ctx context.Context, username string, password string, role model.Role) (model.User, bool, error) {
	existing, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	switch {
	case err == nil:
		if existing.Role == role {
			return existing, false, nil
		}
		updated, err := s.users.UpdateRole(ctx, existing.ID, role)
		if err != nil {
			return model.User{}, false, err
		}
		slog.Info("bootstrap user role corrected", "username", updated.Username, "role", updated.Role)
		return updated, false, nil
	case errors.Is(err, model.ErrUserNotFound):
	default:
		return model.User{}, false, err
	}

	created, err := s.CreateUser(ctx, username, password, role)
	if errors.Is(err, auth.ErrConflict) {
		// Lost a race with another bootstrapper.
		existing, err = s.users.FindByUsername(ctx, strings.TrimSpace(username))
		return existing, false, err
	}
	if err != nil {
		return model.User{}, false, err
	}
	return created, true, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpdateRole changes another user's role. An admin cannot change its own role.
func (s *UserService) UpdateRole(ctx context.Context, actor auth.Identity, id int64, role model.Role) (model.User, error) {
	resource := userResource(id)
	if actor.UserID == id {
		s.audit.Log(ctx, "user.role", actor, AuditFailure, resource, model.ErrSelfModification)
		return model.User{}, model.ErrSelfModification
	}
	if !role.Valid() {
		return model.User{}, fmt.Errorf("%w: unknown role %q", model.ErrInvalidInput, role)
	}

	user, err := s.users.UpdateRole(ctx, id, role)
	if err != nil {
		s.audit.Log(ctx, "user.role", actor, AuditFailure, resource, err)
		return model.User{}, err
	}

	s.audit.Log(ctx, "user.role", actor, AuditSuccess, resource, nil, "role", string(role))
	return user, nil
}

// Delete removes another user together with their notes.
func (s *UserService) Delete(ctx context.Context, actor auth.Identity, id int64) error {
	resource := userResource(id)
	if actor.UserID == id {
		s.audit.Log(ctx, "user.delete", actor, AuditFailure, resource, model.ErrSelfModification)
		return model.ErrSelfModification
	}

	if err := s.users.Delete(ctx, id); err != nil {
		s.audit.Log(ctx, "user.delete", actor, AuditFailure, resource, err)
		return err
	}

	s.audit.Log(ctx, "user.delete", actor, AuditSuccess, resource, nil)
	return nil
}

// SetRoleByUsername is the operator path used by the admin CLI.
func (s *UserService) SetRoleByUsername(ctx context.Context, username string, role model.Role) (model.User, error) {
	if !role.Valid() {
		return model.User{}, fmt.Errorf("%w: unknown role %q", model.ErrInvalidInput, role)
	}
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return model.User{}, err
	}
	return s.users.UpdateRole(ctx, user.ID, role)
}

func userResource(id int64) string {
	return "user:" + strconv.FormatInt(id, 10)
}
