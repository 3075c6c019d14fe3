package service

import (
	"context"

	"go-notes-api/internal/model"
)

// UserStore is implemented by repository.UserRepository and the in-memory store.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	Create(ctx context.Context, u model.User) (model.User, error)
	UpdateRole(ctx context.Context, id int64, role model.Role) (model.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.User, error)
}

// NoteStore is implemented by repository.NoteRepository and the in-memory store.
type NoteStore interface {
	Create(ctx context.Context, n model.Note) (model.Note, error)
	FindByID(ctx context.Context, id int64) (model.Note, error)
	ListActiveByOwner(ctx context.Context, ownerID int64) ([]model.Note, error)
	ListActive(ctx context.Context) ([]model.Note, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Note, error)
	Update(ctx context.Context, n model.Note) (model.Note, error)
	SetDeleted(ctx context.Context, id int64, deleted bool) (model.Note, error)
}
