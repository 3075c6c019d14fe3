package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go-notes-api/internal/auth"
	"go-notes-api/internal/model"
)

// NoteService applies ownership rules on top of the note store. Notes the caller may
// not see are reported as model.ErrNoteNotFound, never as forbidden, so note ids do
// not leak across tenants.
type NoteService struct {
	notes NoteStore
	users UserStore
	audit *AuditService
}

func NewNoteService(notes NoteStore, users UserStore, audit *AuditService) *NoteService {
	return &NoteService{notes: notes, users: users, audit: audit}
}

func (s *NoteService) Create(ctx context.Context, actor auth.Identity, req model.CreateNoteRequest) (model.Note, error) {
	if err := req.Validate(); err != nil {
		return model.Note{}, err
	}

	note, err := s.notes.Create(ctx, model.Note{
		Title:   strings.TrimSpace(req.Title),
		Body:    req.Body,
		OwnerID: actor.UserID,
	})
	if err != nil {
		s.audit.Log(ctx, "note.create", actor, AuditFailure, "note", err)
		return model.Note{}, err
	}

	s.audit.Log(ctx, "note.create", actor, AuditSuccess, noteResource(note.ID), nil)
	return note, nil
}

// ListOwn returns the caller's active notes.
func (s *NoteService) ListOwn(ctx context.Context, actor auth.Identity) ([]model.Note, error) {
	return s.notes.ListActiveByOwner(ctx, actor.UserID)
}

// Get returns an active note owned by the caller. Admins may read any active note.
func (s *NoteService) Get(ctx context.Context, actor auth.Identity, id int64) (model.Note, error) {
	note, err := s.notes.FindByID(ctx, id)
	if err != nil {
		return model.Note{}, err
	}
	if note.IsDeleted {
		return model.Note{}, model.ErrNoteNotFound
	}
	if note.OwnerID != actor.UserID {
		if _, err := auth.Authorize(actor, model.RoleAdmin); err != nil {
			return model.Note{}, model.ErrNoteNotFound
		}
		s.audit.Log(ctx, "note.read", actor, AuditSuccess, noteResource(id), nil, "owner_id", note.OwnerID)
	}
	return note, nil
}

// Update applies a partial edit to an active note owned by the caller.
func (s *NoteService) Update(ctx context.Context, actor auth.Identity, id int64, req model.UpdateNoteRequest) (model.Note, error) {
	if err := req.Validate(); err != nil {
		return model.Note{}, err
	}

	note, err := s.ownedActive(ctx, actor, id)
	if err != nil {
		s.audit.Log(ctx, "note.update", actor, AuditFailure, noteResource(id), err)
		return model.Note{}, err
	}

	if req.Title != nil {
		note.Title = strings.TrimSpace(*req.Title)
	}
	if req.Body != nil {
		note.Body = *req.Body
	}

	updated, err := s.notes.Update(ctx, note)
	if err != nil {
		s.audit.Log(ctx, "note.update", actor, AuditFailure, noteResource(id), err)
		return model.Note{}, err
	}

	s.audit.Log(ctx, "note.update", actor, AuditSuccess, noteResource(id), nil)
	return updated, nil
}

// Delete soft-deletes an active note owned by the caller.
func (s *NoteService) Delete(ctx context.Context, actor auth.Identity, id int64) error {
	if _, err := s.ownedActive(ctx, actor, id); err != nil {
		s.audit.Log(ctx, "note.delete", actor, AuditFailure, noteResource(id), err)
		return err
	}

	if _, err := s.notes.SetDeleted(ctx, id, true); err != nil {
		s.audit.Log(ctx, "note.delete", actor, AuditFailure, noteResource(id), err)
		return err
	}

	s.audit.Log(ctx, "note.delete", actor, AuditSuccess, noteResource(id), nil)
	return nil
}

// AdminListAll returns every active note.
func (s *NoteService) AdminListAll(ctx context.Context, actor auth.Identity) ([]model.Note, error) {
	if _, err := auth.Authorize(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	return s.notes.ListActive(ctx)
}

// AdminListByUser returns all notes of one user, deleted ones included.
func (s *NoteService) AdminListByUser(ctx context.Context, actor auth.Identity, userID int64) ([]model.Note, error) {
	if _, err := auth.Authorize(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.notes.ListByOwner(ctx, userID)
}

// AdminRestore moves a deleted note back to active. Restoring an active note fails
// with model.ErrNoteNotDeleted.
func (s *NoteService) AdminRestore(ctx context.Context, actor auth.Identity, id int64) (model.Note, error) {
	if _, err := auth.Authorize(actor, model.RoleAdmin); err != nil {
		return model.Note{}, err
	}

	note, err := s.notes.FindByID(ctx, id)
	if err != nil {
		s.audit.Log(ctx, "note.restore", actor, AuditFailure, noteResource(id), err)
		return model.Note{}, err
	}
	if !note.IsDeleted {
		s.audit.Log(ctx, "note.restore", actor, AuditFailure, noteResource(id), model.ErrNoteNotDeleted)
		return model.Note{}, model.ErrNoteNotDeleted
	}

	restored, err := s.notes.SetDeleted(ctx, id, false)
	if errors.Is(err, model.ErrNoteNotFound) {
		// Restored concurrently.
		err = model.ErrNoteNotDeleted
	}
	if err != nil {
		s.audit.Log(ctx, "note.restore", actor, AuditFailure, noteResource(id), err)
		return model.Note{}, err
	}

	s.audit.Log(ctx, "note.restore", actor, AuditSuccess, noteResource(id), nil, "owner_id", restored.OwnerID)
	return restored, nil
}

func (s *NoteService) ownedActive(ctx context.Context, actor auth.Identity, id int64) (model.Note, error) {
	note, err := s.notes.FindByID(ctx, id)
	if err != nil {
		return model.Note{}, err
	}
	if note.IsDeleted || note.OwnerID != actor.UserID {
		return model.Note{}, model.ErrNoteNotFound
	}
	return note, nil
}

func noteResource(id int64) string {
	return "note:" + strconv.FormatInt(id, 10)
}
