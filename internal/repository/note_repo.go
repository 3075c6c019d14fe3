package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"go-notes-api/internal/model"
)

type NoteRepository struct {
	db DBTX
}

func NewNoteRepository(db DBTX) *NoteRepository {
	return &NoteRepository{db: db}
}

const noteColumns = `id, title, body, owner_id, is_deleted, created_at, updated_at`

func scanNote(row pgx.Row) (model.Note, error) {
	var n model.Note
	err := row.Scan(&n.ID, &n.Title, &n.Body, &n.OwnerID, &n.IsDeleted, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

func (r *NoteRepository) Create(ctx context.Context, n model.Note) (model.Note, error) {
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now
	n.IsDeleted = false

	err := r.db.QueryRow(ctx,
		`INSERT INTO notes (title, body, owner_id, is_deleted, created_at, updated_at)
		 VALUES ($1, $2, $3, false, $4, $5)
		 RETURNING id`,
		n.Title, n.Body, n.OwnerID, n.CreatedAt, n.UpdatedAt).Scan(&n.ID)
	if err != nil {
		return model.Note{}, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}

// FindByID returns the note regardless of its deleted flag.
func (r *NoteRepository) FindByID(ctx context.Context, id int64) (model.Note, error) {
	n, err := scanNote(r.db.QueryRow(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Note{}, model.ErrNoteNotFound
	}
	if err != nil {
		return model.Note{}, fmt.Errorf("find note: %w", err)
	}
	return n, nil
}

// ListActiveByOwner returns the owner's notes that are not soft-deleted.
func (r *NoteRepository) ListActiveByOwner(ctx context.Context, ownerID int64) ([]model.Note, error) {
	return r.list(ctx,
		`SELECT `+noteColumns+` FROM notes
		 WHERE owner_id = $1 AND is_deleted = false
		 ORDER BY id`, ownerID)
}

// ListActive returns every note that is not soft-deleted.
func (r *NoteRepository) ListActive(ctx context.Context) ([]model.Note, error) {
	return r.list(ctx,
		`SELECT `+noteColumns+` FROM notes
		 WHERE is_deleted = false
		 ORDER BY id`)
}

// ListByOwner returns all of the owner's notes, deleted ones included.
func (r *NoteRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Note, error) {
	return r.list(ctx,
		`SELECT `+noteColumns+` FROM notes
		 WHERE owner_id = $1
		 ORDER BY id`, ownerID)
}

// Update writes title and body of an active note.
func (r *NoteRepository) Update(ctx context.Context, n model.Note) (model.Note, error) {
	updated, err := scanNote(r.db.QueryRow(ctx,
		`UPDATE notes SET title = $2, body = $3, updated_at = $4
		 WHERE id = $1 AND is_deleted = false
		 RETURNING `+noteColumns,
		n.ID, n.Title, n.Body, time.Now().UTC()))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Note{}, model.ErrNoteNotFound
	}
	if err != nil {
		return model.Note{}, fmt.Errorf("update note: %w", err)
	}
	return updated, nil
}

// SetDeleted moves a note between the active and deleted states. The transition only
// applies when the note is currently in the opposite state; otherwise
// model.ErrNoteNotFound is returned and nothing changes.
func (r *NoteRepository) SetDeleted(ctx context.Context, id int64, deleted bool) (model.Note, error) {
	n, err := scanNote(r.db.QueryRow(ctx,
		`UPDATE notes SET is_deleted = $2, updated_at = $3
		 WHERE id = $1 AND is_deleted = $4
		 RETURNING `+noteColumns,
		id, deleted, time.Now().UTC(), !deleted))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Note{}, model.ErrNoteNotFound
	}
	if err != nil {
		return model.Note{}, fmt.Errorf("set note deleted: %w", err)
	}
	return n, nil
}

func (r *NoteRepository) list(ctx context.Context, query string, args ...any) ([]model.Note, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]model.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
