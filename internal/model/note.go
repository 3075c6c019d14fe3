package model

import "time"

const (
	MaxNoteTitleLength = 256
	MaxNoteBodyLength  = 65536
)

// Note is owned by exactly one user. IsDeleted marks a soft-deleted note that only
// an Admin can see (through a user's full listing) and restore.
type Note struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	OwnerID   int64     `json:"owner_id"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NoteList struct {
	Notes []Note `json:"notes"`
}
