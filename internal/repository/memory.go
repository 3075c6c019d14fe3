package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go-notes-api/internal/model"
)

// MemoryStore keeps users and notes in process memory. It honours the same contracts
// as the Postgres repositories (case-insensitive unique usernames, cascade on user
// delete, conditional soft-delete transitions) and backs tests and local runs.
type MemoryStore struct {
	mu         sync.Mutex
	users      map[int64]model.User
	notes      map[int64]model.Note
	nextUserID int64
	nextNoteID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: map[int64]model.User{},
		notes: map[int64]model.Note{},
	}
}

func (s *MemoryStore) Users() *MemoryUserRepository {
	return &MemoryUserRepository{store: s}
}

func (s *MemoryStore) Notes() *MemoryNoteRepository {
	return &MemoryNoteRepository{store: s}
}

type MemoryUserRepository struct {
	store *MemoryStore
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id int64) (model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.findByUsernameLocked(username)
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, u model.User) (model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.findByUsernameLocked(u.Username); exists {
		return model.User{}, model.ErrUserAlreadyExists
	}

	r.store.nextUserID++
	u.ID = r.store.nextUserID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.UpdatedAt = u.CreatedAt
	r.store.users[u.ID] = u
	return u, nil
}

func (r *MemoryUserRepository) UpdateRole(_ context.Context, id int64, role model.Role) (model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now().UTC()
	r.store.users[id] = u
	return u, nil
}

func (r *MemoryUserRepository) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	r.store.users[id] = u
	return nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(r.store.users, id)
	for noteID, n := range r.store.notes {
		if n.OwnerID == id {
			delete(r.store.notes, noteID)
		}
	}
	return nil
}

func (r *MemoryUserRepository) List(_ context.Context) ([]model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	users := make([]model.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (s *MemoryStore) findByUsernameLocked(username string) (model.User, bool) {
	key := strings.ToLower(strings.TrimSpace(username))
	for _, u := range s.users {
		if strings.ToLower(u.Username) == key {
			return u, true
		}
	}
	return model.User{}, false
}

type MemoryNoteRepository struct {
	store *MemoryStore
}

func (r *MemoryNoteRepository) Create(_ context.Context, n model.Note) (model.Note, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextNoteID++
	now := time.Now().UTC()
	n.ID = r.store.nextNoteID
	n.IsDeleted = false
	n.CreatedAt = now
	n.UpdatedAt = now
	r.store.notes[n.ID] = n
	return n, nil
}

func (r *MemoryNoteRepository) FindByID(_ context.Context, id int64) (model.Note, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	n, ok := r.store.notes[id]
	if !ok {
		return model.Note{}, model.ErrNoteNotFound
	}
	return n, nil
}

func (r *MemoryNoteRepository) ListActiveByOwner(_ context.Context, ownerID int64) ([]model.Note, error) {
	return r.filter(func(n model.Note) bool { return n.OwnerID == ownerID && !n.IsDeleted }), nil
}

func (r *MemoryNoteRepository) ListActive(_ context.Context) ([]model.Note, error) {
	return r.filter(func(n model.Note) bool { return !n.IsDeleted }), nil
}

func (r *MemoryNoteRepository) ListByOwner(_ context.Context, ownerID int64) ([]model.Note, error) {
	return r.filter(func(n model.Note) bool { return n.OwnerID == ownerID }), nil
}

func (r *MemoryNoteRepository) Update(_ context.Context, n model.Note) (model.Note, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.notes[n.ID]
	if !ok || current.IsDeleted {
		return model.Note{}, model.ErrNoteNotFound
	}
	current.Title = n.Title
	current.Body = n.Body
	current.UpdatedAt = time.Now().UTC()
	r.store.notes[n.ID] = current
	return current, nil
}

func (r *MemoryNoteRepository) SetDeleted(_ context.Context, id int64, deleted bool) (model.Note, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.notes[id]
	if !ok || current.IsDeleted == deleted {
		return model.Note{}, model.ErrNoteNotFound
	}
	current.IsDeleted = deleted
	current.UpdatedAt = time.Now().UTC()
	r.store.notes[id] = current
	return current, nil
}

func (r *MemoryNoteRepository) filter(keep func(model.Note) bool) []model.Note {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	notes := make([]model.Note, 0)
	for _, n := range r.store.notes {
		if keep(n) {
			notes = append(notes, n)
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })
	return notes
}
