package handler

import (
	"net/http"

	"go-notes-api/internal/model"
	"go-notes-api/internal/service"
	"go-notes-api/pkg/apierror"
)

// AdminHandler serves the /admin routes. The router guards them with
// RequireRole(Admin); the services check the role again.
type AdminHandler struct {
	notes *service.NoteService
	users *service.UserService
}

func NewAdminHandler(notes *service.NoteService, users *service.UserService) *AdminHandler {
	return &AdminHandler{notes: notes, users: users}
}

func (h *AdminHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	notes, err := h.notes.AdminListAll(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.NoteList{Notes: notes}, &model.Meta{Total: len(notes)})
}

func (h *AdminHandler) ListUserNotes(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	notes, err := h.notes.AdminListByUser(r.Context(), identity, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.NoteList{Notes: notes}, &model.Meta{Total: len(notes)})
}

func (h *AdminHandler) RestoreNote(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	note, err := h.notes.AdminRestore(r.Context(), identity, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, note, nil)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	public := make([]model.AuthUser, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}
	writeSuccess(w, http.StatusOK, model.AuthUserList{Users: public}, &model.Meta{Total: len(public)})
}

func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.UpdateRoleRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}
	role, ok := model.ParseRole(payload.Role)
	if !ok {
		writeError(w, apierror.BadRequest("role must be User or Admin", "role"))
		return
	}

	user, err := h.users.UpdateRole(r.Context(), identity, userID, role)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user.Public(), nil)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.Delete(r.Context(), identity, userID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}
