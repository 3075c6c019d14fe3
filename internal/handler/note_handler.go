package handler

import (
	"net/http"

	"go-notes-api/internal/model"
	"go-notes-api/internal/service"
)

type NoteHandler struct {
	service *service.NoteService
}

func NewNoteHandler(service *service.NoteService) *NoteHandler {
	return &NoteHandler{service: service}
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.CreateNoteRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	note, err := h.service.Create(r.Context(), identity, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, note, nil)
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	notes, err := h.service.ListOwn(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.NoteList{Notes: notes}, &model.Meta{Total: len(notes)})
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	note, err := h.service.Get(r.Context(), identity, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, note, nil)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

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

	var payload model.UpdateNoteRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	note, err := h.service.Update(r.Context(), identity, id, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, note, nil)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.Delete(r.Context(), identity, id); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}
