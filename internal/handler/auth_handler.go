package handler

import (
	"net/http"

	"go-notes-api/internal/model"
	"go-notes-api/internal/service"
	"go-notes-api/pkg/apierror"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login accepts either a JSON body or an OAuth2-style form
// (username=...&password=...).
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if isFormRequest(r) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			writeError(w, apierror.BadRequest("invalid form body", ""))
			return
		}
		payload.Username = r.PostForm.Get("username")
		payload.Password = r.PostForm.Get("password")
	} else if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if payload.Username == "" || payload.Password == "" {
		writeError(w, apierror.BadRequest("username and password are required", ""))
		return
	}

	token, err := h.service.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, token, nil)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, user.Public(), nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.AuthUser{
		ID:       identity.UserID,
		Username: identity.Username,
		Role:     identity.Role,
	}, nil)
}
