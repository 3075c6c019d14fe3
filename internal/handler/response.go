package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"go-notes-api/internal/auth"
	"go-notes-api/internal/middleware"
	"go-notes-api/internal/model"
	"go-notes-api/pkg/apierror"
)

const maxBodyBytes = 1 << 20

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	} else if errors.Is(err, auth.ErrUnavailable) {
		status = http.StatusServiceUnavailable
		body.Code = "UNAVAILABLE"
		body.Message = "Service temporarily unavailable"
		w.Header().Set("Retry-After", middleware.UnavailableRetryAfter)
		slog.Error("credential store unavailable", "error", err.Error())
	} else if errors.Is(err, auth.ErrInvalidCredential) {
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Invalid credentials"
		w.Header().Set("WWW-Authenticate", "Bearer")
	} else if errors.Is(err, auth.ErrForbidden) {
		status = http.StatusForbidden
		body.Code = "FORBIDDEN"
		body.Message = "Access denied"
	} else if errors.Is(err, auth.ErrConflict) || errors.Is(err, model.ErrUserAlreadyExists) {
		status = http.StatusConflict
		body.Code = "ALREADY_EXISTS"
		body.Message = "Username already taken"
	} else if errors.Is(err, model.ErrSelfModification) {
		status = http.StatusConflict
		body.Code = "CONFLICT"
		body.Message = "Cannot change own account"
	} else if errors.Is(err, model.ErrNoteNotDeleted) {
		status = http.StatusConflict
		body.Code = "NOT_DELETED"
		body.Message = "Note is not deleted"
	} else if errors.Is(err, model.ErrNoteNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Note not found"
	} else if errors.Is(err, model.ErrUserNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "User not found"
	} else if errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
		body.Details = strings.TrimPrefix(err.Error(), model.ErrInvalidInput.Error()+": ")
	} else {
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierror.BadRequest("invalid JSON body", "")
	}
	return nil
}

func isFormRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

// identityFromRequest returns the identity RequireAuth attached to the request.
func identityFromRequest(r *http.Request) (auth.Identity, error) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return auth.Identity{}, auth.ErrInvalidCredential
	}
	return identity, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.BadRequest("invalid "+name, name)
	}
	return id, nil
}
