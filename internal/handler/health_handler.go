package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go-notes-api/internal/auth"
)

const healthTimeout = 2 * time.Second

type Pinger interface {
	Health(ctx context.Context) error
}

// HealthHandler reports liveness plus database reachability. A nil Pinger means
// the process runs without a database.
type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"}, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.db.Health(ctx); err != nil {
		writeError(w, fmt.Errorf("%w: health check: %w", auth.ErrUnavailable, err))
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok", "database": "up"}, nil)
}
