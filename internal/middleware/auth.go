package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go-notes-api/internal/auth"
	"go-notes-api/internal/metrics"
	"go-notes-api/internal/model"
)

// UnavailableRetryAfter is the Retry-After value, in seconds, sent with 503s.
const UnavailableRetryAfter = "5"

type identityResolver interface {
	Resolve(ctx context.Context, token string) (auth.Identity, error)
}

type AuthMiddleware struct {
	resolver identityResolver
	metrics  *metrics.Metrics
}

func NewAuthMiddleware(resolver identityResolver, m *metrics.Metrics) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver, metrics: m}
}

// RequireAuth resolves the bearer token into an auth.Identity and stores it in the
// request context. Every credential problem yields the same 401 body; the reason
// is only logged at debug level.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.resolver.Resolve(r.Context(), bearerToken(r))
		if err != nil {
			m.deny(w, r, err)
			return
		}

		setRequestUser(r.Context(), identity.Username)
		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
	})
}

// RequireRole admits identities whose role is exactly one of allowed. It must run
// after RequireAuth.
func (m *AuthMiddleware) RequireRole(allowed ...model.Role) func(http.Handler) http.Handler {
	roles := append([]model.Role(nil), allowed...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, _ := auth.IdentityFromContext(r.Context())
			if _, err := auth.Authorize(identity, roles...); err != nil {
				m.deny(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (m *AuthMiddleware) deny(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrForbidden):
		m.metrics.AuthDenied(http.StatusForbidden, "role")
		slog.DebugContext(r.Context(), "access denied", "error", err)
		writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "Access denied")

	case errors.Is(err, auth.ErrInvalidCredential):
		reason := auth.RejectionReason(err)
		m.metrics.AuthDenied(http.StatusUnauthorized, reason)
		slog.DebugContext(r.Context(), "credential rejected", "reason", reason)
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing credentials")

	default:
		m.metrics.AuthDenied(http.StatusServiceUnavailable, "store")
		slog.ErrorContext(r.Context(), "identity resolution failed", "error", err)
		w.Header().Set("Retry-After", UnavailableRetryAfter)
		writeJSONError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Service temporarily unavailable")
	}
}

// bearerToken returns the token of an "Authorization: Bearer <token>" header, or ""
// when the header is absent or uses another scheme.
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
