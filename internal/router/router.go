package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-notes-api/internal/config"
	"go-notes-api/internal/handler"
	"go-notes-api/internal/metrics"
	"go-notes-api/internal/middleware"
	"go-notes-api/internal/model"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	Note   *handler.NoteHandler
	Admin  *handler.AdminHandler
	Health *handler.HealthHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.RealIP(cfg.TrustedProxies))
	r.Use(middleware.Logging(m))
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", h.Health.Health)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	anyRole := authMiddleware.RequireRole(model.RoleUser, model.RoleAdmin)
	adminOnly := authMiddleware.RequireRole(model.RoleAdmin)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", h.Auth.Register)
			auth.Post("/login", h.Auth.Login)
			auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
		})

		api.Route("/notes", func(notes chi.Router) {
			notes.Use(authMiddleware.RequireAuth, anyRole)

			notes.Post("/", h.Note.Create)
			notes.Get("/", h.Note.List)
			notes.Get("/{id}", h.Note.Get)
			notes.Put("/{id}", h.Note.Update)
			notes.Delete("/{id}", h.Note.Delete)
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(authMiddleware.RequireAuth, adminOnly)

			admin.Get("/notes", h.Admin.ListNotes)
			admin.Post("/notes/{id}/restore", h.Admin.RestoreNote)
			admin.Get("/users", h.Admin.ListUsers)
			admin.Get("/users/{id}/notes", h.Admin.ListUserNotes)
			admin.Put("/users/{id}/role", h.Admin.UpdateUserRole)
			admin.Delete("/users/{id}", h.Admin.DeleteUser)
		})
	})

	return r
}
