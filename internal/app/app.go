package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"go-notes-api/internal/auth"
	"go-notes-api/internal/config"
	"go-notes-api/internal/database"
	"go-notes-api/internal/handler"
	"go-notes-api/internal/metrics"
	"go-notes-api/internal/middleware"
	"go-notes-api/internal/model"
	"go-notes-api/internal/repository"
	"go-notes-api/internal/router"
	"go-notes-api/internal/service"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	hasher, err := auth.NewPasswordHasher(cfg.HashCost)
	if err != nil {
		return nil, err
	}
	tokenCfg, err := auth.NewTokenConfig(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTIssuer)
	if err != nil {
		return nil, err
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, database.Options{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	userRepo := repository.NewUserRepository(db.Pool)
	noteRepo := repository.NewNoteRepository(db.Pool)
	slog.Info("database ready")

	m := metrics.New()
	audit := service.NewAuditService(slog.Default())
	userService := service.NewUserService(userRepo, hasher, audit)
	authService := service.NewAuthService(userRepo, userService, hasher, tokenCfg, m)
	noteService := service.NewNoteService(noteRepo, userRepo, audit)

	if err := bootstrapAdmin(ctx, userService, cfg); err != nil {
		db.Close()
		return nil, err
	}

	appRouter := router.New(cfg, middleware.NewAuthMiddleware(authService, m), router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Note:   handler.NewNoteHandler(noteService),
		Admin:  handler.NewAdminHandler(noteService, userService),
		Health: handler.NewHealthHandler(db),
	}, m)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			db.Close,
		},
	}, nil
}

// bootstrapAdmin creates or promotes the account named by ADMIN_USERNAME.
func bootstrapAdmin(ctx context.Context, users *service.UserService, cfg *config.Config) error {
	if cfg.AdminUsername == "" {
		return nil
	}

	user, created, err := users.EnsureUser(ctx, cfg.AdminUsername, cfg.AdminPassword, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	if created {
		slog.Info("bootstrap admin created", "user_id", user.ID, "username", user.Username)
	}
	return nil
}

// Run serves until SIGINT/SIGTERM or a server failure, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}
