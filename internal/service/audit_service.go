package service

import (
	"context"
	"log/slog"

	"go-notes-api/internal/auth"
)

const (
	AuditSuccess = "success"
	AuditFailure = "failure"
)

// AuditService records who did what to which resource. Entries go to the structured
// logger under the "audit" group.
type AuditService struct {
	log *slog.Logger
}

func NewAuditService(log *slog.Logger) *AuditService {
	if log == nil {
		log = slog.Default()
	}
	return &AuditService{log: log}
}

func (s *AuditService) Log(ctx context.Context, action string, actor auth.Identity, status string, resource string, err error, attrs ...any) {
	if s == nil {
		return
	}

	args := []any{
		slog.String("action", action),
		slog.Group("actor",
			slog.Int64("id", actor.UserID),
			slog.String("username", actor.Username),
			slog.String("role", string(actor.Role)),
		),
		slog.String("status", status),
		slog.String("resource", resource),
	}
	if err != nil {
		args = append(args, slog.String("error", err.Error()))
	}
	args = append(args, attrs...)

	level := slog.LevelInfo
	if status != AuditSuccess {
		level = slog.LevelWarn
	}
	s.log.WithGroup("audit").Log(ctx, level, "audit", args...)
}
