package events

import (
	"context"
	"log/slog"

	"github.com/phrazzld/taskr-api/internal/platform/logger"
)

// AuditLogHandler writes each task event to the request-scoped logger, so
// audit lines carry the trace_id of the request that caused them.
type AuditLogHandler struct {
	fallback *slog.Logger
}

// NewAuditLogHandler creates an AuditLogHandler. fallback is used when the
// context carries no logger.
func NewAuditLogHandler(fallback *slog.Logger) *AuditLogHandler {
	if fallback == nil {
		fallback = slog.Default()
	}
	return &AuditLogHandler{fallback: fallback}
}

// HandleEvent implements EventHandler.
func (h *AuditLogHandler) HandleEvent(ctx context.Context, event *TaskEvent) error {
	logger.FromContextOrDefault(ctx, h.fallback).Info("task audit",
		"event_id", event.ID,
		"event_type", event.Type,
		"task_id", event.TaskID,
		"owner_id", event.OwnerID,
		"actor_id", event.ActorID)
	return nil
}
