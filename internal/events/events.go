package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
)

// Task lifecycle event types.
const (
	TaskCreated = "task.created"
	TaskUpdated = "task.updated"
	TaskDeleted = "task.deleted"
)

// TaskEvent records a change made to a task by an authenticated caller.
type TaskEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of TaskCreated, TaskUpdated or TaskDeleted
	Type string `json:"type"`

	TaskID  uuid.UUID `json:"task_id"`
	OwnerID uuid.UUID `json:"owner_id"`

	// ActorID is the user who made the change. It differs from OwnerID
	// when an administrator acts on another user's task.
	ActorID uuid.UUID `json:"actor_id"`

	OccurredAt time.Time `json:"occurred_at"`
}

// NewTaskEvent creates an event of eventType for task, performed by actorID.
func NewTaskEvent(eventType string, task *domain.Task, actorID uuid.UUID) *TaskEvent {
	return &TaskEvent{
		ID:         uuid.New(),
		Type:       eventType,
		TaskID:     task.ID,
		OwnerID:    task.OwnerID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *TaskEvent) error
}
