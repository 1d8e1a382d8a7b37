package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
)

// TaskFilter narrows List and Count. Zero value matches every task.
type TaskFilter struct {
	// OwnerID restricts results to one owner when set.
	OwnerID *uuid.UUID

	// Completed restricts results by completion state when set.
	Completed *bool

	// IncludeOwner attaches an OwnerSummary to each listed task.
	IncludeOwner bool
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List returns tasks matching filter, newest first.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// Update persists title, description, completed and updated_at.
	// Returns ErrTaskNotFound if the task no longer exists.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of tasks matching filter.
	Count(ctx context.Context, filter TaskFilter) (int64, error)
}
