package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/events"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
	"github.com/phrazzld/taskr-api/internal/service/authz"
	"github.com/phrazzld/taskr-api/internal/store"
)

// CreateTaskInput holds validated fields for a new task.
type CreateTaskInput struct {
	Title       string
	Description string
	Completed   bool
}

// TaskService manages tasks on behalf of an authenticated identity.
type TaskService interface {
	// CreateTask creates a task owned by the caller.
	CreateTask(ctx context.Context, id authz.Identity, input CreateTaskInput) (*domain.Task, error)

	// ListTasks returns the caller's tasks, or every task with owner
	// summaries when the caller is an administrator. Newest first.
	ListTasks(ctx context.Context, id authz.Identity) ([]*domain.Task, error)

	// UpdateTask applies a partial update. Returns store.ErrTaskNotFound
	// before authz.ErrForbidden when both would apply.
	UpdateTask(ctx context.Context, id authz.Identity, taskID uuid.UUID, update domain.TaskUpdate) (*domain.Task, error)

	// DeleteTask removes a task with the same ordering of checks as UpdateTask.
	DeleteTask(ctx context.Context, id authz.Identity, taskID uuid.UUID) error
}

// TaskServiceImpl implements the TaskService interface
type TaskServiceImpl struct {
	taskStore store.TaskStore
	emitter   events.EventEmitter
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService. emitter may be nil, in which
// case no lifecycle events are published.
func NewTaskService(taskStore store.TaskStore, emitter events.EventEmitter, logger *slog.Logger) *TaskServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskServiceImpl{
		taskStore: taskStore,
		emitter:   emitter,
		logger:    logger.With("component", "task_service"),
	}
}

// emit publishes a lifecycle event for a change that has already been
// stored. Handler failures are logged and never fail the request.
func (s *TaskServiceImpl) emit(ctx context.Context, eventType string, task *domain.Task, actorID uuid.UUID) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.EmitEvent(ctx, events.NewTaskEvent(eventType, task, actorID)); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to publish task event",
			"error", err,
			"event_type", eventType,
			"task_id", task.ID)
	}
}

var _ TaskService = (*TaskServiceImpl)(nil)

// CreateTask implements TaskService.
func (s *TaskServiceImpl) CreateTask(
	ctx context.Context,
	id authz.Identity,
	input CreateTaskInput,
) (*domain.Task, error) {
	task, err := domain.NewTask(id.UserID, input.Title, input.Description, input.Completed)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.emit(ctx, events.TaskCreated, task, id.UserID)
	return task, nil
}

// ListTasks implements TaskService.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, id authz.Identity) ([]*domain.Task, error) {
	filter := store.TaskFilter{IncludeOwner: true}
	if !id.IsAdmin() {
		ownerID := id.UserID
		filter = store.TaskFilter{OwnerID: &ownerID}
	}

	tasks, err := s.taskStore.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("tasks listed",
		"count", len(tasks),
		"admin_view", id.IsAdmin())
	return tasks, nil
}

// loadAuthorized fetches a task and checks the caller may modify it.
// Existence is checked first so a missing task is always reported as not found.
func (s *TaskServiceImpl) loadAuthorized(
	ctx context.Context,
	id authz.Identity,
	taskID uuid.UUID,
	action string,
) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := authz.RequireOwnerOrAdmin(id, task.OwnerID); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("task access denied",
			"task_id", taskID,
			"user_id", id.UserID,
			"action", action)
		return nil, err
	}

	return task, nil
}

// UpdateTask implements TaskService.
// An empty update succeeds and returns the stored task untouched.
func (s *TaskServiceImpl) UpdateTask(
	ctx context.Context,
	id authz.Identity,
	taskID uuid.UUID,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	task, err := s.loadAuthorized(ctx, id, taskID, "update")
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if update.IsEmpty() {
		return task, nil
	}

	if err := task.Apply(update); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to save task",
				"error", err,
				"task_id", taskID)
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.emit(ctx, events.TaskUpdated, task, id.UserID)
	return task, nil
}

// DeleteTask implements TaskService.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, id authz.Identity, taskID uuid.UUID) error {
	task, err := s.loadAuthorized(ctx, id, taskID, "delete")
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if err := s.taskStore.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.emit(ctx, events.TaskDeleted, task, id.UserID)
	return nil
}
