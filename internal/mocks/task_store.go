package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/store"
)

// MockTaskStore implements store.TaskStore in memory for testing.
// Owner summaries are resolved through Users when it is set.
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn  func(ctx context.Context, task *domain.Task) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListFn    func(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error)
	UpdateFn  func(ctx context.Context, task *domain.Task) error
	DeleteFn  func(ctx context.Context, id uuid.UUID) error
	CountFn   func(ctx context.Context, filter store.TaskFilter) (int64, error)

	Users *MockUserStore

	mu    sync.RWMutex
	tasks map[uuid.UUID]*domain.Task
}

// NewMockTaskStore creates a new empty mock store. users may be nil.
func NewMockTaskStore(users *MockUserStore) *MockTaskStore {
	return &MockTaskStore{
		Users: users,
		tasks: make(map[uuid.UUID]*domain.Task),
	}
}

var _ store.TaskStore = (*MockTaskStore)(nil)

func copyTask(t *domain.Task) *domain.Task {
	c := *t
	c.Owner = nil
	return &c
}

func matches(t *domain.Task, filter store.TaskFilter) bool {
	if filter.OwnerID != nil && t.OwnerID != *filter.OwnerID {
		return false
	}
	if filter.Completed != nil && t.Completed != *filter.Completed {
		return false
	}
	return true
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	if m.Users != nil {
		if _, err := m.Users.GetByID(ctx, task.OwnerID); err != nil {
			return store.ErrInvalidEntity
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[task.ID] = copyTask(task)
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	task, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return copyTask(task), nil
}

// List implements the TaskStore interface, newest first.
func (m *MockTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}

	m.mu.RLock()
	result := make([]*domain.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		if matches(task, filter) {
			result = append(result, copyTask(task))
		}
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID.String() > result[j].ID.String()
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter.IncludeOwner && m.Users != nil {
		for _, task := range result {
			if owner, err := m.Users.GetByID(ctx, task.OwnerID); err == nil {
				task.Owner = &domain.OwnerSummary{ID: owner.ID, Email: owner.Email, Role: owner.Role}
			}
		}
	}

	return result, nil
}

// Update implements the TaskStore interface. The owner is never changed.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.tasks[task.ID]
	if !ok {
		return store.ErrTaskNotFound
	}
	updated := copyTask(task)
	updated.OwnerID = existing.OwnerID
	updated.CreatedAt = existing.CreatedAt
	m.tasks[task.ID] = updated
	return nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// Count implements the TaskStore interface
func (m *MockTaskStore) Count(ctx context.Context, filter store.TaskFilter) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, filter)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, task := range m.tasks {
		if matches(task, filter) {
			n++
		}
	}
	return n, nil
}

// Put stores task directly. Intended for test setup.
func (m *MockTaskStore) Put(task *domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[task.ID] = copyTask(task)
}
