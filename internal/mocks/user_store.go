package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/store"
)

// MockUserStore implements store.UserStore in memory for testing.
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateFn     func(ctx context.Context, user *domain.User) error
	CountFn      func(ctx context.Context) (int64, error)

	mu    sync.RWMutex
	users map[string]*domain.User // keyed by normalized email
}

// NewMockUserStore creates a new empty mock store.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		users: make(map[string]*domain.User),
	}
}

var _ store.UserStore = (*MockUserStore)(nil)

func copyUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := domain.NormalizeEmail(user.Email)
	if _, exists := m.users[key]; exists {
		return store.ErrEmailExists
	}

	m.users[key] = copyUser(user)
	return nil
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.users[domain.NormalizeEmail(email)]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	return copyUser(user), nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.ID == id {
			return copyUser(user), nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Update implements the UserStore interface. Only role and password hash change.
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.ID == user.ID {
			existing.Role = user.Role
			existing.HashedPassword = user.HashedPassword
			existing.UpdatedAt = user.UpdatedAt
			return nil
		}
	}
	return store.ErrUserNotFound
}

// Count implements the UserStore interface
func (m *MockUserStore) Count(ctx context.Context) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

// Put stores user directly, bypassing duplicate checks. Intended for test setup.
func (m *MockUserStore) Put(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[domain.NormalizeEmail(user.Email)] = copyUser(user)
}
