package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/events"
	"github.com/phrazzld/taskr-api/internal/mocks"
	"github.com/phrazzld/taskr-api/internal/service"
	"github.com/phrazzld/taskr-api/internal/service/authz"
	"github.com/phrazzld/taskr-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taskFixture struct {
	users *mocks.MockUserStore
	tasks *mocks.MockTaskStore
	svc   *service.TaskServiceImpl
	audit *eventRecorder
	owner authz.Identity
	other authz.Identity
	admin authz.Identity
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()

	users := mocks.NewMockUserStore()
	tasks := mocks.NewMockTaskStore(users)
	audit := &eventRecorder{}
	emitter := events.NewInMemoryEventEmitter(quietLogger())
	emitter.RegisterHandler(audit)

	identity := func(email string, role domain.Role) authz.Identity {
		u, err := domain.NewUser(email, "hashed:pw", role)
		require.NoError(t, err)
		users.Put(u)
		return authz.Identity{UserID: u.ID, Role: role}
	}

	return &taskFixture{
		users: users,
		tasks: tasks,
		svc:   service.NewTaskService(tasks, emitter, quietLogger()),
		audit: audit,
		owner: identity("owner@x.com", domain.RoleUser),
		other: identity("other@x.com", domain.RoleUser),
		admin: identity("admin@x.com", domain.RoleAdmin),
	}
}

func (f *taskFixture) create(t *testing.T, id authz.Identity, title string) *domain.Task {
	t.Helper()
	task, err := f.svc.CreateTask(context.Background(), id, service.CreateTaskInput{Title: title, Description: "desc"})
	require.NoError(t, err)
	return task
}

// eventRecorder collects published task events.
type eventRecorder struct {
	events []*events.TaskEvent
	err    error
}

func (r *eventRecorder) HandleEvent(_ context.Context, event *events.TaskEvent) error {
	r.events = append(r.events, event)
	return r.err
}

func (r *eventRecorder) types() []string {
	types := make([]string, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestTaskService_CreateTask(t *testing.T) {
	f := newTaskFixture(t)

	task := f.create(t, f.owner, "  Buy milk ")
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, f.owner.UserID, task.OwnerID)
	assert.False(t, task.Completed)

	_, err := f.svc.CreateTask(context.Background(), f.owner, service.CreateTaskInput{Title: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTaskService_ListTasks(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	first := f.create(t, f.owner, "first")
	time.Sleep(time.Millisecond)
	second := f.create(t, f.owner, "second")
	foreign := f.create(t, f.other, "foreign")

	own, err := f.svc.ListTasks(ctx, f.owner)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, second.ID, own[0].ID)
	assert.Equal(t, first.ID, own[1].ID)
	for _, task := range own {
		assert.Equal(t, f.owner.UserID, task.OwnerID)
		assert.Nil(t, task.Owner)
	}

	all, err := f.svc.ListTasks(ctx, f.admin)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, foreign.ID, all[0].ID)
	for _, task := range all {
		require.NotNil(t, task.Owner, "admin listing carries owner summary")
		assert.Equal(t, task.OwnerID, task.Owner.ID)
	}

	listErr := errors.New("list failed")
	f.tasks.ListFn = func(context.Context, store.TaskFilter) ([]*domain.Task, error) { return nil, listErr }
	_, err = f.svc.ListTasks(ctx, f.owner)
	assert.ErrorIs(t, err, listErr)
}

func TestTaskService_UpdateTask(t *testing.T) {
	ctx := context.Background()

	t.Run("authorization matrix", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.create(t, f.owner, "title")

		tests := []struct {
			name    string
			caller  authz.Identity
			wantErr error
		}{
			{"owner", f.owner, nil},
			{"admin", f.admin, nil},
			{"other user", f.other, authz.ErrForbidden},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := f.svc.UpdateTask(ctx, tt.caller, task.ID, domain.TaskUpdate{Completed: boolPtr(true)})
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.NoError(t, err)
				}
			})
		}
	})

	t.Run("partial update is idempotent", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.create(t, f.owner, "title")

		for i := 0; i < 2; i++ {
			updated, err := f.svc.UpdateTask(ctx, f.owner, task.ID, domain.TaskUpdate{Completed: boolPtr(true)})
			require.NoError(t, err)
			assert.True(t, updated.Completed)
			assert.Equal(t, "title", updated.Title)
			assert.Equal(t, "desc", updated.Description)
		}
	})

	t.Run("empty update returns stored task without writing", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.create(t, f.owner, "title")
		f.tasks.UpdateFn = func(context.Context, *domain.Task) error {
			t.Fatal("Update must not be called for an empty update")
			return nil
		}

		got, err := f.svc.UpdateTask(ctx, f.owner, task.ID, domain.TaskUpdate{})
		require.NoError(t, err)
		assert.Equal(t, task.Title, got.Title)
		assert.Equal(t, task.UpdatedAt, got.UpdatedAt)
	})

	t.Run("missing task is not found even for non-owner", func(t *testing.T) {
		f := newTaskFixture(t)
		_, err := f.svc.UpdateTask(ctx, f.other, uuid.New(), domain.TaskUpdate{Title: strPtr("x")})
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.NotErrorIs(t, err, authz.ErrForbidden)
	})

	t.Run("invalid field is rejected and nothing is saved", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.create(t, f.owner, "title")

		_, err := f.svc.UpdateTask(ctx, f.owner, task.ID, domain.TaskUpdate{Title: strPtr(" ")})
		assert.ErrorIs(t, err, domain.ErrValidation)

		stored, err := f.tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "title", stored.Title)
	})

	t.Run("task deleted between fetch and save", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.create(t, f.owner, "title")
		f.tasks.UpdateFn = func(context.Context, *domain.Task) error { return store.ErrTaskNotFound }

		_, err := f.svc.UpdateTask(ctx, f.owner, task.ID, domain.TaskUpdate{Completed: boolPtr(true)})
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskService_DeleteTask(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)

	mine := f.create(t, f.owner, "mine")
	assert.ErrorIs(t, f.svc.DeleteTask(ctx, f.other, mine.ID), authz.ErrForbidden)
	require.NoError(t, f.svc.DeleteTask(ctx, f.owner, mine.ID))
	assert.ErrorIs(t, f.svc.DeleteTask(ctx, f.owner, mine.ID), store.ErrTaskNotFound)

	byAdmin := f.create(t, f.owner, "admin removes")
	require.NoError(t, f.svc.DeleteTask(ctx, f.admin, byAdmin.ID))

	assert.ErrorIs(t, f.svc.DeleteTask(ctx, f.other, uuid.New()), store.ErrTaskNotFound)
}

func TestTaskService_PublishesLifecycleEvents(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task := f.create(t, f.owner, "audited")
	_, err := f.svc.UpdateTask(ctx, f.admin, task.ID, domain.TaskUpdate{Completed: boolPtr(true)})
	require.NoError(t, err)

	// Empty updates and rejected calls change nothing and publish nothing.
	_, err = f.svc.UpdateTask(ctx, f.owner, task.ID, domain.TaskUpdate{})
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.DeleteTask(ctx, f.other, task.ID), authz.ErrForbidden)

	require.NoError(t, f.svc.DeleteTask(ctx, f.owner, task.ID))

	assert.Equal(t, []string{events.TaskCreated, events.TaskUpdated, events.TaskDeleted}, f.audit.types())
	updated := f.audit.events[1]
	assert.Equal(t, task.ID, updated.TaskID)
	assert.Equal(t, f.owner.UserID, updated.OwnerID)
	assert.Equal(t, f.admin.UserID, updated.ActorID)
}

func TestTaskService_EventFailureDoesNotFailRequest(t *testing.T) {
	f := newTaskFixture(t)
	f.audit.err = errors.New("audit sink down")

	task := f.create(t, f.owner, "still saved")

	stored, err := f.tasks.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "still saved", stored.Title)
	assert.Len(t, f.audit.events, 1)
}
