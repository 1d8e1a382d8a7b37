package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockTaskStoreHonoursContract(t *testing.T) {
	ctx := context.Background()
	users := NewMockUserStore()
	tasks := NewMockTaskStore(users)

	owner, err := domain.NewUser("owner@example.com", "hashed:pw", domain.RoleUser)
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, owner))
	assert.ErrorIs(t, users.Create(ctx, owner), store.ErrEmailExists)

	older, err := domain.NewTask(owner.ID, "older", "", false)
	require.NoError(t, err)
	older.CreatedAt = older.CreatedAt.Add(-time.Minute)
	newer, err := domain.NewTask(owner.ID, "newer", "", true)
	require.NoError(t, err)
	require.NoError(t, tasks.Create(ctx, older))
	require.NoError(t, tasks.Create(ctx, newer))

	orphan, err := domain.NewTask(uuid.New(), "orphan", "", false)
	require.NoError(t, err)
	assert.ErrorIs(t, tasks.Create(ctx, orphan), store.ErrInvalidEntity)

	listed, err := tasks.List(ctx, store.TaskFilter{IncludeOwner: true})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, newer.ID, listed[0].ID)
	require.NotNil(t, listed[0].Owner)
	assert.Equal(t, "owner@example.com", listed[0].Owner.Email)

	done := true
	n, err := tasks.Count(ctx, store.TaskFilter{Completed: &done})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// Returned tasks are copies.
	got, err := tasks.GetByID(ctx, older.ID)
	require.NoError(t, err)
	got.Title = "mutated"
	again, err := tasks.GetByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "older", again.Title)

	require.NoError(t, tasks.Delete(ctx, older.ID))
	assert.ErrorIs(t, tasks.Delete(ctx, older.ID), store.ErrTaskNotFound)
	assert.ErrorIs(t, tasks.Update(ctx, again), store.ErrTaskNotFound)
}

func TestMockPasswordHasher(t *testing.T) {
	h := &MockPasswordHasher{}
	hashed, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NoError(t, h.Compare(hashed, "secret1"))
	assert.ErrorIs(t, h.Compare(hashed, "secret2"), ErrPasswordMismatch)
	assert.Equal(t, 1, h.HashCallCount)
	assert.Equal(t, 2, h.CompareCallCount)
}
