package service

import (
	"context"
	"fmt"

	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/service/authz"
	"github.com/phrazzld/taskr-api/internal/store"
)

// StatsService computes the admin dashboard.
type StatsService interface {
	// Dashboard returns user and task counts across all users.
	// Returns authz.ErrForbidden for non-admin identities.
	Dashboard(ctx context.Context, id authz.Identity) (domain.DashboardStats, error)
}

// StatsServiceImpl implements the StatsService interface
type StatsServiceImpl struct {
	userStore store.UserStore
	taskStore store.TaskStore
}

// NewStatsService creates a new StatsService
func NewStatsService(userStore store.UserStore, taskStore store.TaskStore) *StatsServiceImpl {
	return &StatsServiceImpl{userStore: userStore, taskStore: taskStore}
}

var _ StatsService = (*StatsServiceImpl)(nil)

// Dashboard implements StatsService.
func (s *StatsServiceImpl) Dashboard(ctx context.Context, id authz.Identity) (domain.DashboardStats, error) {
	if err := authz.RequireRole(id, domain.RoleAdmin); err != nil {
		return domain.DashboardStats{}, err
	}

	users, err := s.userStore.Count(ctx)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("failed to count users: %w", err)
	}

	total, err := s.taskStore.Count(ctx, store.TaskFilter{})
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("failed to count tasks: %w", err)
	}

	done := true
	completed, err := s.taskStore.Count(ctx, store.TaskFilter{Completed: &done})
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("failed to count completed tasks: %w", err)
	}

	return domain.NewDashboardStats(users, total, completed), nil
}
