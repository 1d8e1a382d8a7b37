package domain

// DashboardStats aggregates counts across every user.
type DashboardStats struct {
	Users UserStats `json:"users"`
	Tasks TaskStats `json:"tasks"`
}

// UserStats holds user counts.
type UserStats struct {
	Total int64 `json:"total"`
}

// TaskStats holds task counts. Pending is derived as Total - Completed.
type TaskStats struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
}

// NewDashboardStats builds stats from raw counts.
func NewDashboardStats(users, tasks, completed int64) DashboardStats {
	pending := tasks - completed
	if pending < 0 {
		pending = 0
	}
	return DashboardStats{
		Users: UserStats{Total: users},
		Tasks: TaskStats{Total: tasks, Completed: completed, Pending: pending},
	}
}
