package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,max=254,email"`
	Password string `json:"password" validate:"required,min=6,max=72,bcrypt_max"`
}

// LoginRequest defines the payload for the login and admin login endpoints.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Completed   bool   `json:"completed"`
}

// UpdateTaskRequest defines the payload for a partial task update.
// Absent fields are nil and left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title"       validate:"omitnil,min=1,max=200"`
	Description *string `json:"description" validate:"omitnil,max=2000"`
	Completed   *bool   `json:"completed"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// RegisterResponse is the data payload of a successful registration.
type RegisterResponse struct {
	User UserResponse `json:"user"`
}

// AuthResponse defines the successful response for login endpoints.
type AuthResponse struct {
	Token string `json:"token"`
	// ExpiresIn is the configured token lifetime, e.g. "1h".
	ExpiresIn string       `json:"expiresIn"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// OwnerResponse summarizes a task's owner in admin listings.
type OwnerResponse struct {
	ID    uuid.UUID   `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// TaskResponse is the public view of a task.
type TaskResponse struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Completed   bool           `json:"completed"`
	UserID      uuid.UUID      `json:"userId"`
	Owner       *OwnerResponse `json:"owner,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// TaskEnvelope is the data payload for single-task responses.
type TaskEnvelope struct {
	Task TaskResponse `json:"task"`
}

// TaskListEnvelope is the data payload for task listings.
type TaskListEnvelope struct {
	Tasks []TaskResponse `json:"tasks"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func newTaskResponse(t *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		UserID:      t.OwnerID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Owner != nil {
		resp.Owner = &OwnerResponse{ID: t.Owner.ID, Email: t.Owner.Email, Role: t.Owner.Role}
	}
	return resp
}

func newTaskListResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, newTaskResponse(t))
	}
	return out
}

// formatLifetime renders a token lifetime the way clients configure it:
// whole hours as "1h", whole minutes as "15m", whole seconds as "90s".
func formatLifetime(d time.Duration) string {
	switch {
	case d <= 0:
		return "0s"
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	case d%time.Second == 0:
		return fmt.Sprintf("%ds", d/time.Second)
	default:
		return d.String()
	}
}
