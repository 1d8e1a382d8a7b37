package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Task field limits, counted in characters.
const (
	MaxTaskTitleLength       = 200
	MaxTaskDescriptionLength = 2000
)

// Task validation errors
var (
	ErrEmptyTaskID        = errors.New("task ID cannot be empty")
	ErrEmptyOwnerID       = errors.New("task owner ID cannot be empty")
	ErrEmptyTitle         = errors.New("title cannot be empty")
	ErrTitleTooLong       = errors.New("title must be at most 200 characters")
	ErrDescriptionTooLong = errors.New("description must be at most 2000 characters")
)

// Task is a unit of work owned by exactly one user.
// OwnerID is fixed at creation.
type Task struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Owner is populated only for administrative listings.
	Owner *OwnerSummary `json:"owner,omitempty"`
}

// OwnerSummary is the slice of a user shown next to a task in admin listings.
type OwnerSummary struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

// NewTask creates a validated task for ownerID.
func NewTask(ownerID uuid.UUID, title, description string, completed bool) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Completed:   completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.OwnerID == uuid.Nil {
		return ErrEmptyOwnerID
	}

	var errs ValidationErrors
	switch {
	case t.Title == "":
		errs = append(errs, NewValidationError("title", "Title cannot be empty", ErrEmptyTitle))
	case utf8.RuneCountInString(t.Title) > MaxTaskTitleLength:
		errs = append(errs, NewValidationError("title", "Title must be at most 200 characters", ErrTitleTooLong))
	}
	if utf8.RuneCountInString(t.Description) > MaxTaskDescriptionLength {
		errs = append(errs, NewValidationError(
			"description", "Description must be at most 2000 characters", ErrDescriptionTooLong,
		))
	}

	return errs.ErrOrNil()
}

// IsOwnedBy reports whether userID owns the task.
func (t *Task) IsOwnedBy(userID uuid.UUID) bool {
	return t.OwnerID == userID
}

// TaskUpdate carries the fields explicitly supplied by a client.
// A nil field leaves the stored value untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
}

// IsEmpty reports whether the update changes nothing.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Completed == nil
}

// Apply overwrites the supplied fields and re-validates the task.
// On validation failure the task is left as it was.
func (t *Task) Apply(u TaskUpdate) error {
	if u.IsEmpty() {
		return nil
	}

	previous := *t

	if u.Title != nil {
		t.Title = strings.TrimSpace(*u.Title)
	}
	if u.Description != nil {
		t.Description = strings.TrimSpace(*u.Description)
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
	}

	if err := t.Validate(); err != nil {
		*t = previous
		return err
	}

	t.UpdatedAt = time.Now().UTC()
	return nil
}
