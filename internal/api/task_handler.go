package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/api/shared"
	"github.com/phrazzld/taskr-api/internal/service"
	"github.com/phrazzld/taskr-api/internal/service/authz"
	"github.com/phrazzld/taskr-api/internal/store"
)

// MsgInvalidTaskID is reported when the {id} path segment is not a UUID.
const MsgInvalidTaskID = "Task id must be a valid UUID"

var (
	updateErrorMessages = Messages{
		store.ErrTaskNotFound: MsgTaskNotFound,
		authz.ErrForbidden:    "You are not allowed to modify this task",
	}
	deleteErrorMessages = Messages{
		store.ErrTaskNotFound: MsgTaskNotFound,
		authz.ErrForbidden:    "You are not allowed to delete this task",
	}
)

// TaskHandler handles task CRUD requests for the authenticated caller.
type TaskHandler struct {
	taskService  service.TaskService
	errors       *ErrorNormalizer
	maxBodyBytes int64
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService service.TaskService, errs *ErrorNormalizer, maxBodyBytes int64) *TaskHandler {
	return &TaskHandler{
		taskService:  taskService,
		errors:       errs,
		maxBodyBytes: maxBodyBytes,
	}
}

// identity returns the caller attached by the authentication middleware and
// writes a 401 when there is none.
func identity(w http.ResponseWriter, r *http.Request) (authz.Identity, bool) {
	id, ok := authz.IdentityFromContext(r.Context())
	if !ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgAuthRequired, nil)
	}
	return id, ok
}

// taskIDParam parses the {id} path segment.
func taskIDParam(r *http.Request) (uuid.UUID, []shared.FieldError) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, []shared.FieldError{{Field: "id", Message: MsgInvalidTaskID}}
	}
	return id, nil
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}

	body, err := readBody(w, r, h.maxBodyBytes)
	if err != nil {
		h.errors.Respond(w, r, err, nil)
		return
	}

	req, fieldErrs := parseCreateTaskRequest(body)
	if len(fieldErrs) > 0 {
		shared.RespondWithValidationErrors(w, r, fieldErrs)
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), caller, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		h.errors.Respond(w, r, err, nil)
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, "Task created successfully",
		TaskEnvelope{Task: newTaskResponse(task)})
}

// ListTasks handles GET /tasks. Administrators see every task with its owner.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), caller)
	if err != nil {
		h.errors.Respond(w, r, err, nil)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "",
		TaskListEnvelope{Tasks: newTaskListResponse(tasks)})
}

// UpdateTask handles PUT /tasks/{id}. Only supplied fields change; an empty
// object returns the stored task.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}

	taskID, idErrs := taskIDParam(r)

	body, err := readBody(w, r, h.maxBodyBytes)
	if err != nil {
		h.errors.Respond(w, r, err, nil)
		return
	}

	req, fieldErrs := parseUpdateTaskRequest(body, idErrs...)
	if len(fieldErrs) > 0 {
		shared.RespondWithValidationErrors(w, r, fieldErrs)
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), caller, taskID, req.toDomain())
	if err != nil {
		h.errors.Respond(w, r, err, updateErrorMessages)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "Task updated successfully",
		TaskEnvelope{Task: newTaskResponse(task)})
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}

	taskID, idErrs := taskIDParam(r)
	if len(idErrs) > 0 {
		shared.RespondWithValidationErrors(w, r, idErrs)
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), caller, taskID); err != nil {
		h.errors.Respond(w, r, err, deleteErrorMessages)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
