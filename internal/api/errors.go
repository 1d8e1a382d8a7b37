package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/taskr-api/internal/api/shared"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/redact"
	"github.com/phrazzld/taskr-api/internal/service"
	"github.com/phrazzld/taskr-api/internal/service/auth"
	"github.com/phrazzld/taskr-api/internal/service/authz"
	"github.com/phrazzld/taskr-api/internal/store"
)

// Client-facing messages shared by several handlers.
const (
	MsgInternalError       = "Internal server error"
	MsgInvalidCredentials  = "Invalid credentials"
	MsgInvalidRequestBody  = "Invalid request body"
	MsgRequestBodyTooLarge = "Request body too large"
	MsgTaskNotFound        = "Task not found"
	MsgUserExists          = "User with this email already exists"
	MsgForbidden           = "Forbidden: insufficient permissions"
	MsgInvalidToken        = "Invalid or expired token"
	MsgAuthRequired        = "Authentication required"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Request errors
	case errors.Is(err, shared.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, shared.ErrMalformedBody),
		errors.Is(err, shared.ErrEmptyBody),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Authentication errors
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, authz.ErrForbidden):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgInternalError
	}

	switch {
	case errors.Is(err, shared.ErrBodyTooLarge):
		return MsgRequestBodyTooLarge
	case errors.Is(err, shared.ErrMalformedBody),
		errors.Is(err, shared.ErrEmptyBody):
		return MsgInvalidRequestBody
	case errors.Is(err, domain.ErrValidation):
		return shared.ValidationFailedMessage
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid resource identifier"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, service.ErrInvalidCredentials):
		return MsgInvalidCredentials
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return MsgInvalidToken

	case errors.Is(err, authz.ErrForbidden):
		return MsgForbidden

	case errors.Is(err, store.ErrTaskNotFound):
		return MsgTaskNotFound
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrEmailExists):
		return MsgUserExists
	case errors.Is(err, store.ErrDuplicate):
		return "Duplicate value violates a unique constraint"

	default:
		return MsgInternalError
	}
}

// Messages overrides the client message for errors matching a sentinel.
// Keys must be disjoint under errors.Is.
type Messages map[error]string

// ErrorNormalizer is the single place where handler errors become responses.
type ErrorNormalizer struct {
	// exposeInternal returns redacted error text for 5xx responses.
	exposeInternal bool
}

// NewErrorNormalizer creates an ErrorNormalizer. When development is true,
// 5xx responses carry the redacted error text instead of a generic message.
func NewErrorNormalizer(development bool) *ErrorNormalizer {
	return &ErrorNormalizer{exposeInternal: development}
}

// Respond classifies err, writes the envelope and logs the failure.
// Validation errors carrying field details are returned as a field list.
func (n *ErrorNormalizer) Respond(w http.ResponseWriter, r *http.Request, err error, overrides Messages) {
	if fields := fieldErrors(err); len(fields) > 0 {
		shared.RespondWithValidationErrors(w, r, fields)
		return
	}

	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	for target, msg := range overrides {
		if errors.Is(err, target) {
			message = msg
			break
		}
	}

	if status >= http.StatusInternalServerError {
		message = MsgInternalError
		if n.exposeInternal && err != nil {
			message = redact.Error(err)
		}
	}

	var opts []shared.ResponseOption
	if status == http.StatusConflict {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// fieldErrors extracts per-field details from domain validation errors.
func fieldErrors(err error) []shared.FieldError {
	var many domain.ValidationErrors
	if errors.As(err, &many) {
		out := make([]shared.FieldError, 0, len(many))
		for _, e := range many {
			out = append(out, shared.FieldError{Field: e.Field, Message: e.Message})
		}
		return out
	}

	var one *domain.ValidationError
	if errors.As(err, &one) && one.Field != "" {
		return []shared.FieldError{{Field: one.Field, Message: one.Message}}
	}
	return nil
}
