package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskr-api/internal/api/shared"
	"github.com/phrazzld/taskr-api/internal/domain"
)

// bcryptMaxBytes is the longest password bcrypt will hash.
const bcryptMaxBytes = 72

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so messages and responses agree.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("bcrypt_max", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= bcryptMaxBytes
	}); err != nil {
		panic(err)
	}

	return v
}

// messageTable maps "field.tag" to the client message for that failure.
// A bare "field" key is the fallback for any tag on that field.
type messageTable map[string]string

func (m messageTable) lookup(field, tag string) string {
	if msg, ok := m[field+"."+tag]; ok {
		return msg
	}
	if msg, ok := m[field]; ok {
		return msg
	}
	return field + " is invalid"
}

var (
	registerMessages = messageTable{
		"email":               "Valid email is required",
		"email.max":           "Email must be at most 254 characters",
		"password":            "Password must be a string",
		"password.required":   "Password is required",
		"password.min":        "Password must be at least 6 characters long",
		"password.max":        "Password must be at most 72 characters long",
		"password.bcrypt_max": "Password must be at most 72 bytes long",
	}

	loginMessages = messageTable{
		"email":    "Valid email is required",
		"password": "Password is required",
	}

	createTaskMessages = messageTable{
		"title":           "Title must be a string",
		"title.required":  "Title is required",
		"title.max":       "Title must be at most 200 characters",
		"description":     "Description must be a string",
		"description.max": "Description must be at most 2000 characters",
		"completed":       "Completed must be a boolean",
	}

	updateTaskMessages = messageTable{
		"title":           "Title cannot be empty",
		"title.max":       "Title must be at most 200 characters",
		"description":     "Description must be a string",
		"description.max": "Description must be at most 2000 characters",
		"completed":       "Completed must be a boolean",
	}
)

// typeErrorTag keys the message used when a member has the wrong JSON type.
const typeErrorTag = "type"

// bodyField binds one JSON member to the struct field it decodes into.
type bodyField struct {
	name string
	dst  interface{}
}

// requestBody is a JSON object decoded one member at a time, so a member of
// the wrong type is reported next to rule violations on the other members
// instead of failing the whole decode.
type requestBody map[string]json.RawMessage

// readBody decodes the request body as a JSON object. An empty body is
// treated as an empty object.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) (requestBody, error) {
	body := requestBody{}
	if err := shared.DecodeJSON(w, r, limit, &body); err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			return requestBody{}, nil
		}
		return nil, err
	}
	return body, nil
}

// bind decodes each present member into its destination and returns the
// members that could not be decoded. JSON null counts as the wrong type.
func (b requestBody) bind(messages messageTable, fields ...bodyField) []shared.FieldError {
	var errs []shared.FieldError
	for _, f := range fields {
		raw, ok := b[f.name]
		if !ok {
			continue
		}
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) || json.Unmarshal(raw, f.dst) != nil {
			errs = append(errs, shared.FieldError{
				Field:   f.name,
				Message: messages.lookup(f.name, typeErrorTag),
			})
		}
	}
	return errs
}

// check runs the validator over req, skipping fields that already failed to
// decode, and returns every violation ordered by the request's field order.
func check(req interface{}, messages messageTable, prior []shared.FieldError, order ...string) []shared.FieldError {
	errs := append([]shared.FieldError(nil), prior...)
	failed := make(map[string]bool, len(prior))
	for _, e := range prior {
		failed[e.Field] = true
	}

	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			errs = append(errs, shared.FieldError{Field: "body", Message: "Invalid request body"})
		}
		for _, fe := range fieldErrs {
			if failed[fe.Field()] {
				continue
			}
			failed[fe.Field()] = true
			errs = append(errs, shared.FieldError{
				Field:   fe.Field(),
				Message: messages.lookup(fe.Field(), fe.Tag()),
			})
		}
	}

	rank := make(map[string]int, len(order))
	for i, name := range order {
		rank[name] = i
	}
	sort.SliceStable(errs, func(i, j int) bool {
		ri, iok := rank[errs[i].Field]
		rj, jok := rank[errs[j].Field]
		if !iok {
			ri = len(order)
		}
		if !jok {
			rj = len(order)
		}
		return ri < rj
	})
	return errs
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func parseRegisterRequest(body requestBody) (RegisterRequest, []shared.FieldError) {
	var req RegisterRequest
	errs := body.bind(registerMessages,
		bodyField{"email", &req.Email},
		bodyField{"password", &req.Password},
	)
	req.Email = domain.NormalizeEmail(req.Email)
	return req, check(&req, registerMessages, errs, "email", "password")
}

func parseLoginRequest(body requestBody) (LoginRequest, []shared.FieldError) {
	var req LoginRequest
	errs := body.bind(loginMessages,
		bodyField{"email", &req.Email},
		bodyField{"password", &req.Password},
	)
	req.Email = domain.NormalizeEmail(req.Email)
	return req, check(&req, loginMessages, errs, "email", "password")
}

func parseCreateTaskRequest(body requestBody) (CreateTaskRequest, []shared.FieldError) {
	var req CreateTaskRequest
	errs := body.bind(createTaskMessages,
		bodyField{"title", &req.Title},
		bodyField{"description", &req.Description},
		bodyField{"completed", &req.Completed},
	)
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	return req, check(&req, createTaskMessages, errs, "title", "description", "completed")
}

func parseUpdateTaskRequest(body requestBody, prior ...shared.FieldError) (UpdateTaskRequest, []shared.FieldError) {
	var req UpdateTaskRequest
	errs := append(prior, body.bind(updateTaskMessages,
		bodyField{"title", &req.Title},
		bodyField{"description", &req.Description},
		bodyField{"completed", &req.Completed},
	)...)
	trimPtr(req.Title)
	trimPtr(req.Description)
	return req, check(&req, updateTaskMessages, errs, "id", "title", "description", "completed")
}

func (r UpdateTaskRequest) toDomain() domain.TaskUpdate {
	return domain.TaskUpdate{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
	}
}
