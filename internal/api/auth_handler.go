package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskr-api/internal/api/shared"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
	"github.com/phrazzld/taskr-api/internal/service"
	"github.com/phrazzld/taskr-api/internal/service/auth"
	"github.com/phrazzld/taskr-api/internal/store"
)

// AuthHandler handles registration and login requests.
type AuthHandler struct {
	userService  service.UserService
	jwtService   auth.JWTService
	errors       *ErrorNormalizer
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userService service.UserService,
	jwtService auth.JWTService,
	errs *ErrorNormalizer,
	maxBodyBytes int64,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		userService:  userService,
		jwtService:   jwtService,
		errors:       errs,
		maxBodyBytes: maxBodyBytes,
		logger:       logger.With("component", "auth_handler"),
	}
}

var registerErrorMessages = Messages{store.ErrEmailExists: MsgUserExists}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, h.maxBodyBytes)
	if err != nil {
		h.errors.Respond(w, r, err, nil)
		return
	}

	req, fieldErrs := parseRegisterRequest(body)
	if len(fieldErrs) > 0 {
		shared.RespondWithValidationErrors(w, r, fieldErrs)
		return
	}

	user, err := h.userService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.errors.Respond(w, r, err, registerErrorMessages)
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, "User registered successfully",
		RegisterResponse{User: newUserResponse(user)})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.userService.Authenticate, MsgInvalidCredentials, "Login successful")
}

// AdminLogin handles POST /auth/admin/login. Only accounts whose stored role
// is ADMIN may log in here; every other failure looks the same.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.userService.AuthenticateAdmin, "Invalid admin credentials", "Admin login successful")
}

type authenticateFunc func(ctx context.Context, email, password string) (*domain.User, error)

func (h *AuthHandler) login(
	w http.ResponseWriter,
	r *http.Request,
	authenticate authenticateFunc,
	failureMessage, successMessage string,
) {
	body, err := readBody(w, r, h.maxBodyBytes)
	if err != nil {
		h.errors.Respond(w, r, err, nil)
		return
	}

	req, fieldErrs := parseLoginRequest(body)
	if len(fieldErrs) > 0 {
		shared.RespondWithValidationErrors(w, r, fieldErrs)
		return
	}

	user, err := authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.errors.Respond(w, r, err, Messages{service.ErrInvalidCredentials: failureMessage})
		return
	}

	token, expiresAt, err := h.jwtService.GenerateToken(r.Context(), user.ID, user.Role)
	if err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Error("failed to generate token",
			"error", err,
			"user_id", user.ID)
		h.errors.Respond(w, r, err, nil)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, successMessage, AuthResponse{
		Token:     token,
		ExpiresIn: formatLifetime(h.jwtService.TokenLifetime()),
		ExpiresAt: expiresAt,
		User:      newUserResponse(user),
	})
}
