package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
	"github.com/phrazzld/taskr-api/internal/service/auth"
	"github.com/phrazzld/taskr-api/internal/store"
)

// SeedResult describes what EnsureDefaultAdmin changed.
type SeedResult string

// Seed results
const (
	SeedCreated   SeedResult = "created"
	SeedUpdated   SeedResult = "updated"
	SeedUnchanged SeedResult = "unchanged"
)

// UserService provides registration, authentication and admin seeding.
type UserService interface {
	// Register creates a USER account. Returns store.ErrEmailExists when the
	// address is taken.
	Register(ctx context.Context, email, password string) (*domain.User, error)

	// Authenticate verifies credentials and returns the stored user.
	// Returns ErrInvalidCredentials on any mismatch.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// AuthenticateAdmin is Authenticate plus a check that the stored role is ADMIN.
	AuthenticateAdmin(ctx context.Context, email, password string) (*domain.User, error)

	// EnsureDefaultAdmin creates the admin account when missing, otherwise
	// promotes it to ADMIN and resynchronizes its password as needed.
	EnsureDefaultAdmin(ctx context.Context, email, password string) (*domain.User, SeedResult, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	hasher    auth.PasswordHasher
	logger    *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userStore store.UserStore, hasher auth.PasswordHasher, logger *slog.Logger) *UserServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		userStore: userStore,
		hasher:    hasher,
		logger:    logger.With("component", "user_service"),
	}
}

var _ UserService = (*UserServiceImpl)(nil)

// Register implements UserService.
func (s *UserServiceImpl) Register(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user, err := domain.NewUser(email, hashed, domain.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to register existing email")
		} else {
			log.Error("failed to save user", "error", err)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	log.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Authenticate implements UserService.
func (s *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user for login", "error", err)
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login attempt with wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// AuthenticateAdmin implements UserService.
func (s *UserServiceImpl) AuthenticateAdmin(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if !user.IsAdmin() {
		logger.FromContextOrDefault(ctx, s.logger).Warn("admin login attempt by non-admin",
			"user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// EnsureDefaultAdmin implements UserService.
// A concurrent registration of the same email between lookup and insert is
// resolved by the store's unique index: the insert fails and the existing
// account is promoted instead.
func (s *UserServiceImpl) EnsureDefaultAdmin(
	ctx context.Context,
	email, password string,
) (*domain.User, SeedResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		user, err = s.createAdmin(ctx, email, password)
		if err == nil {
			log.Info("default admin created", "user_id", user.ID)
			return user, SeedCreated, nil
		}
		if !errors.Is(err, store.ErrEmailExists) {
			return nil, "", err
		}
		if user, err = s.userStore.GetByEmail(ctx, email); err != nil {
			return nil, "", fmt.Errorf("failed to load default admin: %w", err)
		}
	case err != nil:
		return nil, "", fmt.Errorf("failed to load default admin: %w", err)
	}

	changed := false
	if !user.IsAdmin() {
		user.Role = domain.RoleAdmin
		changed = true
	}
	if s.hasher.Compare(user.HashedPassword, password) != nil {
		hashed, err := s.hasher.Hash(password)
		if err != nil {
			return nil, "", fmt.Errorf("failed to hash default admin password: %w", err)
		}
		user.HashedPassword = hashed
		changed = true
	}

	if !changed {
		log.Debug("default admin already up to date", "user_id", user.ID)
		return user, SeedUnchanged, nil
	}

	if err := s.userStore.Update(ctx, user); err != nil {
		log.Error("failed to update default admin", "error", err, "user_id", user.ID)
		return nil, "", fmt.Errorf("failed to update default admin: %w", err)
	}

	log.Info("default admin updated", "user_id", user.ID)
	return user, SeedUpdated, nil
}

func (s *UserServiceImpl) createAdmin(ctx context.Context, email, password string) (*domain.User, error) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash default admin password: %w", err)
	}

	user, err := domain.NewUser(email, hashed, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("invalid default admin: %w", err)
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create default admin: %w", err)
	}
	return user, nil
}
