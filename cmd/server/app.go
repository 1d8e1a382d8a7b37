package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskr-api/internal/config"
	"github.com/phrazzld/taskr-api/internal/events"
	"github.com/phrazzld/taskr-api/internal/platform/postgres"
	"github.com/phrazzld/taskr-api/internal/service"
	"github.com/phrazzld/taskr-api/internal/service/auth"
	"github.com/phrazzld/taskr-api/internal/store"
)

// application holds the shared dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger

	jwtService   auth.JWTService
	userService  service.UserService
	taskService  service.TaskService
	statsService service.StatsService
}

// newApplication wires Postgres-backed stores and services over db.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	return newApplicationWith(cfg, logger,
		postgres.NewPostgresUserStore(db, logger),
		postgres.NewPostgresTaskStore(db, logger),
		jwtService,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
	), nil
}

// newApplicationWith wires services over the given stores and auth
// components. Tests use it to run the full HTTP stack without Postgres.
func newApplicationWith(
	cfg *config.Config,
	logger *slog.Logger,
	userStore store.UserStore,
	taskStore store.TaskStore,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
) *application {
	if logger == nil {
		logger = slog.Default()
	}

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewAuditLogHandler(logger))

	return &application{
		config:       cfg,
		logger:       logger,
		jwtService:   jwtService,
		userService:  service.NewUserService(userStore, hasher, logger),
		taskService:  service.NewTaskService(taskStore, emitter, logger),
		statsService: service.NewStatsService(userStore, taskStore),
	}
}

// seedDefaultAdmin ensures the configured administrator exists when seeding
// is enabled.
func (app *application) seedDefaultAdmin(ctx context.Context) error {
	admin := app.config.Admin
	if !admin.SeedDefault {
		return nil
	}

	user, result, err := app.userService.EnsureDefaultAdmin(ctx, admin.Email, admin.Password)
	if err != nil {
		return fmt.Errorf("failed to seed default admin: %w", err)
	}

	app.logger.Info("default admin ensured", "user_id", user.ID, "result", string(result))
	return nil
}
