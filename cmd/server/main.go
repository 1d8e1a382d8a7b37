// Package main implements the entry point for the Taskr API server, a
// multi-tenant task tracker with role-based access control.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/phrazzld/taskr-api/internal/config"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
	"github.com/phrazzld/taskr-api/internal/platform/postgres"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command and exit: "+strings.Join(postgres.MigrationCommands, "|"))
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *migrateCmd); err != nil {
		log.Printf("taskr-api: %v", err)
		stop()
		os.Exit(1)
	}
}

// run loads configuration, connects to the database and either executes a
// single migration command or serves HTTP until ctx is cancelled.
func run(ctx context.Context, migrateCmd string) error {
	if migrateCmd != "" && !slices.Contains(postgres.MigrationCommands, migrateCmd) {
		return fmt.Errorf("unknown migration command %q", migrateCmd)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"environment", cfg.Server.Environment)

	db, err := setupAppDatabase(ctx, cfg.Database, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			appLogger.Error("failed to close database", "error", cerr)
		}
	}()

	if migrateCmd != "" {
		return postgres.Migrate(ctx, db, migrateCmd, appLogger)
	}
	if err := postgres.Migrate(ctx, db, "up", appLogger); err != nil {
		return err
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		return err
	}

	if err := app.seedDefaultAdmin(ctx); err != nil {
		return err
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}
