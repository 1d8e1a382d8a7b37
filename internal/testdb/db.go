package testdb

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/taskr-api/internal/platform/postgres"
	"github.com/phrazzld/taskr-api/internal/redact"
)

// Open connects to the test database and applies every migration.
// The connection is closed when the test finishes.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := DatabaseURL()
	if dbURL == "" {
		if IsCI() {
			t.Fatalf("%s or %s must be set in CI", EnvTestDatabaseURL, EnvDatabaseURL)
		}
		t.Skipf("%s not set; skipping PostgreSQL integration test", EnvTestDatabaseURL)
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		t.Fatalf("failed to open test database: %s", redact.Error(err))
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("failed to reach test database: %s", redact.Error(err))
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := postgres.Migrate(ctx, db, "up", quiet); err != nil {
		t.Fatalf("failed to migrate test database: %s", redact.Error(err))
	}

	return db
}

// WithTx runs fn inside a transaction that is always rolled back, so tests
// never see each other's rows.
func WithTx(t *testing.T, db *sql.DB, fn func(tx *sql.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %s", redact.Error(err))
	}
	defer func() { _ = tx.Rollback() }()

	fn(tx)
}
