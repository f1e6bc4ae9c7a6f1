// Package dbtest opens a migrated Postgres database for integration tests.
// Tests using it are skipped unless DATABASE_URL is set.
package dbtest

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/farmease/workmatch/internal/database"
)

// Open connects to DATABASE_URL, applies every migration and closes the pool
// when t finishes
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping Postgres integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewPostgresConnection(ctx, database.PostgresConfig{
		DSN:          dsn,
		MaxOpenConns: 20,
		MaxIdleConns: 5,
		PingTimeout:  10 * time.Second,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("connecting to postgres: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(ctx, db, zerolog.Nop()); err != nil {
		t.Fatalf("migrating postgres: %v", err)
	}
	return db
}
