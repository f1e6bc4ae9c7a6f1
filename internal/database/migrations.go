package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// migration holds a single schema migration with its target version and SQL
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS farm_works (
	id                BIGSERIAL PRIMARY KEY,
	work_id           TEXT NOT NULL UNIQUE,
	farmer_id         TEXT NOT NULL,
	crop_name         TEXT NOT NULL,
	work_type         TEXT NOT NULL,
	laborers_required INTEGER NOT NULL CHECK (laborers_required BETWEEN 1 AND 50),
	work_date         DATE NOT NULL,
	details           TEXT NOT NULL DEFAULT '',
	area              TEXT NOT NULL,
	state             TEXT NOT NULL,
	status            TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'completed', 'cancelled')),
	applications      JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	cancelled_at      TIMESTAMPTZ,
	CHECK (jsonb_array_length(applications) <= laborers_required)
);

CREATE INDEX IF NOT EXISTS idx_farm_works_farmer ON farm_works (farmer_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_farm_works_open ON farm_works (status, work_date);
CREATE INDEX IF NOT EXISTS idx_farm_works_applications ON farm_works USING GIN (applications jsonb_path_ops);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS notifications (
	id              BIGSERIAL PRIMARY KEY,
	notification_id TEXT NOT NULL UNIQUE,
	recipient_id    TEXT NOT NULL,
	recipient_role  TEXT NOT NULL CHECK (recipient_role IN ('farmer', 'laborer')),
	event_type      TEXT NOT NULL,
	event_key       TEXT NOT NULL,
	work_id         TEXT NOT NULL,
	crop_name       TEXT NOT NULL,
	work_label      TEXT NOT NULL,
	message         TEXT NOT NULL,
	related_user_id TEXT,
	is_read         BOOLEAN NOT NULL DEFAULT false,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (event_key, recipient_id)
);

CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications (recipient_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications (recipient_id) WHERE is_read = false;
`,
	},
	{
		// A farmer who also applied to their own listing receives both the
		// farmer and the laborer notice of one event.
		version: 3,
		sql: `
ALTER TABLE notifications DROP CONSTRAINT IF EXISTS notifications_event_key_recipient_id_key;
ALTER TABLE notifications ADD CONSTRAINT notifications_event_key_recipient_role_key
	UNIQUE (event_key, recipient_id, recipient_role);
`,
	},
}

// migrationLockID keys the advisory lock that serializes concurrent Migrate
// calls across processes.
const migrationLockID = 4_917_202_610

// Migrate checks the current schema version and applies any outstanding
// migrations in order, each in its own transaction
func Migrate(ctx context.Context, db *sql.DB, log zerolog.Logger) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquiring migration connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, migrationLockID); err != nil {
		return fmt.Errorf("locking migrations: %w", err)
	}
	defer func() {
		if _, err := conn.ExecContext(context.WithoutCancel(ctx), `SELECT pg_advisory_unlock($1)`, migrationLockID); err != nil {
			log.Warn().Err(err).Msg("Failed to release migration lock")
		}
	}()

	if _, err := conn.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var current int
	if err := conn.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := apply(ctx, conn, m); err != nil {
			return err
		}
		log.Info().Int("version", m.version).Msg("Applied migration")
	}

	return nil
}

func apply(ctx context.Context, conn *sql.Conn, m migration) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning migration v%d: %w", m.version, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.sql); err != nil {
		return fmt.Errorf("applying migration v%d: %w", m.version, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES ($1)`, m.version); err != nil {
		return fmt.Errorf("recording migration v%d: %w", m.version, err)
	}

	return tx.Commit()
}
