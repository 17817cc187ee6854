package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// migration holds a single schema migration with its target version.
// Every apply func must be safe to run again on a database that already
// has the change: structures are created only when missing and data
// backfills only touch rows that still need them.
type migration struct {
	version int
	name    string
	apply   func(ctx context.Context, tx *sqlx.Tx) error
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		name:    "projects and todos",
		apply: execSQL(`
CREATE TABLE IF NOT EXISTS projects (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL UNIQUE,
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	archived_at DATETIME
);

CREATE TABLE IF NOT EXISTS todos (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id   INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	description  TEXT NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	completed_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_projects_archived_at ON projects(archived_at);
CREATE INDEX IF NOT EXISTS idx_todos_project_id ON todos(project_id);
CREATE INDEX IF NOT EXISTS idx_todos_completed_at ON todos(completed_at);
`),
	},
	{
		version: 2,
		name:    "todo position",
		apply: func(ctx context.Context, tx *sqlx.Tx) error {
			if err := addColumnIfMissing(ctx, tx, "todos", "position", "INTEGER NOT NULL DEFAULT 0"); err != nil {
				return err
			}
			if err := backfillPositions(ctx, tx); err != nil {
				return err
			}
			return execSQL(`
CREATE INDEX IF NOT EXISTS idx_todos_project_active_position
	ON todos(project_id, completed_at, position);
`)(ctx, tx)
		},
	},
	{
		version: 3,
		name:    "optional descriptions and details",
		apply: func(ctx context.Context, tx *sqlx.Tx) error {
			if err := addColumnIfMissing(ctx, tx, "projects", "description", "TEXT"); err != nil {
				return err
			}
			return addColumnIfMissing(ctx, tx, "todos", "details", "TEXT")
		},
	},
}

const createSchemaVersion = `
CREATE TABLE IF NOT EXISTS schema_version (
	version    INTEGER PRIMARY KEY,
	applied_at DATETIME NOT NULL
);`

// LatestSchemaVersion is the version of the newest known migration.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// Migrate applies every migration newer than the recorded schema version.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	return s.runMigrations(ctx, current)
}

// Remigrate re-applies the full migration sequence. On a database that is
// already at the latest version this changes nothing.
func (s *SQLiteStore) Remigrate(ctx context.Context) error {
	return s.runMigrations(ctx, 0)
}

// SchemaVersion returns the highest applied migration version, or 0 for a
// fresh database.
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int, error) {
	if _, err := s.db.ExecContext(ctx, createSchemaVersion); err != nil {
		return 0, fmt.Errorf("creating schema_version table: %w", err)
	}

	var version int
	err := s.db.GetContext(ctx, &version, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// runMigrations applies, in order, each migration above the given version.
// Each migration and its schema_version row commit together.
func (s *SQLiteStore) runMigrations(ctx context.Context, after int) error {
	if _, err := s.db.ExecContext(ctx, createSchemaVersion); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	for _, m := range migrations {
		if m.version <= after {
			continue
		}
		err := s.withTx(ctx, func(tx *sqlx.Tx) error {
			if err := m.apply(ctx, tx); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO schema_version (version, applied_at) VALUES (?, ?)",
				m.version, s.timestamp())
			return err
		})
		if err != nil {
			return fmt.Errorf("applying migration v%d (%s): %w", m.version, m.name, err)
		}
	}
	return nil
}

// execSQL returns a migration step that executes a fixed SQL script.
func execSQL(script string) func(ctx context.Context, tx *sqlx.Tx) error {
	return func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, script)
		return err
	}
}

// hasColumn reports whether table already has the named column.
func hasColumn(ctx context.Context, tx *sqlx.Tx, table, column string) (bool, error) {
	var n int
	err := tx.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column)
	if err != nil {
		return false, fmt.Errorf("inspecting %s.%s: %w", table, column, err)
	}
	return n > 0, nil
}

// addColumnIfMissing runs ALTER TABLE ADD COLUMN unless the column exists.
// Table, column and definition are compile-time constants, never user input.
func addColumnIfMissing(ctx context.Context, tx *sqlx.Tx, table, column, definition string) error {
	ok, err := hasColumn(ctx, tx, table, column)
	if err != nil || ok {
		return err
	}
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition)
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("adding %s.%s: %w", table, column, err)
	}
	return nil
}

// backfillPositions numbers the active todos of every project that has no
// positioned active todo yet, oldest first, so the newest ends up on top.
// Projects that already carry positions are left alone.
func backfillPositions(ctx context.Context, tx *sqlx.Tx) error {
	var projectIDs []int64
	err := tx.SelectContext(ctx, &projectIDs, `
		SELECT DISTINCT project_id FROM todos
		WHERE completed_at IS NULL
		  AND project_id NOT IN (
			SELECT project_id FROM todos
			WHERE completed_at IS NULL AND position > 0
		  )
		ORDER BY project_id`)
	if err != nil {
		return fmt.Errorf("finding todos without position: %w", err)
	}

	for _, projectID := range projectIDs {
		var ids []int64
		err := tx.SelectContext(ctx, &ids, `
			SELECT id FROM todos
			WHERE project_id = ? AND completed_at IS NULL
			ORDER BY created_at, id`, projectID)
		if err != nil {
			return fmt.Errorf("listing todos of project %d: %w", projectID, err)
		}
		for i, id := range ids {
			_, err := tx.ExecContext(ctx,
				"UPDATE todos SET position = ? WHERE id = ?", i+1, id)
			if err != nil {
				return fmt.Errorf("backfilling position of todo %d: %w", id, err)
			}
		}
	}
	return nil
}
