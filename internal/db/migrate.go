package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		short_id    TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL,
		start_date  TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','archived')),
		archived_at TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id) WHERE short_id != ''`,

	`CREATE TABLE IF NOT EXISTS tasks (
		uid              TEXT PRIMARY KEY,
		project_id       TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		outline_number   TEXT NOT NULL,
		outline_level    INTEGER NOT NULL,
		name             TEXT NOT NULL,
		duration_hours   REAL NOT NULL DEFAULT 0,
		start_date       TEXT,
		finish_date      TEXT,
		is_milestone     INTEGER NOT NULL DEFAULT 0,
		percent_complete INTEGER NOT NULL DEFAULT 0,
		constraint_type  TEXT NOT NULL DEFAULT 'asap',
		constraint_date  TEXT,
		notes            TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL,
		UNIQUE(project_id, outline_number)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,

	`CREATE TABLE IF NOT EXISTS task_predecessors (
		task_uid    TEXT NOT NULL REFERENCES tasks(uid) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		ref_outline TEXT NOT NULL,
		link_type   TEXT NOT NULL DEFAULT 'FS'
		            CHECK(link_type IN ('FS','SS','FF','SF')),
		lag         REAL NOT NULL DEFAULT 0,
		lag_format  TEXT NOT NULL DEFAULT 'days'
		            CHECK(lag_format IN ('days','hours')),
		PRIMARY KEY (task_uid, position)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_task_predecessors_task ON task_predecessors(task_uid)`,
}
