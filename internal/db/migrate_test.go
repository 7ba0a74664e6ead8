package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// Run migrations a second time — should succeed without error.
	err := Migrate(db)
	require.NoError(t, err)

	// Third time for good measure.
	err = Migrate(db)
	require.NoError(t, err)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"projects", "tasks", "task_predecessors"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_projects_short_id",
		"idx_tasks_project",
		"idx_task_predecessors_task",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk)
	require.NoError(t, err)
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_WALModeRequested(t *testing.T) {
	// In-memory SQLite uses "memory" journal mode; WAL only applies to file DBs.
	// This test verifies OpenDB issues the PRAGMA (a no-op for :memory:).
	db := openTestDB(t)

	var mode string
	err := db.QueryRow(`PRAGMA journal_mode`).Scan(&mode)
	require.NoError(t, err)
	// In-memory DB reports "memory" — that's expected.
	assert.Equal(t, "memory", mode)
}

func TestMigrate_ProjectsStatusCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, short_id, name, start_date, status, created_at, updated_at)
		VALUES ('p1', 'TST01', 'Test', '2025-01-01', 'INVALID', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "invalid project status should be rejected by CHECK constraint")
}

func TestMigrate_ProjectsShortIDPartialUniqueIndex(t *testing.T) {
	db := openTestDB(t)

	// Empty short IDs should be allowed repeatedly due to partial unique index predicate.
	_, err := db.Exec(`INSERT INTO projects (id, short_id, name, start_date, status, created_at, updated_at)
		VALUES ('p1', '', 'Test 1', '2025-01-01', 'active', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO projects (id, short_id, name, start_date, status, created_at, updated_at)
		VALUES ('p2', '', 'Test 2', '2025-01-01', 'active', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	// Non-empty duplicates should violate unique index.
	_, err = db.Exec(`INSERT INTO projects (id, short_id, name, start_date, status, created_at, updated_at)
		VALUES ('p3', 'DUP01', 'Test 3', '2025-01-01', 'active', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO projects (id, short_id, name, start_date, status, created_at, updated_at)
		VALUES ('p4', 'DUP01', 'Test 4', '2025-01-01', 'active', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err)
}

func TestMigrate_TaskOutlineUniquePerProject(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, short_id, name, start_date, status, created_at, updated_at)
		VALUES ('p1', 'OUT01', 'Test', '2025-01-01', 'active', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO tasks (uid, project_id, outline_number, outline_level, name, created_at, updated_at)
		VALUES ('t1', 'p1', '1', 1, 'Task A', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO tasks (uid, project_id, outline_number, outline_level, name, created_at, updated_at)
		VALUES ('t2', 'p1', '1', 1, 'Task B', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "duplicate outline within a project should be rejected")
}

func TestMigrate_PredecessorLinkTypeCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, short_id, name, start_date, status, created_at, updated_at)
		VALUES ('p1', 'LNK01', 'Test', '2025-01-01', 'active', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO tasks (uid, project_id, outline_number, outline_level, name, created_at, updated_at)
		VALUES ('t1', 'p1', '1', 1, 'Task A', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO task_predecessors (task_uid, position, ref_outline, link_type)
		VALUES ('t1', 0, '2', 'XX')`)
	assert.Error(t, err, "invalid link type should be rejected by CHECK constraint")

	_, err = db.Exec(`INSERT INTO task_predecessors (task_uid, position, ref_outline, link_type)
		VALUES ('t1', 0, '2', 'FS')`)
	assert.NoError(t, err)
}

func TestMigrate_CascadeDeleteTasksAndLinks(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, short_id, name, start_date, status, created_at, updated_at)
		VALUES ('p1', 'CAS01', 'Test', '2025-01-01', 'active', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO tasks (uid, project_id, outline_number, outline_level, name, created_at, updated_at)
		VALUES ('t1', 'p1', '1', 1, 'Task A', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO task_predecessors (task_uid, position, ref_outline) VALUES ('t1', 0, '2')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM projects WHERE id = 'p1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM tasks`).Scan(&n))
	assert.Equal(t, 0, n, "tasks cascade with their project")
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM task_predecessors`).Scan(&n))
	assert.Equal(t, 0, n, "predecessor rows cascade with their task")
}
