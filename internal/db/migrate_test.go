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

	expected := []string{"calendars", "schedules", "schedule_nodes", "dependencies"}
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
		"idx_schedule_nodes_schedule",
		"idx_schedule_nodes_parent",
		"idx_dependencies_schedule",
		"idx_dependencies_source",
		"idx_dependencies_target",
		"idx_dependencies_edge",
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

func TestMigrate_ScheduleKindCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO schedules (id, name, kind, created_at, updated_at)
		VALUES ('s1', 'Test', 'INVALID', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "invalid schedule kind should be rejected by CHECK constraint")

	_, err = db.Exec(`INSERT INTO schedules (id, name, kind, created_at, updated_at)
		VALUES ('s1', 'Test', 'commercial', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.NoError(t, err)
}

func TestMigrate_NodeCheckConstraints(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO schedules (id, name, kind, created_at, updated_at)
		VALUES ('s1', 'Test', 'commercial', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	// Invalid kind should fail.
	_, err = db.Exec(`INSERT INTO schedule_nodes (id, schedule_id, kind, name, created_at, updated_at)
		VALUES ('n1', 's1', 'epic', 'Node', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "invalid node kind should be rejected by CHECK constraint")

	// Invalid status should fail.
	_, err = db.Exec(`INSERT INTO schedule_nodes (id, schedule_id, kind, name, status, created_at, updated_at)
		VALUES ('n1', 's1', 'phase', 'Node', 'INVALID', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "invalid status should be rejected by CHECK constraint")

	// Valid row should succeed with status and priority defaults.
	_, err = db.Exec(`INSERT INTO schedule_nodes (id, schedule_id, kind, name, created_at, updated_at)
		VALUES ('n1', 's1', 'phase', 'Node', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	var status, priority string
	err = db.QueryRow(`SELECT status, priority FROM schedule_nodes WHERE id = 'n1'`).Scan(&status, &priority)
	require.NoError(t, err)
	assert.Equal(t, "planned", status)
	assert.Equal(t, "medium", priority)
}

func TestMigrate_DependencyConstraints(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO schedules (id, name, kind, created_at, updated_at)
		VALUES ('s1', 'Test', 'commercial', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	for _, id := range []string{"t1", "t2"} {
		_, err = db.Exec(`INSERT INTO schedule_nodes (id, schedule_id, kind, name, created_at, updated_at)
			VALUES (?, 's1', 'task', ?, '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`, id, id)
		require.NoError(t, err)
	}

	// Self-dependency rejected by CHECK.
	_, err = db.Exec(`INSERT INTO dependencies (id, schedule_id, source_task_id, target_task_id, type, created_at)
		VALUES ('d0', 's1', 't1', 't1', 'FS', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "self dependency should be rejected by CHECK constraint")

	// Unknown type rejected by CHECK.
	_, err = db.Exec(`INSERT INTO dependencies (id, schedule_id, source_task_id, target_task_id, type, created_at)
		VALUES ('d0', 's1', 't1', 't2', 'XX', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "unknown dependency type should be rejected by CHECK constraint")

	// Valid edge, then the same directed edge again — unique index violation.
	_, err = db.Exec(`INSERT INTO dependencies (id, schedule_id, source_task_id, target_task_id, type, created_at)
		VALUES ('d1', 's1', 't1', 't2', 'FS', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO dependencies (id, schedule_id, source_task_id, target_task_id, type, created_at)
		VALUES ('d2', 's1', 't1', 't2', 'FS', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "duplicate directed edge should violate unique index")

	// Same pair with a different type is a distinct edge.
	_, err = db.Exec(`INSERT INTO dependencies (id, schedule_id, source_task_id, target_task_id, type, created_at)
		VALUES ('d3', 's1', 't1', 't2', 'SS', '2025-01-01T00:00:00Z')`)
	assert.NoError(t, err)
}

func TestMigrate_CalendarDefaults(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO calendars (id, name, created_at, updated_at)
		VALUES ('c1', 'Standard', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	var workingDays, holidays string
	var hoursPerDay float64
	err = db.QueryRow(`SELECT working_days, hours_per_day, holidays FROM calendars WHERE id = 'c1'`).
		Scan(&workingDays, &hoursPerDay, &holidays)
	require.NoError(t, err)
	assert.Equal(t, "1,2,3,4,5", workingDays)
	assert.Equal(t, 8.0, hoursPerDay)
	assert.Equal(t, "", holidays)

	_, err = db.Exec(`INSERT INTO calendars (id, name, hours_per_day, created_at, updated_at)
		VALUES ('c2', 'Broken', 0, '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "zero hours_per_day should be rejected by CHECK constraint")
}
