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
	`CREATE TABLE IF NOT EXISTS calendars (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		working_days  TEXT NOT NULL DEFAULT '1,2,3,4,5',
		hours_per_day REAL NOT NULL DEFAULT 8 CHECK(hours_per_day > 0),
		holidays      TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS schedules (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		kind        TEXT NOT NULL DEFAULT 'commercial'
		            CHECK(kind IN ('commercial','planning','execution')),
		calendar_id TEXT REFERENCES calendars(id) ON DELETE SET NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS schedule_nodes (
		id               TEXT PRIMARY KEY,
		schedule_id      TEXT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
		parent_id        TEXT REFERENCES schedule_nodes(id) ON DELETE CASCADE,
		kind             TEXT NOT NULL
		                 CHECK(kind IN ('phase','work_breakdown','activity','task')),
		name             TEXT NOT NULL,
		order_index      INTEGER NOT NULL DEFAULT 0,
		start_date       TEXT,
		end_date         TEXT,
		estimated_hours  REAL NOT NULL DEFAULT 0,
		progress_percent REAL NOT NULL DEFAULT 0,
		status           TEXT NOT NULL DEFAULT 'planned'
		                 CHECK(status IN ('planned','in_progress','completed','paused','cancelled')),
		priority         TEXT NOT NULL DEFAULT 'medium'
		                 CHECK(priority IN ('low','medium','high','critical')),
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_schedule_nodes_schedule ON schedule_nodes(schedule_id)`,
	`CREATE INDEX IF NOT EXISTS idx_schedule_nodes_parent ON schedule_nodes(parent_id)`,

	`CREATE TABLE IF NOT EXISTS dependencies (
		id             TEXT PRIMARY KEY,
		schedule_id    TEXT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
		source_task_id TEXT NOT NULL REFERENCES schedule_nodes(id) ON DELETE CASCADE,
		target_task_id TEXT NOT NULL REFERENCES schedule_nodes(id) ON DELETE CASCADE,
		type           TEXT NOT NULL CHECK(type IN ('FS','SS','FF','SF')),
		lag_days       INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL,
		CHECK(source_task_id != target_task_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_dependencies_schedule ON dependencies(schedule_id)`,
	`CREATE INDEX IF NOT EXISTS idx_dependencies_source ON dependencies(source_task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_dependencies_target ON dependencies(target_task_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_dependencies_edge
		ON dependencies(source_task_id, target_task_id, type)`,

	// Baseline flag and external references came after the first release.
	`ALTER TABLE schedules ADD COLUMN baseline INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE schedules ADD COLUMN project_ref TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE schedules ADD COLUMN quotation_ref TEXT NOT NULL DEFAULT ''`,

	// Responsible and catalog-item references on nodes.
	`ALTER TABLE schedule_nodes ADD COLUMN responsible_ref TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE schedule_nodes ADD COLUMN source_item_ref TEXT NOT NULL DEFAULT ''`,
}
