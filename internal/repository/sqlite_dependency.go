package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/svelazco/cronos/internal/db"
	"github.com/svelazco/cronos/internal/domain"
)

const dependencyColumns = `id, schedule_id, source_task_id, target_task_id, type, lag_days, created_at`

// SQLiteDependencyRepo implements DependencyRepo using a SQLite database.
type SQLiteDependencyRepo struct {
	db db.DBTX
}

// NewSQLiteDependencyRepo creates a new SQLiteDependencyRepo.
func NewSQLiteDependencyRepo(conn db.DBTX) *SQLiteDependencyRepo {
	return &SQLiteDependencyRepo{db: conn}
}

func (r *SQLiteDependencyRepo) Create(ctx context.Context, d *domain.Dependency) error {
	query := `INSERT INTO dependencies (id, schedule_id, source_task_id, target_task_id, type, lag_days, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.ScheduleID,
		d.SourceTaskID,
		d.TargetTaskID,
		string(d.Type),
		d.LagDays,
		d.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting dependency: %w", err)
	}
	return nil
}

func (r *SQLiteDependencyRepo) GetByID(ctx context.Context, id string) (*domain.Dependency, error) {
	query := `SELECT ` + dependencyColumns + ` FROM dependencies WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanDependencyRow(row.Scan)
}

func (r *SQLiteDependencyRepo) ListBySchedule(ctx context.Context, scheduleID string) ([]*domain.Dependency, error) {
	query := `SELECT ` + dependencyColumns + ` FROM dependencies WHERE schedule_id = ? ORDER BY created_at, id`
	return r.list(ctx, query, scheduleID)
}

func (r *SQLiteDependencyRepo) ListBySource(ctx context.Context, taskID string) ([]*domain.Dependency, error) {
	query := `SELECT ` + dependencyColumns + ` FROM dependencies WHERE source_task_id = ? ORDER BY created_at, id`
	return r.list(ctx, query, taskID)
}

func (r *SQLiteDependencyRepo) ListByTarget(ctx context.Context, taskID string) ([]*domain.Dependency, error) {
	query := `SELECT ` + dependencyColumns + ` FROM dependencies WHERE target_task_id = ? ORDER BY created_at, id`
	return r.list(ctx, query, taskID)
}

func (r *SQLiteDependencyRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM dependencies WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting dependency: %w", err)
	}
	return nil
}

func (r *SQLiteDependencyRepo) list(ctx context.Context, query string, arg any) ([]*domain.Dependency, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies: %w", err)
	}
	defer rows.Close()

	var deps []*domain.Dependency
	for rows.Next() {
		d, err := scanDependencyRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		deps = append(deps, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependencies: %w", err)
	}
	return deps, nil
}

func scanDependencyRow(scan func(dest ...any) error) (*domain.Dependency, error) {
	var d domain.Dependency
	var typeStr, createdAtStr string

	err := scan(&d.ID, &d.ScheduleID, &d.SourceTaskID, &d.TargetTaskID, &typeStr, &d.LagDays, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("dependency: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning dependency: %w", err)
	}

	d.Type = domain.DependencyType(typeStr)
	if d.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &d, nil
}
