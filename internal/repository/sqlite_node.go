package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/svelazco/cronos/internal/db"
	"github.com/svelazco/cronos/internal/domain"
)

// nodeColumns is the canonical SELECT column list for schedule_nodes.
const nodeColumns = `id, schedule_id, parent_id, kind, name, order_index,
		start_date, end_date, estimated_hours, progress_percent, status, priority,
		responsible_ref, source_item_ref, created_at, updated_at`

// SQLiteNodeRepo implements NodeRepo using a SQLite database.
type SQLiteNodeRepo struct {
	db db.DBTX
}

// NewSQLiteNodeRepo creates a new SQLiteNodeRepo.
func NewSQLiteNodeRepo(conn db.DBTX) *SQLiteNodeRepo {
	return &SQLiteNodeRepo{db: conn}
}

func (r *SQLiteNodeRepo) Create(ctx context.Context, n *domain.ScheduleNode) error {
	query := `INSERT INTO schedule_nodes (id, schedule_id, parent_id, kind, name, order_index,
		start_date, end_date, estimated_hours, progress_percent, status, priority,
		responsible_ref, source_item_ref, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.ScheduleID,
		n.ParentID, // *string: nil becomes SQL NULL
		string(n.Kind),
		n.Name,
		n.OrderIndex,
		nullableTimeToString(n.StartDate, dateLayout),
		nullableTimeToString(n.EndDate, dateLayout),
		n.EstimatedHours,
		n.ProgressPercent,
		string(n.Status),
		string(n.Priority),
		n.ResponsibleRef,
		n.SourceItemRef,
		n.CreatedAt.Format(time.RFC3339),
		n.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting schedule node: %w", err)
	}
	return nil
}

func (r *SQLiteNodeRepo) GetByID(ctx context.Context, id string) (*domain.ScheduleNode, error) {
	query := `SELECT ` + nodeColumns + ` FROM schedule_nodes WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanNodeRow(row.Scan)
}

func (r *SQLiteNodeRepo) ListBySchedule(ctx context.Context, scheduleID string) ([]*domain.ScheduleNode, error) {
	query := `SELECT ` + nodeColumns + ` FROM schedule_nodes WHERE schedule_id = ? ORDER BY order_index, created_at`
	return r.list(ctx, query, scheduleID)
}

func (r *SQLiteNodeRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.ScheduleNode, error) {
	query := `SELECT ` + nodeColumns + ` FROM schedule_nodes WHERE parent_id = ? ORDER BY order_index, created_at`
	return r.list(ctx, query, parentID)
}

func (r *SQLiteNodeRepo) ListRoots(ctx context.Context, scheduleID string) ([]*domain.ScheduleNode, error) {
	query := `SELECT ` + nodeColumns + ` FROM schedule_nodes WHERE schedule_id = ? AND parent_id IS NULL ORDER BY order_index, created_at`
	return r.list(ctx, query, scheduleID)
}

func (r *SQLiteNodeRepo) Update(ctx context.Context, n *domain.ScheduleNode) error {
	query := `UPDATE schedule_nodes SET parent_id = ?, kind = ?, name = ?, order_index = ?,
		start_date = ?, end_date = ?, estimated_hours = ?, progress_percent = ?,
		status = ?, priority = ?, responsible_ref = ?, source_item_ref = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		n.ParentID,
		string(n.Kind),
		n.Name,
		n.OrderIndex,
		nullableTimeToString(n.StartDate, dateLayout),
		nullableTimeToString(n.EndDate, dateLayout),
		n.EstimatedHours,
		n.ProgressPercent,
		string(n.Status),
		string(n.Priority),
		n.ResponsibleRef,
		n.SourceItemRef,
		n.UpdatedAt.Format(time.RFC3339),
		n.ID,
	)
	if err != nil {
		return fmt.Errorf("updating schedule node: %w", err)
	}
	return nil
}

func (r *SQLiteNodeRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM schedule_nodes WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting schedule node: %w", err)
	}
	return nil
}

func (r *SQLiteNodeRepo) list(ctx context.Context, query string, arg any) ([]*domain.ScheduleNode, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing schedule nodes: %w", err)
	}
	defer rows.Close()

	var nodes []*domain.ScheduleNode
	for rows.Next() {
		n, err := scanNodeRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule nodes: %w", err)
	}
	return nodes, nil
}

func scanNodeRow(scan func(dest ...any) error) (*domain.ScheduleNode, error) {
	var n domain.ScheduleNode
	var kindStr, statusStr, priorityStr, createdAtStr, updatedAtStr string
	var parentID, startDateStr, endDateStr sql.NullString

	err := scan(&n.ID, &n.ScheduleID, &parentID, &kindStr, &n.Name, &n.OrderIndex,
		&startDateStr, &endDateStr, &n.EstimatedHours, &n.ProgressPercent,
		&statusStr, &priorityStr, &n.ResponsibleRef, &n.SourceItemRef,
		&createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("schedule node: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning schedule node: %w", err)
	}

	n.Kind = domain.NodeKind(kindStr)
	n.Status = domain.NodeStatus(statusStr)
	n.Priority = domain.NodePriority(priorityStr)
	if parentID.Valid {
		n.ParentID = &parentID.String
	}
	n.StartDate = parseNullableTime(startDateStr, dateLayout)
	n.EndDate = parseNullableTime(endDateStr, dateLayout)

	if n.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if n.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &n, nil
}
