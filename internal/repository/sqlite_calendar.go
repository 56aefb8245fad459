package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/svelazco/cronos/internal/calendar"
	"github.com/svelazco/cronos/internal/db"
)

const calendarColumns = `id, name, working_days, hours_per_day, holidays, created_at, updated_at`

// SQLiteCalendarRepo implements CalendarRepo over a DBTX, so the same
// implementation serves both direct and transactional access.
type SQLiteCalendarRepo struct {
	db db.DBTX
}

// NewSQLiteCalendarRepo creates a new SQLiteCalendarRepo.
func NewSQLiteCalendarRepo(conn db.DBTX) *SQLiteCalendarRepo {
	return &SQLiteCalendarRepo{db: conn}
}

func (r *SQLiteCalendarRepo) Create(ctx context.Context, c *calendar.WorkingCalendar) error {
	query := `INSERT INTO calendars (id, name, working_days, hours_per_day, holidays, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Name,
		encodeWeekdays(c.WorkingDays),
		c.HoursPerDay,
		encodeHolidays(c.Holidays),
		c.CreatedAt.Format(time.RFC3339),
		c.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting calendar: %w", err)
	}
	return nil
}

func (r *SQLiteCalendarRepo) GetByID(ctx context.Context, id string) (*calendar.WorkingCalendar, error) {
	query := `SELECT ` + calendarColumns + ` FROM calendars WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanCalendarRow(row.Scan)
}

func (r *SQLiteCalendarRepo) List(ctx context.Context) ([]*calendar.WorkingCalendar, error) {
	query := `SELECT ` + calendarColumns + ` FROM calendars ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing calendars: %w", err)
	}
	defer rows.Close()

	var cals []*calendar.WorkingCalendar
	for rows.Next() {
		c, err := scanCalendarRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		cals = append(cals, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating calendars: %w", err)
	}
	return cals, nil
}

func (r *SQLiteCalendarRepo) Update(ctx context.Context, c *calendar.WorkingCalendar) error {
	query := `UPDATE calendars SET name = ?, working_days = ?, hours_per_day = ?, holidays = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		c.Name,
		encodeWeekdays(c.WorkingDays),
		c.HoursPerDay,
		encodeHolidays(c.Holidays),
		c.UpdatedAt.Format(time.RFC3339),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating calendar: %w", err)
	}
	return nil
}

func (r *SQLiteCalendarRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM calendars WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting calendar: %w", err)
	}
	return nil
}

// scanCalendarRow scans one calendar from either a *sql.Row or *sql.Rows scan func.
func scanCalendarRow(scan func(dest ...any) error) (*calendar.WorkingCalendar, error) {
	var c calendar.WorkingCalendar
	var workingDays, holidays, createdAtStr, updatedAtStr string

	err := scan(&c.ID, &c.Name, &workingDays, &c.HoursPerDay, &holidays, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("calendar: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning calendar: %w", err)
	}

	c.WorkingDays = parseWeekdays(workingDays)
	c.Holidays = parseHolidays(holidays)

	if c.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if c.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &c, nil
}
