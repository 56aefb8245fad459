package service

import (
	"context"
	"errors"

	"github.com/svelazco/cronos/internal/calendar"
	"github.com/svelazco/cronos/internal/db"
	"github.com/svelazco/cronos/internal/engine"
	"github.com/svelazco/cronos/internal/repository"
)

// loadEngine reads one schedule's full state through tx-scoped repositories
// and builds an engine over it. A missing or dangling calendar reference
// falls back to the default calendar.
func loadEngine(ctx context.Context, conn db.DBTX, scheduleID string) (*engine.Engine, error) {
	schedules := repository.NewSQLiteScheduleRepo(conn)
	s, err := schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	cal := calendar.Default()
	if s.CalendarID != nil {
		c, err := repository.NewSQLiteCalendarRepo(conn).GetByID(ctx, *s.CalendarID)
		switch {
		case err == nil:
			cal = *c
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
	}

	nodes, err := repository.NewSQLiteNodeRepo(conn).ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	deps, err := repository.NewSQLiteDependencyRepo(conn).ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	return engine.New(s, nodes, deps, cal), nil
}

// persistChanges replays an engine write set against storage. Order matters:
// dependency deletions before node deletions, node creations parents-first
// before updates, dependency creations last.
func persistChanges(ctx context.Context, conn db.DBTX, ch engine.Changes) error {
	if ch.Empty() {
		return nil
	}
	nodes := repository.NewSQLiteNodeRepo(conn)
	deps := repository.NewSQLiteDependencyRepo(conn)

	for _, id := range ch.DeletedDepIDs {
		if err := deps.Delete(ctx, id); err != nil {
			return err
		}
	}
	for _, id := range ch.DeletedNodeIDs {
		if err := nodes.Delete(ctx, id); err != nil {
			return err
		}
	}
	for _, n := range ch.CreatedNodes {
		if err := nodes.Create(ctx, n); err != nil {
			return err
		}
	}
	for _, n := range ch.UpdatedNodes {
		if err := nodes.Update(ctx, n); err != nil {
			return err
		}
	}
	for _, d := range ch.CreatedDeps {
		if err := deps.Create(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// mutate runs one engine mutation against a schedule inside a transaction:
// load, apply, persist the dirty set. The engine rejects invalid mutations
// before touching its state, so a returned error rolls back cleanly.
func mutate(ctx context.Context, uow db.UnitOfWork, scheduleID string, fn func(e *engine.Engine) error) error {
	return uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		e, err := loadEngine(ctx, tx, scheduleID)
		if err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}
		return persistChanges(ctx, tx, e.TakeChanges())
	})
}
