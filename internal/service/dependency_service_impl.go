package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/svelazco/cronos/internal/db"
	"github.com/svelazco/cronos/internal/domain"
	"github.com/svelazco/cronos/internal/engine"
	"github.com/svelazco/cronos/internal/repository"
)

type dependencyService struct {
	deps repository.DependencyRepo
	uow  db.UnitOfWork
}

func NewDependencyService(deps repository.DependencyRepo, uow db.UnitOfWork) DependencyService {
	return &dependencyService{deps: deps, uow: uow}
}

func (s *dependencyService) Add(ctx context.Context, d *domain.Dependency) error {
	if d.Type == "" {
		d.Type = domain.FinishToStart
	}
	if !domain.ValidDependencyTypes[string(d.Type)] {
		return fmt.Errorf("invalid dependency type %q", d.Type)
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	d.CreatedAt = time.Now().UTC()
	return mutate(ctx, s.uow, d.ScheduleID, func(e *engine.Engine) error {
		return e.AddDependency(d)
	})
}

func (s *dependencyService) Remove(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		d, err := repository.NewSQLiteDependencyRepo(tx).GetByID(ctx, id)
		if err != nil {
			return err
		}
		e, err := loadEngine(ctx, tx, d.ScheduleID)
		if err != nil {
			return err
		}
		if err := e.RemoveDependency(id); err != nil {
			return err
		}
		return persistChanges(ctx, tx, e.TakeChanges())
	})
}

func (s *dependencyService) ListBySchedule(ctx context.Context, scheduleID string) ([]*domain.Dependency, error) {
	return s.deps.ListBySchedule(ctx, scheduleID)
}
