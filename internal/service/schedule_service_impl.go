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

type scheduleService struct {
	schedules repository.ScheduleRepo
	uow       db.UnitOfWork
}

func NewScheduleService(schedules repository.ScheduleRepo, uow db.UnitOfWork) ScheduleService {
	return &scheduleService{schedules: schedules, uow: uow}
}

func (s *scheduleService) Create(ctx context.Context, sch *domain.Schedule) error {
	if sch.Kind == "" {
		sch.Kind = domain.ScheduleCommercial
	}
	if !domain.ValidScheduleKinds[string(sch.Kind)] {
		return fmt.Errorf("invalid schedule kind %q", sch.Kind)
	}
	if sch.ID == "" {
		sch.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	sch.CreatedAt = now
	sch.UpdatedAt = now
	return s.schedules.Create(ctx, sch)
}

func (s *scheduleService) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	return s.schedules.GetByID(ctx, id)
}

func (s *scheduleService) List(ctx context.Context) ([]*domain.Schedule, error) {
	return s.schedules.List(ctx)
}

func (s *scheduleService) Update(ctx context.Context, sch *domain.Schedule) error {
	if !domain.ValidScheduleKinds[string(sch.Kind)] {
		return fmt.Errorf("invalid schedule kind %q", sch.Kind)
	}
	sch.UpdatedAt = time.Now().UTC()
	return s.schedules.Update(ctx, sch)
}

// Reset deletes every phase through the engine so dependency and subtree
// cleanup follow the same path as single-node deletion.
func (s *scheduleService) Reset(ctx context.Context, id string) error {
	return mutate(ctx, s.uow, id, func(e *engine.Engine) error {
		for _, root := range e.Roots() {
			if err := e.DeleteNode(root.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *scheduleService) Delete(ctx context.Context, id string) error {
	return s.schedules.Delete(ctx, id)
}
