package service

import (
	"context"
	"time"

	"github.com/svelazco/cronos/internal/db"
	"github.com/svelazco/cronos/internal/engine"
)

type projectionService struct {
	uow db.UnitOfWork
}

func NewProjectionService(uow db.UnitOfWork) ProjectionService {
	return &projectionService{uow: uow}
}

func (s *projectionService) Gantt(ctx context.Context, scheduleID string, windowStart, windowEnd time.Time, g engine.Granularity) (*engine.GanttView, error) {
	var view *engine.GanttView
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		e, err := loadEngine(ctx, tx, scheduleID)
		if err != nil {
			return err
		}
		view, err = e.Projection(windowStart, windowEnd, g)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
