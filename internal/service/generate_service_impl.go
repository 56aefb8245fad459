package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/svelazco/cronos/internal/catalog"
	"github.com/svelazco/cronos/internal/db"
	"github.com/svelazco/cronos/internal/domain"
	"github.com/svelazco/cronos/internal/engine"
)

type generateService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewGenerateService(uow db.UnitOfWork, observers ...UseCaseObserver) GenerateService {
	return &generateService{
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *generateService) FromCatalog(ctx context.Context, scheduleID string, items []domain.CatalogItem, startDate time.Time) (*GenerateResult, error) {
	return s.run(ctx, "generate-sequential", scheduleID, func(e *engine.Engine) error {
		return e.GenerateFromCatalog(items, startDate)
	})
}

func (s *generateService) Quick(ctx context.Context, scheduleID string, items []domain.CatalogItem, windowStart, windowEnd time.Time) (*GenerateResult, error) {
	return s.run(ctx, "generate-quick", scheduleID, func(e *engine.Engine) error {
		return e.GenerateQuick(items, windowStart, windowEnd)
	})
}

func (s *generateService) Advanced(ctx context.Context, scheduleID string, items []domain.CatalogItem, startDate time.Time, deps []catalog.Dependency) (*GenerateResult, error) {
	userDeps := make([]engine.CatalogDependency, 0, len(deps))
	for _, d := range deps {
		userDeps = append(userDeps, engine.CatalogDependency{
			SourceItemID: d.SourceItemID,
			TargetItemID: d.TargetItemID,
			Type:         d.Type,
			LagDays:      d.LagDays,
		})
	}
	return s.run(ctx, "generate-advanced", scheduleID, func(e *engine.Engine) error {
		return e.GenerateAdvanced(items, startDate, userDeps)
	})
}

func (s *generateService) FromFile(ctx context.Context, req FileRequest) (*GenerateResult, error) {
	f, err := catalog.Load(req.Path)
	if err != nil {
		return nil, err
	}
	if errs := catalog.Validate(f); len(errs) > 0 {
		return nil, fmt.Errorf("invalid catalog file: %w", errors.Join(errs...))
	}

	items := f.DomainItems()
	switch req.Mode {
	case ModeQuick:
		return s.Quick(ctx, req.ScheduleID, items, req.StartDate, req.WindowEnd)
	case ModeAdvanced:
		return s.Advanced(ctx, req.ScheduleID, items, req.StartDate, f.DomainDependencies())
	case ModeSequential, "":
		return s.FromCatalog(ctx, req.ScheduleID, items, req.StartDate)
	default:
		return nil, fmt.Errorf("unknown generate mode %q", req.Mode)
	}
}

// run executes one generation use case inside a transaction and reports
// telemetry with the created node and dependency counts.
func (s *generateService) run(ctx context.Context, name, scheduleID string, fn func(e *engine.Engine) error) (result *GenerateResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"schedule_id": scheduleID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      name,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		e, err := loadEngine(ctx, tx, scheduleID)
		if err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}
		ch := e.TakeChanges()
		result = &GenerateResult{
			NodeCount:       len(ch.CreatedNodes),
			DependencyCount: len(ch.CreatedDeps),
		}
		return persistChanges(ctx, tx, ch)
	})
	if err != nil {
		return nil, err
	}
	fields["node_count"] = result.NodeCount
	fields["dependency_count"] = result.DependencyCount
	return result, nil
}
