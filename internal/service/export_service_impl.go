package service

import (
	"context"
	"time"

	"github.com/svelazco/cronos/internal/db"
)

type exportService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewExportService(uow db.UnitOfWork, observers ...UseCaseObserver) ExportService {
	return &exportService{
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Export flattens one schedule for interchange. Consistency findings are
// auto-repaired first; whatever survives the repair pass is reported as
// warnings and the export proceeds best-effort.
func (s *exportService) Export(ctx context.Context, scheduleID string) (result *ExportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"schedule_id": scheduleID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "export",
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

		var warnings []string
		if findings := e.Validate(); len(findings) > 0 {
			e.Repair()
			for _, f := range e.Validate() {
				warnings = append(warnings, f.Error())
			}
		}

		nodes, deps := e.Flatten()
		result = &ExportResult{
			Schedule:     e.Schedule(),
			Nodes:        nodes,
			Dependencies: deps,
			Warnings:     warnings,
		}
		// Repaired aggregates are worth keeping.
		return persistChanges(ctx, tx, e.TakeChanges())
	})
	if err != nil {
		return nil, err
	}
	fields["node_count"] = len(result.Nodes)
	fields["warning_count"] = len(result.Warnings)
	return result, nil
}
