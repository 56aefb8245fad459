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

type nodeService struct {
	nodes repository.NodeRepo
	uow   db.UnitOfWork
}

func NewNodeService(nodes repository.NodeRepo, uow db.UnitOfWork) NodeService {
	return &nodeService{nodes: nodes, uow: uow}
}

func (s *nodeService) Create(ctx context.Context, n *domain.ScheduleNode) error {
	if !domain.ValidNodeKinds[string(n.Kind)] {
		return fmt.Errorf("invalid node kind %q", n.Kind)
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Status == "" {
		n.Status = domain.StatusPlanned
	}
	if n.Priority == "" {
		n.Priority = domain.PriorityMedium
	}
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now
	return mutate(ctx, s.uow, n.ScheduleID, func(e *engine.Engine) error {
		return e.CreateNode(n)
	})
}

func (s *nodeService) GetByID(ctx context.Context, id string) (*domain.ScheduleNode, error) {
	return s.nodes.GetByID(ctx, id)
}

func (s *nodeService) Tree(ctx context.Context, scheduleID string) ([]TreeEntry, error) {
	var entries []TreeEntry
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		e, err := loadEngine(ctx, tx, scheduleID)
		if err != nil {
			return err
		}
		e.Walk(func(n *domain.ScheduleNode, depth int) {
			entries = append(entries, TreeEntry{Node: n, Depth: depth})
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *nodeService) Update(ctx context.Context, n *domain.ScheduleNode) error {
	if n.Status != "" && !domain.ValidNodeStatuses[string(n.Status)] {
		return fmt.Errorf("invalid node status %q", n.Status)
	}
	if n.Priority != "" && !domain.ValidNodePriorities[string(n.Priority)] {
		return fmt.Errorf("invalid node priority %q", n.Priority)
	}
	return mutate(ctx, s.uow, n.ScheduleID, func(e *engine.Engine) error {
		return e.UpdateNode(n)
	})
}

func (s *nodeService) Delete(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		n, err := repository.NewSQLiteNodeRepo(tx).GetByID(ctx, id)
		if err != nil {
			return err
		}
		e, err := loadEngine(ctx, tx, n.ScheduleID)
		if err != nil {
			return err
		}
		if err := e.DeleteNode(id); err != nil {
			return err
		}
		return persistChanges(ctx, tx, e.TakeChanges())
	})
}

func (s *nodeService) Reorder(ctx context.Context, scheduleID, parentID string, orderedIDs []string) error {
	return mutate(ctx, s.uow, scheduleID, func(e *engine.Engine) error {
		return e.ReorderSiblings(parentID, orderedIDs)
	})
}
