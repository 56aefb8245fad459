package repository

import (
	"context"

	"github.com/svelazco/cronos/internal/calendar"
	"github.com/svelazco/cronos/internal/domain"
)

type CalendarRepo interface {
	Create(ctx context.Context, c *calendar.WorkingCalendar) error
	GetByID(ctx context.Context, id string) (*calendar.WorkingCalendar, error)
	List(ctx context.Context) ([]*calendar.WorkingCalendar, error)
	Update(ctx context.Context, c *calendar.WorkingCalendar) error
	Delete(ctx context.Context, id string) error
}

type ScheduleRepo interface {
	Create(ctx context.Context, s *domain.Schedule) error
	GetByID(ctx context.Context, id string) (*domain.Schedule, error)
	List(ctx context.Context) ([]*domain.Schedule, error)
	Update(ctx context.Context, s *domain.Schedule) error
	Delete(ctx context.Context, id string) error
}

type NodeRepo interface {
	Create(ctx context.Context, n *domain.ScheduleNode) error
	GetByID(ctx context.Context, id string) (*domain.ScheduleNode, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]*domain.ScheduleNode, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.ScheduleNode, error)
	ListRoots(ctx context.Context, scheduleID string) ([]*domain.ScheduleNode, error)
	Update(ctx context.Context, n *domain.ScheduleNode) error
	Delete(ctx context.Context, id string) error
}

type DependencyRepo interface {
	Create(ctx context.Context, d *domain.Dependency) error
	GetByID(ctx context.Context, id string) (*domain.Dependency, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]*domain.Dependency, error)
	ListBySource(ctx context.Context, taskID string) ([]*domain.Dependency, error)
	ListByTarget(ctx context.Context, taskID string) ([]*domain.Dependency, error)
	Delete(ctx context.Context, id string) error
}
