package service

import (
	"context"
	"time"

	"github.com/svelazco/cronos/internal/calendar"
	"github.com/svelazco/cronos/internal/catalog"
	"github.com/svelazco/cronos/internal/domain"
	"github.com/svelazco/cronos/internal/engine"
)

type CalendarService interface {
	Create(ctx context.Context, c *calendar.WorkingCalendar) error
	GetByID(ctx context.Context, id string) (*calendar.WorkingCalendar, error)
	List(ctx context.Context) ([]*calendar.WorkingCalendar, error)
	Update(ctx context.Context, c *calendar.WorkingCalendar) error
	Delete(ctx context.Context, id string) error
}

type ScheduleService interface {
	Create(ctx context.Context, s *domain.Schedule) error
	GetByID(ctx context.Context, id string) (*domain.Schedule, error)
	List(ctx context.Context) ([]*domain.Schedule, error)
	Update(ctx context.Context, s *domain.Schedule) error
	// Reset removes every node and dependency but keeps the schedule row.
	Reset(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// TreeEntry is one row of a depth-first tree listing.
type TreeEntry struct {
	Node  *domain.ScheduleNode
	Depth int
}

type NodeService interface {
	Create(ctx context.Context, n *domain.ScheduleNode) error
	GetByID(ctx context.Context, id string) (*domain.ScheduleNode, error)
	Tree(ctx context.Context, scheduleID string) ([]TreeEntry, error)
	Update(ctx context.Context, n *domain.ScheduleNode) error
	Delete(ctx context.Context, id string) error
	// Reorder rewrites sibling order under parentID; empty parentID
	// addresses the phase level.
	Reorder(ctx context.Context, scheduleID, parentID string, orderedIDs []string) error
}

type DependencyService interface {
	Add(ctx context.Context, d *domain.Dependency) error
	Remove(ctx context.Context, id string) error
	ListBySchedule(ctx context.Context, scheduleID string) ([]*domain.Dependency, error)
}

// GenerateMode selects how tasks built from a catalog get their dates.
type GenerateMode string

const (
	// ModeSequential chains sibling tasks finish-to-start with one day of lag.
	ModeSequential GenerateMode = "sequential"
	// ModeQuick spreads task starts evenly across a window, no dependencies.
	ModeQuick GenerateMode = "quick"
	// ModeAdvanced applies the user-authored dependency list from the file.
	ModeAdvanced GenerateMode = "advanced"
)

// FileRequest describes one generation run from a catalog JSON file.
type FileRequest struct {
	ScheduleID string
	Path       string
	Mode       GenerateMode
	StartDate  time.Time
	WindowEnd  time.Time // quick mode only
}

// GenerateResult summarizes what a generation run created.
type GenerateResult struct {
	NodeCount       int
	DependencyCount int
}

type GenerateService interface {
	FromCatalog(ctx context.Context, scheduleID string, items []domain.CatalogItem, startDate time.Time) (*GenerateResult, error)
	Quick(ctx context.Context, scheduleID string, items []domain.CatalogItem, windowStart, windowEnd time.Time) (*GenerateResult, error)
	Advanced(ctx context.Context, scheduleID string, items []domain.CatalogItem, startDate time.Time, deps []catalog.Dependency) (*GenerateResult, error)
	FromFile(ctx context.Context, req FileRequest) (*GenerateResult, error)
}

// ExportResult is the flattened interchange form of one schedule.
type ExportResult struct {
	Schedule     *domain.Schedule
	Nodes        []engine.FlatNode
	Dependencies []engine.FlatDependency
	// Warnings lists consistency findings that survived auto-repair.
	Warnings []string
}

type ExportService interface {
	Export(ctx context.Context, scheduleID string) (*ExportResult, error)
}

type ProjectionService interface {
	Gantt(ctx context.Context, scheduleID string, windowStart, windowEnd time.Time, g engine.Granularity) (*engine.GanttView, error)
}
