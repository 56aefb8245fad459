package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/svelazco/cronos/internal/calendar"
	"github.com/svelazco/cronos/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Monday, June 2, 2025.
var monday = date(2025, time.June, 2)

func testSchedule() *domain.Schedule {
	now := time.Now().UTC()
	return &domain.Schedule{
		ID:        uuid.New().String(),
		Name:      "Test Schedule",
		Kind:      domain.ScheduleCommercial,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func emptyEngine() *Engine {
	return New(testSchedule(), nil, nil, calendar.Default())
}

func node(scheduleID string, kind domain.NodeKind, parentID *string, name string) *domain.ScheduleNode {
	now := time.Now().UTC()
	return &domain.ScheduleNode{
		ID:         uuid.New().String(),
		ScheduleID: scheduleID,
		ParentID:   parentID,
		Kind:       kind,
		Name:       name,
		Status:     domain.StatusPlanned,
		Priority:   domain.PriorityMedium,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// addChain creates phase -> work_breakdown -> activity and returns the activity.
func addChain(t *testing.T, e *Engine) *domain.ScheduleNode {
	t.Helper()
	sid := e.Schedule().ID
	phase := node(sid, domain.NodePhase, nil, "Phase")
	require.NoError(t, e.CreateNode(phase))
	wbe := node(sid, domain.NodeWorkBreakdown, &phase.ID, "EDT")
	require.NoError(t, e.CreateNode(wbe))
	activity := node(sid, domain.NodeActivity, &wbe.ID, "Activity")
	require.NoError(t, e.CreateNode(activity))
	return activity
}

// addTask creates a task under the activity with the given start and hours.
func addTask(t *testing.T, e *Engine, activity *domain.ScheduleNode, name string, start *time.Time, hours float64) *domain.ScheduleNode {
	t.Helper()
	task := node(e.Schedule().ID, domain.NodeTask, &activity.ID, name)
	task.StartDate = start
	task.EstimatedHours = hours
	require.NoError(t, e.CreateNode(task))
	return task
}

func dep(e *Engine, src, tgt *domain.ScheduleNode, typ domain.DependencyType, lag int) *domain.Dependency {
	return &domain.Dependency{
		ID:           uuid.New().String(),
		ScheduleID:   e.Schedule().ID,
		SourceTaskID: src.ID,
		TargetTaskID: tgt.ID,
		Type:         typ,
		LagDays:      lag,
		CreatedAt:    time.Now().UTC(),
	}
}

func items(specs ...domain.CatalogItem) []domain.CatalogItem { return specs }

func catalogItem(id, name, category string, hours float64) domain.CatalogItem {
	return domain.CatalogItem{ID: id, Name: name, Category: category, Quantity: 1, EstimatedHours: hours}
}
