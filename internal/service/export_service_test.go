package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svelazco/cronos/internal/domain"
	"github.com/svelazco/cronos/internal/engine"
	"github.com/svelazco/cronos/internal/repository"
	"github.com/svelazco/cronos/internal/testutil"
)

func TestExportService_FlattensSchedule(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scheduleID, phaseID, _, activityID := newTestTree(t, env)
	a := addTestTask(t, env, scheduleID, activityID, "A", testDate(2025, 6, 2), 8)
	b := addTestTask(t, env, scheduleID, activityID, "B", testDate(2025, 6, 4), 8)
	require.NoError(t, env.deps.Add(ctx, testutil.NewTestDependency(scheduleID, a.ID, b.ID)))

	result, err := env.export.Export(ctx, scheduleID)
	require.NoError(t, err)

	assert.Equal(t, scheduleID, result.Schedule.ID)
	require.Len(t, result.Nodes, 5)
	// Depth-first: the phase leads, tasks in sibling order.
	assert.Equal(t, phaseID, result.Nodes[0].ID)
	assert.Equal(t, a.ID, result.Nodes[3].ID)
	assert.Equal(t, b.ID, result.Nodes[4].ID)

	require.Len(t, result.Dependencies, 1)
	assert.Equal(t, a.ID, result.Dependencies[0].SourceTaskID)
	assert.Empty(t, result.Warnings)
}

func TestExportService_RepairsInconsistentAggregates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scheduleID, _, _, activityID := newTestTree(t, env)
	addTestTask(t, env, scheduleID, activityID, "A", testDate(2025, 6, 2), 40)

	// Corrupt the stored aggregate behind the engine's back.
	_, err := env.db.ExecContext(ctx, `UPDATE schedule_nodes SET estimated_hours = 999 WHERE id = ?`, activityID)
	require.NoError(t, err)

	result, err := env.export.Export(ctx, scheduleID)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	for _, n := range result.Nodes {
		if n.ID == activityID {
			assert.Equal(t, 40.0, n.EstimatedHours)
		}
	}

	// The repaired aggregate is written back.
	stored, err := env.nodeRepo.GetByID(ctx, activityID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, stored.EstimatedHours)
}

func TestExportService_UnknownSchedule(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.export.Export(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestExportService_EmitsUseCaseEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scheduleID, _, _, _ := newTestTree(t, env)

	var buf bytes.Buffer
	svc := NewExportService(env.uow, NewLogUseCaseObserver(&buf))

	_, err := svc.Export(ctx, scheduleID)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "use_case=export")
	assert.Contains(t, buf.String(), "success=true")
}

func TestProjectionService_Gantt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scheduleID, _, _, activityID := newTestTree(t, env)
	task := addTestTask(t, env, scheduleID, activityID, "A", testDate(2025, 6, 2), 40)

	view, err := env.gantt.Gantt(ctx, scheduleID, testDate(2025, 5, 26), testDate(2025, 6, 23), engine.GranularityWeek)
	require.NoError(t, err)

	require.Len(t, view.Bars, 4)
	var taskBar *engine.Bar
	for i := range view.Bars {
		if view.Bars[i].NodeID == task.ID {
			taskBar = &view.Bars[i]
		}
	}
	require.NotNil(t, taskBar)
	assert.True(t, taskBar.HasDates)
	assert.Equal(t, domain.NodeTask, taskBar.Kind)
	assert.InDelta(t, 0.25, taskBar.OffsetPercent, 1e-9)
	assert.InDelta(t, 0.25, taskBar.WidthPercent, 1e-9)
}

func TestProjectionService_InvalidWindow(t *testing.T) {
	env := newTestEnv(t)
	scheduleID, _, _, _ := newTestTree(t, env)

	_, err := env.gantt.Gantt(context.Background(), scheduleID, testDate(2025, 6, 23), testDate(2025, 5, 26), engine.GranularityDay)
	assert.Error(t, err)
}
