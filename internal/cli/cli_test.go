package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/svelazco/cronos/internal/db"
	"github.com/svelazco/cronos/internal/domain"
	"github.com/svelazco/cronos/internal/repository"
	"github.com/svelazco/cronos/internal/service"
	"github.com/svelazco/cronos/internal/testutil"
)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)

	nodeRepo := repository.NewSQLiteNodeRepo(database)
	depRepo := repository.NewSQLiteDependencyRepo(database)

	return &App{
		Calendars: service.NewCalendarService(repository.NewSQLiteCalendarRepo(database)),
		Schedules: service.NewScheduleService(repository.NewSQLiteScheduleRepo(database), uow),
		Nodes:     service.NewNodeService(nodeRepo, uow),
		Deps:      service.NewDependencyService(depRepo, uow),
		Generate:  service.NewGenerateService(uow),
		Export:    service.NewExportService(uow),
		Gantt:     service.NewProjectionService(uow),
	}
}

// runCmd executes the root command with args and returns combined output.
func runCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := NewRootCmd(app)
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	root.SilenceUsage = true
	err := root.Execute()
	return buf.String(), err
}

// seedEmptySchedule creates a schedule with no nodes and returns its id.
func seedEmptySchedule(t *testing.T, app *App, name string) string {
	t.Helper()
	sch := testutil.NewTestSchedule(name)
	require.NoError(t, app.Schedules.Create(context.Background(), sch))
	return sch.ID
}

// seedSchedule creates a schedule with one full chain down to a dated task.
func seedSchedule(t *testing.T, app *App, name string) (scheduleID, activityID, taskID string) {
	t.Helper()
	ctx := context.Background()

	sch := testutil.NewTestSchedule(name)
	require.NoError(t, app.Schedules.Create(ctx, sch))

	phase := testutil.NewTestNode(sch.ID, "Obra gruesa")
	require.NoError(t, app.Nodes.Create(ctx, phase))

	wb := testutil.NewTestNode(sch.ID, "Fundaciones",
		testutil.WithNodeKind(domain.NodeWorkBreakdown), testutil.WithParentID(phase.ID))
	require.NoError(t, app.Nodes.Create(ctx, wb))

	activity := testutil.NewTestNode(sch.ID, "Excavación",
		testutil.WithNodeKind(domain.NodeActivity), testutil.WithParentID(wb.ID))
	require.NoError(t, app.Nodes.Create(ctx, activity))

	task := testutil.NewTestTask(sch.ID, activity.ID, "Excavar zanjas",
		testutil.WithStartDate(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)),
		testutil.WithEstimatedHours(40))
	require.NoError(t, app.Nodes.Create(ctx, task))

	return sch.ID, activity.ID, task.ID
}
