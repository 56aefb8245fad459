package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/svelazco/cronos/internal/db"
	"github.com/svelazco/cronos/internal/domain"
	"github.com/svelazco/cronos/internal/repository"
	"github.com/svelazco/cronos/internal/testutil"
)

// testEnv wires the full service stack over one in-memory database.
type testEnv struct {
	db        *sql.DB
	uow       db.UnitOfWork
	calendars CalendarService
	schedules ScheduleService
	nodes     NodeService
	deps      DependencyService
	generate  GenerateService
	export    ExportService
	gantt     ProjectionService

	nodeRepo repository.NodeRepo
	depRepo  repository.DependencyRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	nodeRepo := repository.NewSQLiteNodeRepo(database)
	depRepo := repository.NewSQLiteDependencyRepo(database)

	return &testEnv{
		db:        database,
		uow:       uow,
		calendars: NewCalendarService(repository.NewSQLiteCalendarRepo(database)),
		schedules: NewScheduleService(repository.NewSQLiteScheduleRepo(database), uow),
		nodes:     NewNodeService(nodeRepo, uow),
		deps:      NewDependencyService(depRepo, uow),
		generate:  NewGenerateService(uow),
		export:    NewExportService(uow),
		gantt:     NewProjectionService(uow),
		nodeRepo:  nodeRepo,
		depRepo:   depRepo,
	}
}

// newTestTree creates a schedule with one phase/work-breakdown/activity
// chain and returns their ids.
func newTestTree(t *testing.T, env *testEnv) (scheduleID, phaseID, wbID, activityID string) {
	t.Helper()
	ctx := context.Background()

	sch := testutil.NewTestSchedule("Casa Norte")
	require.NoError(t, env.schedules.Create(ctx, sch))
	return seedChain(t, env, sch.ID)
}

// addTestTask creates a dated task under the given activity.
func addTestTask(t *testing.T, env *testEnv, scheduleID, activityID, name string, start time.Time, hours float64) *domain.ScheduleNode {
	t.Helper()
	task := testutil.NewTestTask(scheduleID, activityID, name,
		testutil.WithStartDate(start), testutil.WithEstimatedHours(hours))
	require.NoError(t, env.nodes.Create(context.Background(), task))
	return task
}

func testDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
