package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svelazco/cronos/internal/calendar"
	"github.com/svelazco/cronos/internal/domain"
	"github.com/svelazco/cronos/internal/testutil"
)

func TestCalendarService_CreateAssignsDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := calendar.Default()
	c.Name = "obra"
	c.HoursPerDay = 0
	require.NoError(t, env.calendars.Create(ctx, &c))

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, calendar.DefaultHoursPerDay, c.HoursPerDay)

	got, err := env.calendars.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "obra", got.Name)
	assert.True(t, got.WorkingDays[time.Monday])
	assert.False(t, got.WorkingDays[time.Sunday])
}

func TestCalendarService_SixDayWeekShortensTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := calendar.Default()
	c.Name = "obra 6x1"
	c.WorkingDays[time.Saturday] = true
	require.NoError(t, env.calendars.Create(ctx, &c))

	sch := testutil.NewTestSchedule("Casa Norte", testutil.WithCalendarID(c.ID))
	require.NoError(t, env.schedules.Create(ctx, sch))
	_, _, _, activityID := seedChain(t, env, sch.ID)

	task := addTestTask(t, env, sch.ID, activityID, "Excavar zanjas",
		testDate(2025, 6, 2), 40)

	// Five 8h days from Mon Jun 2: Sat Jun 7 with Saturdays working,
	// Mon Jun 9 without.
	got, err := env.nodes.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EndDate)
	assert.True(t, got.EndDate.Equal(testDate(2025, 6, 7)))
}

func TestCalendarService_DeletedCalendarFallsBackToDefault(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := calendar.Default()
	c.Name = "obra 6x1"
	c.WorkingDays[time.Saturday] = true
	require.NoError(t, env.calendars.Create(ctx, &c))

	sch := testutil.NewTestSchedule("Casa Norte", testutil.WithCalendarID(c.ID))
	require.NoError(t, env.schedules.Create(ctx, sch))
	_, _, _, activityID := seedChain(t, env, sch.ID)

	require.NoError(t, env.calendars.Delete(ctx, c.ID))

	// Mutations on the schedule now resolve dates against the default
	// Mon-Fri calendar.
	task := addTestTask(t, env, sch.ID, activityID, "Excavar zanjas",
		testDate(2025, 6, 2), 40)

	got, err := env.nodes.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EndDate)
	assert.True(t, got.EndDate.Equal(testDate(2025, 6, 9)))
}

func TestCalendarService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := calendar.Default()
	c.Name = "obra"
	require.NoError(t, env.calendars.Create(ctx, &c))

	c.HoursPerDay = 9
	c.Holidays = append(c.Holidays, testDate(2025, 9, 18))
	require.NoError(t, env.calendars.Update(ctx, &c))

	got, err := env.calendars.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 9.0, got.HoursPerDay)
	require.Len(t, got.Holidays, 1)
	assert.True(t, got.Holidays[0].Equal(testDate(2025, 9, 18)))
}

// seedChain builds the phase/work-breakdown/activity chain on an existing
// schedule and returns the chain ids.
func seedChain(t *testing.T, env *testEnv, scheduleID string) (string, string, string, string) {
	t.Helper()
	ctx := context.Background()

	phase := testutil.NewTestNode(scheduleID, "Obra gruesa")
	require.NoError(t, env.nodes.Create(ctx, phase))
	wb := testutil.NewTestNode(scheduleID, "Fundaciones",
		testutil.WithNodeKind(domain.NodeWorkBreakdown), testutil.WithParentID(phase.ID))
	require.NoError(t, env.nodes.Create(ctx, wb))
	activity := testutil.NewTestNode(scheduleID, "Excavación",
		testutil.WithNodeKind(domain.NodeActivity), testutil.WithParentID(wb.ID))
	require.NoError(t, env.nodes.Create(ctx, activity))

	return scheduleID, phase.ID, wb.ID, activity.ID
}
