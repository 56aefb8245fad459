package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/svelazco/cronos/internal/calendar"
	"github.com/svelazco/cronos/internal/domain"
)

// Builds a phase with two work-breakdown elements spanning
// [Jan 1–Jan 10, 40h] and [Jan 5–Jan 20, 24h].
func buildAggregationFixture(t *testing.T) (*Engine, *domain.ScheduleNode) {
	t.Helper()
	s := testSchedule()
	phase := node(s.ID, domain.NodePhase, nil, "Phase")
	w1 := node(s.ID, domain.NodeWorkBreakdown, &phase.ID, "EDT 1")
	w2 := node(s.ID, domain.NodeWorkBreakdown, &phase.ID, "EDT 2")
	w1.OrderIndex, w2.OrderIndex = 1, 2
	set := func(n *domain.ScheduleNode, from, to time.Time, hours float64) {
		n.StartDate, n.EndDate, n.EstimatedHours = &from, &to, hours
	}
	set(w1, date(2025, time.January, 1), date(2025, time.January, 10), 40)
	set(w2, date(2025, time.January, 5), date(2025, time.January, 20), 24)

	e := New(s, []*domain.ScheduleNode{phase, w1, w2}, nil, calendar.Default())
	return e, phase
}

func TestRecomputeAll_AggregatesDatesAndHours(t *testing.T) {
	e, phase := buildAggregationFixture(t)
	e.RecomputeAll()

	got := e.Node(phase.ID)
	require.NotNil(t, got.StartDate)
	require.NotNil(t, got.EndDate)
	assert.True(t, got.StartDate.Equal(date(2025, time.January, 1)))
	assert.True(t, got.EndDate.Equal(date(2025, time.January, 20)))
	assert.Equal(t, 64.0, got.EstimatedHours)
}

func TestRecomputeAll_Idempotent(t *testing.T) {
	e, phase := buildAggregationFixture(t)
	e.RecomputeAll()
	e.TakeChanges()

	e.RecomputeAll()
	changes := e.TakeChanges()
	assert.True(t, changes.Empty(), "second pass on a consistent tree must be a no-op")

	got := e.Node(phase.ID)
	assert.True(t, got.StartDate.Equal(date(2025, time.January, 1)))
	assert.Equal(t, 64.0, got.EstimatedHours)
}

func TestRollup_NullDatesIgnored(t *testing.T) {
	e := emptyEngine()
	activity := addChain(t, e)
	start := monday
	addTask(t, e, activity, "dated", &start, 8)
	addTask(t, e, activity, "undated", nil, 4)

	act := e.Node(activity.ID)
	require.NotNil(t, act.StartDate)
	assert.True(t, act.StartDate.Equal(monday))
	assert.Equal(t, 12.0, act.EstimatedHours, "hours aggregate regardless of dates")
}

func TestRollup_ProgressHoursWeighted(t *testing.T) {
	e := emptyEngine()
	activity := addChain(t, e)
	a := addTask(t, e, activity, "A", nil, 30)
	b := addTask(t, e, activity, "B", nil, 10)

	pa, pb := *a, *b
	pa.ProgressPercent = 100
	pb.ProgressPercent = 0
	require.NoError(t, e.UpdateNode(&pa))
	require.NoError(t, e.UpdateNode(&pb))

	assert.InDelta(t, 75.0, e.Node(activity.ID).ProgressPercent, 1e-9)
}

func TestRollup_ProgressUnweightedWhenNoHours(t *testing.T) {
	e := emptyEngine()
	activity := addChain(t, e)
	a := addTask(t, e, activity, "A", nil, 0)
	b := addTask(t, e, activity, "B", nil, 0)

	pa, pb := *a, *b
	pa.ProgressPercent = 100
	pb.ProgressPercent = 50
	require.NoError(t, e.UpdateNode(&pa))
	require.NoError(t, e.UpdateNode(&pb))

	assert.InDelta(t, 75.0, e.Node(activity.ID).ProgressPercent, 1e-9)
}

func TestRollup_StatusDoesNotGateAggregation(t *testing.T) {
	e := emptyEngine()
	activity := addChain(t, e)
	start := monday
	a := addTask(t, e, activity, "A", &start, 8)

	pa := *a
	pa.Status = domain.StatusCancelled
	require.NoError(t, e.UpdateNode(&pa))

	act := e.Node(activity.ID)
	assert.Equal(t, 8.0, act.EstimatedHours, "cancelled tasks still roll up")
	require.NotNil(t, act.StartDate)
}

func TestValidate_CleanTree(t *testing.T) {
	e, _ := buildAggregationFixture(t)
	e.RecomputeAll()
	assert.Empty(t, e.Validate())
}

func TestValidate_DetectsStaleAggregates(t *testing.T) {
	e, phase := buildAggregationFixture(t)
	e.RecomputeAll()

	// Corrupt the parent directly, bypassing the engine API.
	e.Node(phase.ID).EstimatedHours = 1
	findings := e.Validate()
	require.NotEmpty(t, findings)
	assert.ErrorIs(t, findings[0], domain.ErrRollupInconsistency)
}

func TestRepair_RestoresConsistency(t *testing.T) {
	e, phase := buildAggregationFixture(t)
	e.RecomputeAll()
	e.Node(phase.ID).EstimatedHours = 1

	residual := e.Repair()
	assert.Empty(t, residual)
	assert.Equal(t, 64.0, e.Node(phase.ID).EstimatedHours)
}

func TestRepair_DropsOrphanedDependencies(t *testing.T) {
	e := emptyEngine()
	activity := addChain(t, e)
	a := addTask(t, e, activity, "A", nil, 8)
	b := addTask(t, e, activity, "B", nil, 8)
	d := dep(e, a, b, domain.FinishToStart, 0)
	require.NoError(t, e.AddDependency(d))

	// Simulate an orphan as it would arrive from storage corruption.
	delete(e.nodes, b.ID)
	e.children[activity.ID] = removeID(e.children[activity.ID], b.ID)

	residual := e.Repair()
	assert.Empty(t, residual)
	assert.Empty(t, e.Dependencies())
}
