package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/svelazco/cronos/internal/domain"
)

func TestAddDependency_SelfLoop(t *testing.T) {
	e := emptyEngine()
	activity := addChain(t, e)
	a := addTask(t, e, activity, "A", nil, 8)

	err := e.AddDependency(dep(e, a, a, domain.FinishToStart, 0))
	assert.ErrorIs(t, err, domain.ErrSelfDependency)
	assert.Empty(t, e.Dependencies())
}

func TestAddDependency_NonTaskEndpoint(t *testing.T) {
	e := emptyEngine()
	activity := addChain(t, e)
	a := addTask(t, e, activity, "A", nil, 8)

	d := dep(e, a, a, domain.FinishToStart, 0)
	d.TargetTaskID = activity.ID
	err := e.AddDependency(d)
	assert.ErrorIs(t, err, domain.ErrInvalidNodeReference)
}

func TestAddDependency_UnknownEndpoint(t *testing.T) {
	e := emptyEngine()
	activity := addChain(t, e)
	a := addTask(t, e, activity, "A", nil, 8)

	d := dep(e, a, a, domain.FinishToStart, 0)
	d.TargetTaskID = "ghost"
	assert.ErrorIs(t, e.AddDependency(d), domain.ErrInvalidNodeReference)
}

func TestAddDependency_DuplicateBothDirections(t *testing.T) {
	e := emptyEngine()
	activity := addChain(t, e)
	a := addTask(t, e, activity, "A", nil, 8)
	b := addTask(t, e, activity, "B", nil, 8)

	require.NoError(t, e.AddDependency(dep(e, a, b, domain.FinishToStart, 0)))

	// Exact duplicate.
	err := e.AddDependency(dep(e, a, b, domain.FinishToStart, 2))
	assert.ErrorIs(t, err, domain.ErrDuplicateDependency)

	// Reversed pair of the same type is also a duplicate.
	err = e.AddDependency(dep(e, b, a, domain.FinishToStart, 0))
	assert.ErrorIs(t, err, domain.ErrDuplicateDependency)

	// A different type between the same pair is allowed.
	require.NoError(t, e.AddDependency(dep(e, a, b, domain.FinishToFinish, 0)))
	assert.Len(t, e.Dependencies(), 2)
}

func TestAddDependency_RejectsCycle(t *testing.T) {
	e := emptyEngine()
	activity := addChain(t, e)
	a := addTask(t, e, activity, "A", nil, 8)
	b := addTask(t, e, activity, "B", nil, 8)
	c := addTask(t, e, activity, "C", nil, 8)

	require.NoError(t, e.AddDependency(dep(e, a, b, domain.FinishToStart, 0)))
	require.NoError(t, e.AddDependency(dep(e, b, c, domain.FinishToStart, 0)))

	before := e.Dependencies()
	err := e.AddDependency(dep(e, c, a, domain.FinishToStart, 0))
	assert.ErrorIs(t, err, domain.ErrCycle)

	after := e.Dependencies()
	require.Len(t, after, len(before), "rejected edge must leave the graph unchanged")
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
	}
}

func TestAddDependency_CycleAcrossTypes(t *testing.T) {
	e := emptyEngine()
	activity := addChain(t, e)
	a := addTask(t, e, activity, "A", nil, 8)
	b := addTask(t, e, activity, "B", nil, 8)

	require.NoError(t, e.AddDependency(dep(e, a, b, domain.FinishToStart, 0)))
	err := e.AddDependency(dep(e, b, a, domain.StartToStart, 0))
	assert.ErrorIs(t, err, domain.ErrCycle)
}

func TestAddDependency_LongChainStaysAcyclic(t *testing.T) {
	e := emptyEngine()
	activity := addChain(t, e)
	tasks := make([]*domain.ScheduleNode, 6)
	for i := range tasks {
		tasks[i] = addTask(t, e, activity, string(rune('A'+i)), nil, 8)
	}
	for i := 0; i < len(tasks)-1; i++ {
		require.NoError(t, e.AddDependency(dep(e, tasks[i], tasks[i+1], domain.FinishToStart, 0)))
	}
	// The immediate reversed pair is caught as a same-type duplicate
	// before cycle detection runs; farther back edges close a cycle.
	err := e.AddDependency(dep(e, tasks[1], tasks[0], domain.FinishToStart, 0))
	assert.ErrorIs(t, err, domain.ErrDuplicateDependency)
	for i := 2; i < len(tasks); i++ {
		err := e.AddDependency(dep(e, tasks[i], tasks[0], domain.FinishToStart, 0))
		assert.ErrorIs(t, err, domain.ErrCycle, "back edge from task %d", i)
	}
	assert.Len(t, e.Dependencies(), len(tasks)-1)
}

func TestRemoveDependency(t *testing.T) {
	e := emptyEngine()
	activity := addChain(t, e)
	a := addTask(t, e, activity, "A", nil, 8)
	b := addTask(t, e, activity, "B", nil, 8)

	d := dep(e, a, b, domain.FinishToStart, 0)
	require.NoError(t, e.AddDependency(d))
	require.NoError(t, e.RemoveDependency(d.ID))
	assert.Empty(t, e.Dependencies())

	// Reversed edge is admissible once the original is gone.
	require.NoError(t, e.AddDependency(dep(e, b, a, domain.FinishToStart, 0)))
}

func TestRemoveDependency_Unknown(t *testing.T) {
	e := emptyEngine()
	assert.ErrorIs(t, e.RemoveDependency("ghost"), domain.ErrInvalidNodeReference)
}

func TestTopoOrder_RespectsEdges(t *testing.T) {
	e := emptyEngine()
	activity := addChain(t, e)
	a := addTask(t, e, activity, "A", nil, 8)
	b := addTask(t, e, activity, "B", nil, 8)
	c := addTask(t, e, activity, "C", nil, 8)
	require.NoError(t, e.AddDependency(dep(e, a, c, domain.FinishToStart, 0)))
	require.NoError(t, e.AddDependency(dep(e, b, c, domain.FinishToStart, 0)))

	order := e.topoOrder()
	require.Len(t, order, 3)
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	assert.Less(t, pos[a.ID], pos[c.ID])
	assert.Less(t, pos[b.ID], pos[c.ID])
}
