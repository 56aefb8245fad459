package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svelazco/cronos/internal/catalog"
	"github.com/svelazco/cronos/internal/domain"
	"github.com/svelazco/cronos/internal/testutil"
)

func testCatalogItems() []domain.CatalogItem {
	return []domain.CatalogItem{
		{ID: "i1", Name: "Excavación", Category: "Movimiento de tierra", Quantity: 1, EstimatedHours: 8},
		{ID: "i2", Name: "Relleno", Category: "Movimiento de tierra", Quantity: 1, EstimatedHours: 16},
		{ID: "i3", Name: "Hormigonado", Category: "Estructura", Quantity: 1, EstimatedHours: 8},
	}
}

func TestGenerateService_FromCatalog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sch := testutil.NewTestSchedule("Casa Norte")
	require.NoError(t, env.schedules.Create(ctx, sch))

	result, err := env.generate.FromCatalog(ctx, sch.ID, testCatalogItems(), testDate(2025, 6, 2))
	require.NoError(t, err)

	// 1 phase + 2 categories x (work breakdown + activity) + 3 tasks.
	assert.Equal(t, 8, result.NodeCount)
	// Sibling chaining links the two earthworks tasks.
	assert.Equal(t, 1, result.DependencyCount)

	nodes, err := env.nodeRepo.ListBySchedule(ctx, sch.ID)
	require.NoError(t, err)
	assert.Len(t, nodes, 8)

	kinds := make(map[domain.NodeKind]int)
	for _, n := range nodes {
		kinds[n.Kind]++
	}
	assert.Equal(t, 1, kinds[domain.NodePhase])
	assert.Equal(t, 2, kinds[domain.NodeWorkBreakdown])
	assert.Equal(t, 2, kinds[domain.NodeActivity])
	assert.Equal(t, 3, kinds[domain.NodeTask])
}

func TestGenerateService_FromCatalogRequiresEmptySchedule(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scheduleID, _, _, _ := newTestTree(t, env)

	_, err := env.generate.FromCatalog(ctx, scheduleID, testCatalogItems(), testDate(2025, 6, 2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reset it before generating")
}

func TestGenerateService_Quick(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sch := testutil.NewTestSchedule("Casa Norte")
	require.NoError(t, env.schedules.Create(ctx, sch))

	result, err := env.generate.Quick(ctx, sch.ID, testCatalogItems(), testDate(2025, 6, 2), testDate(2025, 7, 31))
	require.NoError(t, err)
	assert.Equal(t, 8, result.NodeCount)
	assert.Equal(t, 0, result.DependencyCount)

	deps, err := env.depRepo.ListBySchedule(ctx, sch.ID)
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func TestGenerateService_Advanced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sch := testutil.NewTestSchedule("Casa Norte")
	require.NoError(t, env.schedules.Create(ctx, sch))

	userDeps := []catalog.Dependency{
		{SourceItemID: "i1", TargetItemID: "i3", Type: domain.FinishToStart, LagDays: 2},
	}
	result, err := env.generate.Advanced(ctx, sch.ID, testCatalogItems(), testDate(2025, 6, 2), userDeps)
	require.NoError(t, err)
	assert.Equal(t, 8, result.NodeCount)
	assert.Equal(t, 1, result.DependencyCount)

	deps, err := env.depRepo.ListBySchedule(ctx, sch.ID)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, 2, deps[0].LagDays)
}

func TestGenerateService_AdvancedRejectsUnknownItemRef(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sch := testutil.NewTestSchedule("Casa Norte")
	require.NoError(t, env.schedules.Create(ctx, sch))

	userDeps := []catalog.Dependency{
		{SourceItemID: "i1", TargetItemID: "missing", Type: domain.FinishToStart},
	}
	_, err := env.generate.Advanced(ctx, sch.ID, testCatalogItems(), testDate(2025, 6, 2), userDeps)
	require.Error(t, err)

	// The failed run leaves nothing behind.
	nodes, listErr := env.nodeRepo.ListBySchedule(ctx, sch.ID)
	require.NoError(t, listErr)
	assert.Empty(t, nodes)
}

func TestGenerateService_FromFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sch := testutil.NewTestSchedule("Casa Norte")
	require.NoError(t, env.schedules.Create(ctx, sch))

	path := filepath.Join(t.TempDir(), "catalog.json")
	content := `{
		"items": [
			{"id": "i1", "name": "Excavación", "category": "Movimiento de tierra", "estimated_hours": 8},
			{"id": "i2", "name": "Hormigonado", "category": "Estructura", "estimated_hours": 16}
		],
		"dependencies": [
			{"source_item_id": "i1", "target_item_id": "i2"}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	result, err := env.generate.FromFile(ctx, FileRequest{
		ScheduleID: sch.ID,
		Path:       path,
		Mode:       ModeAdvanced,
		StartDate:  testDate(2025, 6, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, 7, result.NodeCount)
	assert.Equal(t, 1, result.DependencyCount)
}

func TestGenerateService_FromFileRejectsInvalidCatalog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sch := testutil.NewTestSchedule("Casa Norte")
	require.NoError(t, env.schedules.Create(ctx, sch))

	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"items": [{"id": "", "name": ""}]}`), 0o644))

	_, err := env.generate.FromFile(ctx, FileRequest{ScheduleID: sch.ID, Path: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid catalog file")
}

func TestGenerateService_FromFileUnknownMode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sch := testutil.NewTestSchedule("Casa Norte")
	require.NoError(t, env.schedules.Create(ctx, sch))

	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"items": [{"id": "i1", "name": "X", "estimated_hours": 8}]}`), 0o644))

	_, err := env.generate.FromFile(ctx, FileRequest{ScheduleID: sch.ID, Path: path, Mode: "random"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown generate mode")
}
