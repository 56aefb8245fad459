package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/svelazco/cronos/internal/calendar"
	"github.com/svelazco/cronos/internal/domain"
)

// CatalogDependency is a user-authored edge for advanced generation,
// expressed in catalog item ids and mapped to the generated tasks.
type CatalogDependency struct {
	SourceItemID string
	TargetItemID string
	Type         domain.DependencyType
	LagDays      int
}

// GenerateFromCatalog builds the initial tree from flat catalog items: one
// phase, one work-breakdown element per category (input order), one activity
// per element, one task per item carrying its sourceItemRef. Consecutive
// sibling tasks are chained FS with +1 day of lag; the first child of any
// parent starts at its parent's start. Requires an empty schedule.
func (e *Engine) GenerateFromCatalog(items []domain.CatalogItem, startDate time.Time) error {
	if err := e.requireEmpty(); err != nil {
		return err
	}
	anchor := e.cal.NextWorkingDay(calendar.DateOnly(startDate))

	_, groups := e.buildSkeleton(items)
	for _, grp := range groups {
		cursor := anchor
		var prev *domain.ScheduleNode
		for _, item := range grp.items {
			task := e.newTask(grp.activity, item)
			task.StartDate = timePtr(cursor)
			if err := e.CreateNode(task); err != nil {
				e.rollbackGeneration()
				return err
			}
			if prev != nil {
				dep := &domain.Dependency{
					ID:           uuid.New().String(),
					ScheduleID:   e.schedule.ID,
					SourceTaskID: prev.ID,
					TargetTaskID: task.ID,
					Type:         domain.FinishToStart,
					LagDays:      1,
					CreatedAt:    time.Now().UTC(),
				}
				if err := e.AddDependency(dep); err != nil {
					e.rollbackGeneration()
					return err
				}
			}
			prev = task
			if task.EndDate != nil {
				cursor = e.cal.NextWorkingDay(task.EndDate.AddDate(0, 0, 1))
			}
		}
	}
	e.RecomputeAll()
	return nil
}

// GenerateQuick builds the same tree but spreads task starts evenly across
// the bounding window, with no dependencies.
func (e *Engine) GenerateQuick(items []domain.CatalogItem, windowStart, windowEnd time.Time) error {
	if err := e.requireEmpty(); err != nil {
		return err
	}
	windowStart = calendar.DateOnly(windowStart)
	windowEnd = calendar.DateOnly(windowEnd)
	if !windowEnd.After(windowStart) {
		return fmt.Errorf("window end %s is not after start %s",
			windowEnd.Format("2006-01-02"), windowStart.Format("2006-01-02"))
	}

	_, groups := e.buildSkeleton(items)
	windowDays := int(windowEnd.Sub(windowStart).Hours() / 24)
	for _, grp := range groups {
		step := windowDays / len(grp.items)
		for i, item := range grp.items {
			task := e.newTask(grp.activity, item)
			start := e.cal.NextWorkingDay(windowStart.AddDate(0, 0, i*step))
			task.StartDate = timePtr(start)
			if err := e.CreateNode(task); err != nil {
				e.rollbackGeneration()
				return err
			}
		}
	}
	e.RecomputeAll()
	return nil
}

// GenerateAdvanced builds the tree without implicit sibling chaining and
// admits the user-authored dependency set through the standard validation
// path. Any rejected edge aborts the whole build.
func (e *Engine) GenerateAdvanced(items []domain.CatalogItem, startDate time.Time, userDeps []CatalogDependency) error {
	if err := e.requireEmpty(); err != nil {
		return err
	}
	anchor := e.cal.NextWorkingDay(calendar.DateOnly(startDate))

	_, groups := e.buildSkeleton(items)
	taskByItem := make(map[string]string)
	for _, grp := range groups {
		for _, item := range grp.items {
			task := e.newTask(grp.activity, item)
			task.StartDate = timePtr(anchor)
			if err := e.CreateNode(task); err != nil {
				e.rollbackGeneration()
				return err
			}
			taskByItem[item.ID] = task.ID
		}
	}
	for _, ud := range userDeps {
		srcID, okSrc := taskByItem[ud.SourceItemID]
		if !okSrc {
			e.rollbackGeneration()
			return fmt.Errorf("catalog item %s: %w", ud.SourceItemID, domain.ErrInvalidNodeReference)
		}
		tgtID, okTgt := taskByItem[ud.TargetItemID]
		if !okTgt {
			e.rollbackGeneration()
			return fmt.Errorf("catalog item %s: %w", ud.TargetItemID, domain.ErrInvalidNodeReference)
		}
		dep := &domain.Dependency{
			ID:           uuid.New().String(),
			ScheduleID:   e.schedule.ID,
			SourceTaskID: srcID,
			TargetTaskID: tgtID,
			Type:         ud.Type,
			LagDays:      ud.LagDays,
			CreatedAt:    time.Now().UTC(),
		}
		if err := e.AddDependency(dep); err != nil {
			e.rollbackGeneration()
			return err
		}
	}
	e.RecomputeAll()
	return nil
}

type catalogGroup struct {
	activity *domain.ScheduleNode
	items    []domain.CatalogItem
}

// buildSkeleton creates the phase / work-breakdown / activity levels for the
// item set and returns the activity each item group hangs under. Categories
// keep first-appearance order.
func (e *Engine) buildSkeleton(items []domain.CatalogItem) (*domain.ScheduleNode, []catalogGroup) {
	phase := e.newNode(domain.NodePhase, nil, domain.CoalesceStr(e.schedule.Name, "Phase 1"))
	// CreateNode on a phase cannot fail on an empty tree.
	_ = e.CreateNode(phase)

	var order []string
	grouped := make(map[string][]domain.CatalogItem)
	for _, item := range items {
		cat := domain.CoalesceStr(item.Category, "General")
		if _, seen := grouped[cat]; !seen {
			order = append(order, cat)
		}
		grouped[cat] = append(grouped[cat], item)
	}

	groups := make([]catalogGroup, 0, len(order))
	for _, cat := range order {
		wbe := e.newNode(domain.NodeWorkBreakdown, &phase.ID, cat)
		_ = e.CreateNode(wbe)
		activity := e.newNode(domain.NodeActivity, &wbe.ID, cat)
		_ = e.CreateNode(activity)
		groups = append(groups, catalogGroup{activity: activity, items: grouped[cat]})
	}
	return phase, groups
}

func (e *Engine) newNode(kind domain.NodeKind, parentID *string, name string) *domain.ScheduleNode {
	now := time.Now().UTC()
	return &domain.ScheduleNode{
		ID:         uuid.New().String(),
		ScheduleID: e.schedule.ID,
		ParentID:   parentID,
		Kind:       kind,
		Name:       name,
		Status:     domain.StatusPlanned,
		Priority:   domain.PriorityMedium,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (e *Engine) newTask(activity *domain.ScheduleNode, item domain.CatalogItem) *domain.ScheduleNode {
	task := e.newNode(domain.NodeTask, &activity.ID, item.Name)
	task.EstimatedHours = item.EstimatedHours
	task.SourceItemRef = item.ID
	return task
}

func (e *Engine) requireEmpty() error {
	if len(e.nodes) > 0 {
		return fmt.Errorf("schedule %s already has %d nodes; reset it before generating", e.schedule.ID, len(e.nodes))
	}
	return nil
}

// rollbackGeneration clears everything built so far. Generation only runs
// on an empty schedule, so wiping the state restores the pre-call engine.
func (e *Engine) rollbackGeneration() {
	e.nodes = make(map[string]*domain.ScheduleNode)
	e.children = make(map[string][]string)
	e.deps = make(map[string]*domain.Dependency)
	e.depOrder = nil
	e.outgoing = make(map[string][]string)
	e.incoming = make(map[string][]string)
	e.changes = newChangeLog()
}

func timePtr(t time.Time) *time.Time { return &t }
