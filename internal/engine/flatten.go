package engine

import (
	"time"

	"github.com/svelazco/cronos/internal/domain"
)

// FlatNode is one row of the flattened node list consumed by interchange
// exporters (e.g. MS-Project XML writers). The engine owns the shape, not
// the serialization.
type FlatNode struct {
	ID              string              `json:"id"`
	ParentID        *string             `json:"parent_id,omitempty"`
	Kind            domain.NodeKind     `json:"kind"`
	Name            string              `json:"name"`
	OrderIndex      int                 `json:"order"`
	StartDate       *time.Time          `json:"start_date,omitempty"`
	EndDate         *time.Time          `json:"end_date,omitempty"`
	EstimatedHours  float64             `json:"estimated_hours"`
	ProgressPercent float64             `json:"progress_percent"`
	Status          domain.NodeStatus   `json:"status"`
	Priority        domain.NodePriority `json:"priority"`
	ResponsibleRef  string              `json:"responsible_ref,omitempty"`
	SourceItemRef   string              `json:"source_item_ref,omitempty"`
}

// FlatDependency is one row of the flattened dependency list.
type FlatDependency struct {
	ID           string                `json:"id"`
	SourceTaskID string                `json:"source_task_id"`
	TargetTaskID string                `json:"target_task_id"`
	Type         domain.DependencyType `json:"type"`
	LagDays      int                   `json:"lag_days"`
}

// Flatten returns the whole schedule as flat node and dependency lists,
// nodes in depth-first sibling order.
func (e *Engine) Flatten() ([]FlatNode, []FlatDependency) {
	var nodes []FlatNode
	e.Walk(func(n *domain.ScheduleNode, _ int) {
		nodes = append(nodes, FlatNode{
			ID:              n.ID,
			ParentID:        n.ParentID,
			Kind:            n.Kind,
			Name:            n.Name,
			OrderIndex:      n.OrderIndex,
			StartDate:       n.StartDate,
			EndDate:         n.EndDate,
			EstimatedHours:  n.EstimatedHours,
			ProgressPercent: n.ProgressPercent,
			Status:          n.Status,
			Priority:        n.Priority,
			ResponsibleRef:  n.ResponsibleRef,
			SourceItemRef:   n.SourceItemRef,
		})
	})
	deps := make([]FlatDependency, 0, len(e.deps))
	for _, d := range e.Dependencies() {
		deps = append(deps, FlatDependency{
			ID:           d.ID,
			SourceTaskID: d.SourceTaskID,
			TargetTaskID: d.TargetTaskID,
			Type:         d.Type,
			LagDays:      d.LagDays,
		})
	}
	return nodes, deps
}
