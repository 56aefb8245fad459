package domain

import "time"

// ScheduleNode is one row of the 4-level work-breakdown hierarchy.
// ParentID is a non-owning lookup key; nil only for phase nodes.
// Dates are date-only values in UTC.
type ScheduleNode struct {
	ID         string
	ScheduleID string
	ParentID   *string
	Kind       NodeKind
	Name       string
	OrderIndex int

	StartDate *time.Time
	EndDate   *time.Time

	// EstimatedHours is authoritative on leaves and aggregated on parents.
	EstimatedHours  float64
	ProgressPercent float64

	Status   NodeStatus
	Priority NodePriority

	ResponsibleRef string
	SourceItemRef  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTask reports whether the node participates in the dependency graph.
func (n *ScheduleNode) IsTask() bool {
	return n.Kind == NodeTask
}
