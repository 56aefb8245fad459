package domain

import "time"

// Dependency links two task-kind nodes of the same schedule.
// LagDays is a signed calendar-day offset; negative lag is lead time.
type Dependency struct {
	ID           string
	ScheduleID   string
	SourceTaskID string
	TargetTaskID string
	Type         DependencyType
	LagDays      int
	CreatedAt    time.Time
}
