package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/svelazco/cronos/internal/calendar"
	"github.com/svelazco/cronos/internal/domain"
)

// Schedule options
type ScheduleOption func(*domain.Schedule)

func WithScheduleKind(k domain.ScheduleKind) ScheduleOption {
	return func(s *domain.Schedule) {
		s.Kind = k
	}
}

func WithBaseline() ScheduleOption {
	return func(s *domain.Schedule) {
		s.Baseline = true
	}
}

func WithCalendarID(id string) ScheduleOption {
	return func(s *domain.Schedule) {
		s.CalendarID = &id
	}
}

func WithProjectRef(ref string) ScheduleOption {
	return func(s *domain.Schedule) {
		s.ProjectRef = ref
	}
}

func NewTestSchedule(name string, opts ...ScheduleOption) *domain.Schedule {
	now := time.Now().UTC()
	s := &domain.Schedule{
		ID:        uuid.New().String(),
		Name:      name,
		Kind:      domain.ScheduleCommercial,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScheduleNode options
type NodeOption func(*domain.ScheduleNode)

func WithNodeKind(k domain.NodeKind) NodeOption {
	return func(n *domain.ScheduleNode) {
		n.Kind = k
	}
}

func WithParentID(id string) NodeOption {
	return func(n *domain.ScheduleNode) {
		n.ParentID = &id
	}
}

func WithOrderIndex(i int) NodeOption {
	return func(n *domain.ScheduleNode) {
		n.OrderIndex = i
	}
}

func WithDates(start, end time.Time) NodeOption {
	return func(n *domain.ScheduleNode) {
		n.StartDate = &start
		n.EndDate = &end
	}
}

func WithStartDate(d time.Time) NodeOption {
	return func(n *domain.ScheduleNode) {
		n.StartDate = &d
	}
}

func WithEstimatedHours(h float64) NodeOption {
	return func(n *domain.ScheduleNode) {
		n.EstimatedHours = h
	}
}

func WithProgress(p float64) NodeOption {
	return func(n *domain.ScheduleNode) {
		n.ProgressPercent = p
	}
}

func WithNodeStatus(s domain.NodeStatus) NodeOption {
	return func(n *domain.ScheduleNode) {
		n.Status = s
	}
}

func WithPriority(p domain.NodePriority) NodeOption {
	return func(n *domain.ScheduleNode) {
		n.Priority = p
	}
}

func WithSourceItemRef(ref string) NodeOption {
	return func(n *domain.ScheduleNode) {
		n.SourceItemRef = ref
	}
}

func NewTestNode(scheduleID, name string, opts ...NodeOption) *domain.ScheduleNode {
	now := time.Now().UTC()
	n := &domain.ScheduleNode{
		ID:         uuid.New().String(),
		ScheduleID: scheduleID,
		Name:       name,
		Kind:       domain.NodePhase,
		Status:     domain.StatusPlanned,
		Priority:   domain.PriorityMedium,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewTestTask is shorthand for a task-kind node under the given parent.
func NewTestTask(scheduleID, parentID, name string, opts ...NodeOption) *domain.ScheduleNode {
	base := []NodeOption{WithNodeKind(domain.NodeTask), WithParentID(parentID)}
	return NewTestNode(scheduleID, name, append(base, opts...)...)
}

// Dependency options
type DependencyOption func(*domain.Dependency)

func WithDependencyType(t domain.DependencyType) DependencyOption {
	return func(d *domain.Dependency) {
		d.Type = t
	}
}

func WithLagDays(lag int) DependencyOption {
	return func(d *domain.Dependency) {
		d.LagDays = lag
	}
}

func NewTestDependency(scheduleID, sourceID, targetID string, opts ...DependencyOption) *domain.Dependency {
	d := &domain.Dependency{
		ID:           uuid.New().String(),
		ScheduleID:   scheduleID,
		SourceTaskID: sourceID,
		TargetTaskID: targetID,
		Type:         domain.FinishToStart,
		CreatedAt:    time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Calendar options
type CalendarOption func(*calendar.WorkingCalendar)

func WithHoursPerDay(h float64) CalendarOption {
	return func(c *calendar.WorkingCalendar) {
		c.HoursPerDay = h
	}
}

func WithHolidays(dates ...time.Time) CalendarOption {
	return func(c *calendar.WorkingCalendar) {
		c.Holidays = dates
	}
}

func WithWorkingDays(days ...time.Weekday) CalendarOption {
	return func(c *calendar.WorkingCalendar) {
		c.WorkingDays = make(map[time.Weekday]bool, len(days))
		for _, d := range days {
			c.WorkingDays[d] = true
		}
	}
}

func NewTestCalendar(name string, opts ...CalendarOption) *calendar.WorkingCalendar {
	now := time.Now().UTC()
	c := calendar.Default()
	c.ID = uuid.New().String()
	c.Name = name
	c.CreatedAt = now
	c.UpdatedAt = now
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}
