package engine

import (
	"time"

	"github.com/svelazco/cronos/internal/calendar"
	"github.com/svelazco/cronos/internal/domain"
)

// Propagate walks the task graph once in topological order and pushes every
// task forward to the minimum date satisfying its incoming constraints:
//
//	FS: target.start >= source.end   + lag
//	SS: target.start >= source.start + lag
//	FF: target.end   >= source.end   + lag
//	SF: target.end   >= source.start + lag
//
// A violated task's start is shifted forward (never backward), its duration
// held constant by re-deriving the end from its hours, and its ancestors
// re-rolled. Tasks or sources with unresolved dates are skipped. Because the
// graph is acyclic and the walk is topological, each task is resolved exactly
// once per pass and the pass is idempotent.
func (e *Engine) Propagate() {
	var shifted []string
	for _, id := range e.topoOrder() {
		task := e.nodes[id]
		if task == nil || task.StartDate == nil {
			continue
		}

		minStart, minEnd := e.requiredBounds(id)
		if minStart == nil && minEnd == nil {
			continue
		}

		newStart := *task.StartDate
		if minStart != nil && newStart.Before(*minStart) {
			newStart = *minStart
		}
		newEnd := e.endFor(task, newStart)
		if minEnd != nil && newEnd.Before(*minEnd) {
			// Jump by the raw gap first, then settle on non-working days.
			gap := int(minEnd.Sub(newEnd).Hours() / 24)
			if gap > 0 {
				newStart = newStart.AddDate(0, 0, gap)
				newEnd = e.endFor(task, newStart)
			}
			for newEnd.Before(*minEnd) {
				newStart = newStart.AddDate(0, 0, 1)
				newEnd = e.endFor(task, newStart)
			}
		}

		if newStart.Equal(*task.StartDate) && sameDate(task.EndDate, &newEnd) {
			continue
		}
		task.StartDate = &newStart
		task.EndDate = &newEnd
		e.touch(task)
		e.markUpdated(id)
		shifted = append(shifted, id)
	}

	for _, id := range shifted {
		e.rollupAncestors(id)
	}
}

// requiredBounds computes the strongest start and end lower bounds imposed
// by the task's incoming edges. Edges whose source side is unresolved
// contribute nothing.
func (e *Engine) requiredBounds(taskID string) (minStart, minEnd *time.Time) {
	for _, depID := range e.incoming[taskID] {
		d := e.deps[depID]
		src := e.nodes[d.SourceTaskID]
		if src == nil {
			continue
		}
		var base *time.Time
		switch d.Type {
		case domain.FinishToStart, domain.FinishToFinish:
			base = src.EndDate
		case domain.StartToStart, domain.StartToFinish:
			base = src.StartDate
		}
		if base == nil {
			continue
		}
		required := base.AddDate(0, 0, d.LagDays)
		switch d.Type {
		case domain.FinishToStart, domain.StartToStart:
			if minStart == nil || required.After(*minStart) {
				minStart = &required
			}
		case domain.FinishToFinish, domain.StartToFinish:
			if minEnd == nil || required.After(*minEnd) {
				minEnd = &required
			}
		}
	}
	return minStart, minEnd
}

// endFor derives the end a task would have if it started at the given date.
// Zero-hour tasks keep their current span length, measured in calendar days.
func (e *Engine) endFor(task *domain.ScheduleNode, start time.Time) time.Time {
	if task.EstimatedHours > 0 {
		return calendar.ComputeEndDate(start, task.EstimatedHours, e.cal)
	}
	if task.StartDate != nil && task.EndDate != nil {
		span := int(task.EndDate.Sub(*task.StartDate).Hours() / 24)
		return start.AddDate(0, 0, span)
	}
	return start
}
