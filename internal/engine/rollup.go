package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/svelazco/cronos/internal/calendar"
	"github.com/svelazco/cronos/internal/domain"
)

// hoursEpsilon bounds float drift tolerated when comparing aggregated hours.
const hoursEpsilon = 1e-6

// resolveLeafDates applies the leaf date rule: a task with a resolved start
// and positive hours gets its end derived via the calendar. Non-task nodes
// without children keep whatever span they were given until children arrive.
func (e *Engine) resolveLeafDates(n *domain.ScheduleNode) {
	if !n.IsTask() || len(e.children[n.ID]) > 0 {
		return
	}
	if n.StartDate == nil || n.EstimatedHours <= 0 {
		return
	}
	end := calendar.ComputeEndDate(*n.StartDate, n.EstimatedHours, e.cal)
	if n.EndDate == nil || !n.EndDate.Equal(end) {
		n.EndDate = &end
		e.touch(n)
		e.markUpdated(n.ID)
	}
}

// recomputeParent rebuilds one non-leaf node's aggregates from its children:
// start = earliest child start, end = latest child end (nulls ignored),
// hours = sum, progress = hours-weighted mean. Reports whether dates moved.
func (e *Engine) recomputeParent(p *domain.ScheduleNode) bool {
	children := e.Children(p.ID)
	if len(children) == 0 {
		// The node just lost its last child; derived aggregates are stale.
		if p.IsTask() {
			return false
		}
		changed := p.StartDate != nil || p.EndDate != nil ||
			p.EstimatedHours != 0 || p.ProgressPercent != 0
		if changed {
			p.StartDate, p.EndDate = nil, nil
			p.EstimatedHours, p.ProgressPercent = 0, 0
			e.touch(p)
			e.markUpdated(p.ID)
		}
		return changed
	}

	var start, end *time.Time
	var hours, weighted, weight float64
	var plainSum float64
	for _, c := range children {
		if c.StartDate != nil && (start == nil || c.StartDate.Before(*start)) {
			s := *c.StartDate
			start = &s
		}
		if c.EndDate != nil && (end == nil || c.EndDate.After(*end)) {
			en := *c.EndDate
			end = &en
		}
		hours += c.EstimatedHours
		weighted += c.ProgressPercent * c.EstimatedHours
		weight += c.EstimatedHours
		plainSum += c.ProgressPercent
	}
	progress := plainSum / float64(len(children))
	if weight > 0 {
		progress = weighted / weight
	}

	datesMoved := !sameDate(p.StartDate, start) || !sameDate(p.EndDate, end)
	changed := datesMoved ||
		math.Abs(p.EstimatedHours-hours) > hoursEpsilon ||
		math.Abs(p.ProgressPercent-progress) > hoursEpsilon
	if changed {
		p.StartDate = start
		p.EndDate = end
		p.EstimatedHours = hours
		p.ProgressPercent = progress
		e.touch(p)
		e.markUpdated(p.ID)
	}
	return datesMoved
}

// rollupAncestors re-rolls every ancestor of the given node, bottom-up.
func (e *Engine) rollupAncestors(id string) {
	n := e.nodes[id]
	if n == nil {
		return
	}
	e.rollupChain(parentKey(n))
}

// rollupChain re-rolls the chain starting at the given node id (rootKey is
// a no-op) and continuing to the root.
func (e *Engine) rollupChain(id string) {
	for id != rootKey {
		n := e.nodes[id]
		if n == nil {
			return
		}
		e.recomputeParent(n)
		id = parentKey(n)
	}
}

// RecomputeAll performs a full post-order rollup of the tree. Running it on
// an already-consistent tree is a no-op.
func (e *Engine) RecomputeAll() {
	var visit func(id string)
	visit = func(id string) {
		for _, child := range e.children[id] {
			visit(child)
		}
		n := e.nodes[id]
		if n == nil {
			return
		}
		if len(e.children[id]) == 0 {
			e.resolveLeafDates(n)
			return
		}
		e.recomputeParent(n)
	}
	for _, id := range e.children[rootKey] {
		visit(id)
	}
}

// Validate checks the rollup invariants and dependency integrity without
// mutating anything. Each finding wraps ErrRollupInconsistency.
func (e *Engine) Validate() []error {
	var findings []error
	e.Walk(func(n *domain.ScheduleNode, _ int) {
		children := e.Children(n.ID)
		if len(children) == 0 {
			return
		}
		var start, end *time.Time
		var hours float64
		for _, c := range children {
			if c.StartDate != nil && (start == nil || c.StartDate.Before(*start)) {
				start = c.StartDate
			}
			if c.EndDate != nil && (end == nil || c.EndDate.After(*end)) {
				end = c.EndDate
			}
			hours += c.EstimatedHours
		}
		if !sameDate(n.StartDate, start) || !sameDate(n.EndDate, end) {
			findings = append(findings, fmt.Errorf("node %s (%s): dates diverge from children: %w", n.ID, n.Name, domain.ErrRollupInconsistency))
		}
		if math.Abs(n.EstimatedHours-hours) > hoursEpsilon {
			findings = append(findings, fmt.Errorf("node %s (%s): hours %.2f != children sum %.2f: %w", n.ID, n.Name, n.EstimatedHours, hours, domain.ErrRollupInconsistency))
		}
	})
	for _, d := range e.Dependencies() {
		src, tgt := e.nodes[d.SourceTaskID], e.nodes[d.TargetTaskID]
		if src == nil || tgt == nil || !src.IsTask() || !tgt.IsTask() {
			findings = append(findings, fmt.Errorf("dependency %s references a missing or non-task node: %w", d.ID, domain.ErrRollupInconsistency))
			continue
		}
		if viol := dependencyViolation(d, src, tgt); viol != "" {
			findings = append(findings, fmt.Errorf("dependency %s: %s: %w", d.ID, viol, domain.ErrRollupInconsistency))
		}
	}
	return findings
}

// dependencyViolation describes how the constraint for d is broken, or ""
// when it holds or either endpoint's dates are unresolved.
func dependencyViolation(d *domain.Dependency, src, tgt *domain.ScheduleNode) string {
	var bound, actual *time.Time
	var field string
	switch d.Type {
	case domain.FinishToStart:
		bound, actual, field = src.EndDate, tgt.StartDate, "start"
	case domain.StartToStart:
		bound, actual, field = src.StartDate, tgt.StartDate, "start"
	case domain.FinishToFinish:
		bound, actual, field = src.EndDate, tgt.EndDate, "end"
	case domain.StartToFinish:
		bound, actual, field = src.StartDate, tgt.EndDate, "end"
	default:
		return fmt.Sprintf("unknown type %q", d.Type)
	}
	if bound == nil || actual == nil {
		return ""
	}
	required := bound.AddDate(0, 0, d.LagDays)
	if actual.Before(required) {
		return fmt.Sprintf("target %s %s precedes required %s",
			field, actual.Format("2006-01-02"), required.Format("2006-01-02"))
	}
	return ""
}

// Repair attempts to restore consistency: orphaned dependencies are dropped,
// then a full rollup pass re-derives every aggregate. Residual findings (if
// any) are returned for the caller to surface as warnings.
func (e *Engine) Repair() []error {
	for _, d := range e.Dependencies() {
		src, tgt := e.nodes[d.SourceTaskID], e.nodes[d.TargetTaskID]
		if src == nil || tgt == nil || !src.IsTask() || !tgt.IsTask() {
			e.unindexDependency(d)
			e.markDepDeleted(d.ID)
		}
	}
	e.RecomputeAll()
	return e.Validate()
}
