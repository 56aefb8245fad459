package engine

import (
	"fmt"
	"sort"

	"github.com/svelazco/cronos/internal/domain"
)

// AddDependency validates and admits an edge between two task nodes, then
// enforces the new constraint by propagating from the source. Rejections
// leave the graph untouched.
//
// Validation order: self-loop, endpoint references, duplicate (checked in
// both directions), cycle.
func (e *Engine) AddDependency(d *domain.Dependency) error {
	if d.ID == "" {
		return fmt.Errorf("dependency id is required")
	}
	if d.SourceTaskID == d.TargetTaskID {
		return fmt.Errorf("task %s: %w", d.SourceTaskID, domain.ErrSelfDependency)
	}
	for _, id := range []string{d.SourceTaskID, d.TargetTaskID} {
		n, ok := e.nodes[id]
		if !ok || !n.IsTask() || n.ScheduleID != e.schedule.ID {
			return fmt.Errorf("node %s: %w", id, domain.ErrInvalidNodeReference)
		}
	}
	if !domain.ValidDependencyTypes[string(d.Type)] {
		return fmt.Errorf("unknown dependency type %q", d.Type)
	}
	for _, existing := range e.deps {
		if existing.Type != d.Type {
			continue
		}
		sameDir := existing.SourceTaskID == d.SourceTaskID && existing.TargetTaskID == d.TargetTaskID
		reversed := existing.SourceTaskID == d.TargetTaskID && existing.TargetTaskID == d.SourceTaskID
		if sameDir || reversed {
			return fmt.Errorf("%s -> %s (%s): %w", d.SourceTaskID, d.TargetTaskID, d.Type, domain.ErrDuplicateDependency)
		}
	}
	if e.wouldCycle(d.SourceTaskID, d.TargetTaskID) {
		return fmt.Errorf("%s -> %s: %w", d.SourceTaskID, d.TargetTaskID, domain.ErrCycle)
	}

	e.indexDependency(d)
	e.markDepCreated(d.ID)
	e.Propagate()
	return nil
}

// RemoveDependency deletes an edge unconditionally; removing an edge can
// never introduce a cycle, so no re-validation runs.
func (e *Engine) RemoveDependency(id string) error {
	d, ok := e.deps[id]
	if !ok {
		return fmt.Errorf("dependency %s: %w", id, domain.ErrInvalidNodeReference)
	}
	e.unindexDependency(d)
	e.markDepDeleted(id)
	return nil
}

// wouldCycle reports whether adding source -> target would close a cycle in
// the task graph. DFS over the provisional adjacency with the classic
// white/gray/black coloring; O(V+E).
func (e *Engine) wouldCycle(source, target string) bool {
	adjacency := make(map[string][]string, len(e.outgoing))
	for src, depIDs := range e.outgoing {
		for _, depID := range depIDs {
			adjacency[src] = append(adjacency[src], e.deps[depID].TargetTaskID)
		}
	}
	adjacency[source] = append(adjacency[source], target)

	const (
		white = 0 // unvisited
		gray  = 1 // in current path
		black = 2 // fully processed
	)
	color := make(map[string]int, len(adjacency))

	var visit func(node string) bool
	visit = func(node string) bool {
		color[node] = gray
		for _, neighbor := range adjacency[node] {
			if color[neighbor] == gray {
				return true
			}
			if color[neighbor] == white && visit(neighbor) {
				return true
			}
		}
		color[node] = black
		return false
	}

	for node := range adjacency {
		if color[node] == white && visit(node) {
			return true
		}
	}
	return false
}

// topoOrder returns every task id in a topological order of the dependency
// graph (Kahn's algorithm). The graph is guaranteed acyclic by admission
// checks; ties break lexicographically so the order is deterministic.
func (e *Engine) topoOrder() []string {
	indegree := make(map[string]int)
	for _, n := range e.nodes {
		if n.IsTask() {
			indegree[n.ID] = 0
		}
	}
	for _, d := range e.deps {
		indegree[d.TargetTaskID]++
	}

	ready := make([]string, 0, len(indegree))
	for id, deg := range indegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(indegree))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		next := make([]string, 0)
		for _, depID := range e.outgoing[id] {
			tgt := e.deps[depID].TargetTaskID
			indegree[tgt]--
			if indegree[tgt] == 0 {
				next = append(next, tgt)
			}
		}
		sort.Strings(next)
		ready = mergeSorted(ready, next)
	}
	return order
}

func mergeSorted(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}
