package engine

import (
	"fmt"
	"time"

	"github.com/svelazco/cronos/internal/domain"
)

// CreateNode validates and inserts a node, then re-rolls the ancestor chain.
// Phase nodes must have no parent; every other kind must sit exactly one
// level below its parent. An OrderIndex of zero appends after the current
// siblings.
func (e *Engine) CreateNode(n *domain.ScheduleNode) error {
	if n.ID == "" {
		return fmt.Errorf("node id is required")
	}
	if _, exists := e.nodes[n.ID]; exists {
		return fmt.Errorf("node %s already exists", n.ID)
	}
	if n.ScheduleID != e.schedule.ID {
		return fmt.Errorf("node %s: schedule %s: %w", n.ID, n.ScheduleID, domain.ErrInvalidNodeReference)
	}
	if err := e.validatePlacement(n.Kind, n.ParentID); err != nil {
		return err
	}

	key := parentKey(n)
	if n.OrderIndex == 0 {
		n.OrderIndex = e.nextOrderIndex(key)
	}
	e.nodes[n.ID] = n
	e.children[key] = append(e.children[key], n.ID)
	e.sortChildren(key)
	e.markCreated(n)

	e.resolveLeafDates(n)
	e.rollupAncestors(n.ID)
	return nil
}

// UpdateNode applies new field values to an existing node. Kind is
// immutable; a parent change is a move and is re-validated. If the node is
// a task whose dates moved, the change is propagated through the dependency
// graph before ancestors are re-rolled.
func (e *Engine) UpdateNode(n *domain.ScheduleNode) error {
	current, ok := e.nodes[n.ID]
	if !ok {
		return fmt.Errorf("node %s: %w", n.ID, domain.ErrInvalidNodeReference)
	}
	if n.Kind != current.Kind {
		return fmt.Errorf("node %s: kind is immutable: %w", n.ID, domain.ErrInvalidHierarchy)
	}
	if n.ScheduleID != current.ScheduleID {
		return fmt.Errorf("node %s: schedule is immutable: %w", n.ID, domain.ErrInvalidNodeReference)
	}

	oldKey := parentKey(current)
	newKey := parentKey(n)
	if oldKey != newKey {
		if err := e.validateMove(n); err != nil {
			return err
		}
	}

	prevStart, prevEnd := current.StartDate, current.EndDate
	*current = *n
	if oldKey != newKey {
		e.children[oldKey] = removeID(e.children[oldKey], current.ID)
		// A moved node always re-enters at the end of its new sibling
		// list; keeping the old index could collide with a sibling.
		current.OrderIndex = e.nextOrderIndex(newKey)
		e.children[newKey] = append(e.children[newKey], current.ID)
		e.sortChildren(newKey)
	} else {
		e.sortChildren(oldKey)
	}
	e.touch(current)
	e.markUpdated(current.ID)

	e.resolveLeafDates(current)
	moved := !sameDate(prevStart, current.StartDate) || !sameDate(prevEnd, current.EndDate)
	if current.IsTask() && moved {
		e.Propagate()
	}
	// Roll up from the node itself, not just its ancestors: a non-leaf
	// keeps child-derived aggregates regardless of what the caller sent.
	e.rollupChain(current.ID)
	if oldKey != newKey {
		e.rollupChain(oldKey)
	}
	return nil
}

func (e *Engine) validateMove(n *domain.ScheduleNode) error {
	if n.ParentID != nil {
		// Reparenting under the node's own subtree would detach it from the tree.
		for _, id := range e.subtreeIDs(n.ID) {
			if id == *n.ParentID {
				return fmt.Errorf("node %s: new parent is inside its own subtree: %w", n.ID, domain.ErrInvalidHierarchy)
			}
		}
	}
	return e.validatePlacement(n.Kind, n.ParentID)
}

// DeleteNode removes the node and its whole subtree. Dependencies touching
// any removed task are removed with it; the former ancestor chain is then
// re-rolled.
func (e *Engine) DeleteNode(id string) error {
	n, ok := e.nodes[id]
	if !ok {
		return fmt.Errorf("node %s: %w", id, domain.ErrInvalidNodeReference)
	}
	key := parentKey(n)

	removed := e.subtreeIDs(id)
	removedSet := make(map[string]bool, len(removed))
	for _, rid := range removed {
		removedSet[rid] = true
	}
	for _, d := range e.Dependencies() {
		if removedSet[d.SourceTaskID] || removedSet[d.TargetTaskID] {
			e.unindexDependency(d)
			e.markDepDeleted(d.ID)
		}
	}
	// Children first so FK-ordered replays delete leaves before parents.
	for i := len(removed) - 1; i >= 0; i-- {
		rid := removed[i]
		child := e.nodes[rid]
		delete(e.nodes, rid)
		e.children[parentKey(child)] = removeID(e.children[parentKey(child)], rid)
		delete(e.children, rid)
		e.markNodeDeleted(rid)
	}

	e.rollupChain(key)
	return nil
}

// ReorderSiblings atomically rewrites the order of the given parent's
// children. orderedIDs must be exactly the current child set.
func (e *Engine) ReorderSiblings(parentID string, orderedIDs []string) error {
	key := parentID
	if parentID != rootKey {
		if _, ok := e.nodes[parentID]; !ok {
			return fmt.Errorf("parent %s: %w", parentID, domain.ErrInvalidNodeReference)
		}
	}
	current := e.children[key]
	if len(current) != len(orderedIDs) {
		return fmt.Errorf("reorder of %d children got %d ids: %w", len(current), len(orderedIDs), domain.ErrInvalidNodeReference)
	}
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if seen[id] || !contains(current, id) {
			return fmt.Errorf("id %s is not a child of %s: %w", id, parentID, domain.ErrInvalidNodeReference)
		}
		seen[id] = true
	}

	e.children[key] = append([]string(nil), orderedIDs...)
	for i, id := range orderedIDs {
		n := e.nodes[id]
		if n.OrderIndex != i+1 {
			n.OrderIndex = i + 1
			e.touch(n)
			e.markUpdated(id)
		}
	}
	return nil
}

func (e *Engine) validatePlacement(kind domain.NodeKind, parentID *string) error {
	level := domain.NodeKindLevel(kind)
	if level < 0 {
		return fmt.Errorf("unknown node kind %q: %w", kind, domain.ErrInvalidHierarchy)
	}
	if parentID == nil {
		if kind != domain.NodePhase {
			return fmt.Errorf("%s node requires a parent: %w", kind, domain.ErrInvalidHierarchy)
		}
		return nil
	}
	parent, ok := e.nodes[*parentID]
	if !ok {
		return fmt.Errorf("parent %s: %w", *parentID, domain.ErrInvalidNodeReference)
	}
	if domain.NodeKindLevel(parent.Kind) != level-1 {
		return fmt.Errorf("%s under %s: %w", kind, parent.Kind, domain.ErrInvalidHierarchy)
	}
	return nil
}

func (e *Engine) nextOrderIndex(key string) int {
	max := 0
	for _, id := range e.children[key] {
		if n := e.nodes[id]; n != nil && n.OrderIndex > max {
			max = n.OrderIndex
		}
	}
	return max + 1
}

// subtreeIDs returns the node and all its descendants, parents before children.
func (e *Engine) subtreeIDs(id string) []string {
	var out []string
	var visit func(string)
	visit = func(cur string) {
		out = append(out, cur)
		for _, child := range e.children[cur] {
			visit(child)
		}
	}
	visit(id)
	return out
}

func sameDate(a, b *time.Time) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || a.Equal(*b)
}
