package engine

import (
	"sort"
	"time"

	"github.com/svelazco/cronos/internal/calendar"
	"github.com/svelazco/cronos/internal/domain"
)

// rootKey indexes the children map for phase nodes, which have no parent.
const rootKey = ""

// Engine holds one schedule's node tree and dependency graph in memory and
// applies mutations as atomic validate → mutate → rollup → propagate steps.
// Nodes live in a flat arena keyed by id; parent/child relations are id
// lists, so the structure is cycle-free by construction.
//
// The engine is not safe for concurrent mutation; the caller serializes
// writers per schedule.
type Engine struct {
	schedule *domain.Schedule
	cal      calendar.WorkingCalendar

	nodes    map[string]*domain.ScheduleNode
	children map[string][]string // parent id (rootKey for phases) -> ordered child ids

	deps     map[string]*domain.Dependency
	depOrder []string            // insertion order, stable across runs
	outgoing map[string][]string // source task id -> dependency ids
	incoming map[string][]string // target task id -> dependency ids

	changes changeLog
}

// Changes is the write set accumulated since the last TakeChanges call,
// in an order safe to replay against storage (parents before children).
type Changes struct {
	CreatedNodes   []*domain.ScheduleNode
	UpdatedNodes   []*domain.ScheduleNode
	DeletedNodeIDs []string
	CreatedDeps    []*domain.Dependency
	DeletedDepIDs  []string
}

// Empty reports whether the write set contains no work.
func (c Changes) Empty() bool {
	return len(c.CreatedNodes) == 0 && len(c.UpdatedNodes) == 0 &&
		len(c.DeletedNodeIDs) == 0 && len(c.CreatedDeps) == 0 && len(c.DeletedDepIDs) == 0
}

type changeLog struct {
	createdNodes []string // creation order preserved for FK-safe inserts
	updatedNodes map[string]bool
	deletedNodes []string
	createdDeps  []string
	deletedDeps  []string
}

func newChangeLog() changeLog {
	return changeLog{updatedNodes: make(map[string]bool)}
}

// New builds an engine over an already-loaded schedule state. Children are
// ordered by OrderIndex; dependency adjacency is indexed by endpoint.
func New(s *domain.Schedule, nodes []*domain.ScheduleNode, deps []*domain.Dependency, cal calendar.WorkingCalendar) *Engine {
	e := &Engine{
		schedule: s,
		cal:      cal,
		nodes:    make(map[string]*domain.ScheduleNode, len(nodes)),
		children: make(map[string][]string),
		deps:     make(map[string]*domain.Dependency, len(deps)),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		changes:  newChangeLog(),
	}
	for _, n := range nodes {
		e.nodes[n.ID] = n
		e.children[parentKey(n)] = append(e.children[parentKey(n)], n.ID)
	}
	for key := range e.children {
		e.sortChildren(key)
	}
	for _, d := range deps {
		e.indexDependency(d)
	}
	return e
}

func parentKey(n *domain.ScheduleNode) string {
	if n.ParentID == nil {
		return rootKey
	}
	return *n.ParentID
}

func (e *Engine) sortChildren(key string) {
	ids := e.children[key]
	sort.SliceStable(ids, func(i, j int) bool {
		return e.nodes[ids[i]].OrderIndex < e.nodes[ids[j]].OrderIndex
	})
}

func (e *Engine) indexDependency(d *domain.Dependency) {
	e.deps[d.ID] = d
	e.depOrder = append(e.depOrder, d.ID)
	e.outgoing[d.SourceTaskID] = append(e.outgoing[d.SourceTaskID], d.ID)
	e.incoming[d.TargetTaskID] = append(e.incoming[d.TargetTaskID], d.ID)
}

func (e *Engine) unindexDependency(d *domain.Dependency) {
	delete(e.deps, d.ID)
	e.depOrder = removeID(e.depOrder, d.ID)
	e.outgoing[d.SourceTaskID] = removeID(e.outgoing[d.SourceTaskID], d.ID)
	e.incoming[d.TargetTaskID] = removeID(e.incoming[d.TargetTaskID], d.ID)
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// Schedule returns the schedule this engine operates on.
func (e *Engine) Schedule() *domain.Schedule { return e.schedule }

// Calendar returns the working calendar in effect.
func (e *Engine) Calendar() calendar.WorkingCalendar { return e.cal }

// Node returns the node with the given id, or nil.
func (e *Engine) Node(id string) *domain.ScheduleNode { return e.nodes[id] }

// Children returns the ordered children of the given parent id.
func (e *Engine) Children(parentID string) []*domain.ScheduleNode {
	return e.resolve(e.children[parentID])
}

// Roots returns the ordered phase nodes.
func (e *Engine) Roots() []*domain.ScheduleNode {
	return e.resolve(e.children[rootKey])
}

// Nodes returns every node in depth-first sibling order.
func (e *Engine) Nodes() []*domain.ScheduleNode {
	var out []*domain.ScheduleNode
	e.Walk(func(n *domain.ScheduleNode, _ int) {
		out = append(out, n)
	})
	return out
}

// Walk visits every node depth-first in sibling order, passing its depth.
func (e *Engine) Walk(fn func(n *domain.ScheduleNode, depth int)) {
	var visit func(id string, depth int)
	visit = func(id string, depth int) {
		n := e.nodes[id]
		if n == nil {
			return
		}
		fn(n, depth)
		for _, child := range e.children[id] {
			visit(child, depth+1)
		}
	}
	for _, id := range e.children[rootKey] {
		visit(id, 0)
	}
}

// Dependencies returns every dependency in insertion order (creation order
// for new edges, repository order for loaded ones).
func (e *Engine) Dependencies() []*domain.Dependency {
	out := make([]*domain.Dependency, 0, len(e.depOrder))
	for _, id := range e.depOrder {
		if d := e.deps[id]; d != nil {
			out = append(out, d)
		}
	}
	return out
}

func (e *Engine) resolve(ids []string) []*domain.ScheduleNode {
	out := make([]*domain.ScheduleNode, 0, len(ids))
	for _, id := range ids {
		if n := e.nodes[id]; n != nil {
			out = append(out, n)
		}
	}
	return out
}

// TakeChanges returns the accumulated write set and clears it.
func (e *Engine) TakeChanges() Changes {
	var c Changes
	for _, id := range e.changes.createdNodes {
		if n := e.nodes[id]; n != nil {
			c.CreatedNodes = append(c.CreatedNodes, n)
		}
	}
	for id := range e.changes.updatedNodes {
		if n := e.nodes[id]; n != nil {
			c.UpdatedNodes = append(c.UpdatedNodes, n)
		}
	}
	sortNodesByID(c.UpdatedNodes)
	c.DeletedNodeIDs = append(c.DeletedNodeIDs, e.changes.deletedNodes...)
	for _, id := range e.changes.createdDeps {
		if d := e.deps[id]; d != nil {
			c.CreatedDeps = append(c.CreatedDeps, d)
		}
	}
	c.DeletedDepIDs = append(c.DeletedDepIDs, e.changes.deletedDeps...)
	e.changes = newChangeLog()
	return c
}

func sortNodesByID(nodes []*domain.ScheduleNode) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
}

func (e *Engine) markCreated(n *domain.ScheduleNode) {
	e.changes.createdNodes = append(e.changes.createdNodes, n.ID)
}

func (e *Engine) markUpdated(id string) {
	for _, created := range e.changes.createdNodes {
		if created == id {
			return // still pending insert; the insert carries the new values
		}
	}
	e.changes.updatedNodes[id] = true
}

func (e *Engine) markNodeDeleted(id string) {
	delete(e.changes.updatedNodes, id)
	e.changes.createdNodes = removeID(e.changes.createdNodes, id)
	e.changes.deletedNodes = append(e.changes.deletedNodes, id)
}

func (e *Engine) markDepCreated(id string) {
	e.changes.createdDeps = append(e.changes.createdDeps, id)
}

func (e *Engine) markDepDeleted(id string) {
	if contains(e.changes.createdDeps, id) {
		e.changes.createdDeps = removeID(e.changes.createdDeps, id)
		return
	}
	e.changes.deletedDeps = append(e.changes.deletedDeps, id)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (e *Engine) touch(n *domain.ScheduleNode) {
	n.UpdatedAt = time.Now().UTC()
}
