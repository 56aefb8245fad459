package domain

type ScheduleKind string

const (
	ScheduleCommercial ScheduleKind = "commercial"
	SchedulePlanning   ScheduleKind = "planning"
	ScheduleExecution  ScheduleKind = "execution"
)

// ValidScheduleKinds is the canonical set of accepted schedule kind strings.
var ValidScheduleKinds = map[string]bool{
	"commercial": true, "planning": true, "execution": true,
}

type NodeKind string

const (
	NodePhase         NodeKind = "phase"
	NodeWorkBreakdown NodeKind = "work_breakdown"
	NodeActivity      NodeKind = "activity"
	NodeTask          NodeKind = "task"
)

// NodeKindLevel returns the hierarchy depth of a node kind: phase 0,
// work_breakdown 1, activity 2, task 3. Unknown kinds return -1.
func NodeKindLevel(k NodeKind) int {
	switch k {
	case NodePhase:
		return 0
	case NodeWorkBreakdown:
		return 1
	case NodeActivity:
		return 2
	case NodeTask:
		return 3
	default:
		return -1
	}
}

// ValidNodeKinds is the canonical set of accepted node kind strings.
var ValidNodeKinds = map[string]bool{
	"phase": true, "work_breakdown": true, "activity": true, "task": true,
}

type NodeStatus string

const (
	StatusPlanned    NodeStatus = "planned"
	StatusInProgress NodeStatus = "in_progress"
	StatusCompleted  NodeStatus = "completed"
	StatusPaused     NodeStatus = "paused"
	StatusCancelled  NodeStatus = "cancelled"
)

// ValidNodeStatuses is the canonical set of accepted status strings.
// Status is opaque metadata: it never gates rollup or propagation.
var ValidNodeStatuses = map[string]bool{
	"planned": true, "in_progress": true, "completed": true,
	"paused": true, "cancelled": true,
}

type NodePriority string

const (
	PriorityLow      NodePriority = "low"
	PriorityMedium   NodePriority = "medium"
	PriorityHigh     NodePriority = "high"
	PriorityCritical NodePriority = "critical"
)

// ValidNodePriorities is the canonical set of accepted priority strings.
var ValidNodePriorities = map[string]bool{
	"low": true, "medium": true, "high": true, "critical": true,
}

type DependencyType string

const (
	FinishToStart  DependencyType = "FS"
	StartToStart   DependencyType = "SS"
	FinishToFinish DependencyType = "FF"
	StartToFinish  DependencyType = "SF"
)

// ValidDependencyTypes is the canonical set of accepted dependency type strings.
var ValidDependencyTypes = map[string]bool{
	"FS": true, "SS": true, "FF": true, "SF": true,
}
