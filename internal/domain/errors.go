package domain

import "errors"

// Structural violations rejected synchronously at the point of mutation.
// Callers match them with errors.Is against the wrapped error chain.
var (
	ErrCycle                = errors.New("dependency would create a cycle")
	ErrDuplicateDependency  = errors.New("equivalent dependency already exists")
	ErrSelfDependency       = errors.New("task cannot depend on itself")
	ErrInvalidNodeReference = errors.New("dependency endpoint is not a task in this schedule")
	ErrInvalidHierarchy     = errors.New("node kind does not match the level below its parent")
)

// ErrRollupInconsistency marks a recoverable aggregate mismatch detected by
// the pre-export validation pass.
var ErrRollupInconsistency = errors.New("rollup aggregates are inconsistent")
