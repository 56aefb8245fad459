package catalog

import (
	"fmt"

	"github.com/svelazco/cronos/internal/domain"
)

// Validate checks a catalog file for errors before generation.
// Returns a slice of all validation errors found.
func Validate(f *File) []error {
	var errs []error

	if len(f.Items) == 0 {
		errs = append(errs, fmt.Errorf("items: at least one item is required"))
	}

	itemIDs := make(map[string]bool)
	errs = append(errs, validateItems(f.Items, itemIDs)...)
	errs = append(errs, validateDependencies(f.Dependencies, itemIDs)...)

	return errs
}

func validateItems(items []ItemImport, itemIDs map[string]bool) []error {
	var errs []error

	for i, it := range items {
		prefix := fmt.Sprintf("items[%d]", i)

		if it.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if itemIDs[it.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, it.ID))
		} else {
			itemIDs[it.ID] = true
		}

		if it.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if it.EstimatedHours < 0 {
			errs = append(errs, fmt.Errorf("%s.estimated_hours must not be negative", prefix))
		}
		if it.Quantity < 0 {
			errs = append(errs, fmt.Errorf("%s.quantity must not be negative", prefix))
		}
	}

	return errs
}

func validateDependencies(deps []DependencyImport, itemIDs map[string]bool) []error {
	var errs []error

	for i, d := range deps {
		prefix := fmt.Sprintf("dependencies[%d]", i)

		if d.SourceItemID == "" {
			errs = append(errs, fmt.Errorf("%s.source_item_id is required", prefix))
		} else if !itemIDs[d.SourceItemID] {
			errs = append(errs, fmt.Errorf("%s.source_item_id: id %q not found in items", prefix, d.SourceItemID))
		}

		if d.TargetItemID == "" {
			errs = append(errs, fmt.Errorf("%s.target_item_id is required", prefix))
		} else if !itemIDs[d.TargetItemID] {
			errs = append(errs, fmt.Errorf("%s.target_item_id: id %q not found in items", prefix, d.TargetItemID))
		}

		if d.SourceItemID != "" && d.SourceItemID == d.TargetItemID {
			errs = append(errs, fmt.Errorf("%s: self-dependency (source_item_id == target_item_id == %q)", prefix, d.SourceItemID))
		}

		if d.Type != "" && !domain.ValidDependencyTypes[d.Type] {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q", prefix, d.Type))
		}
	}

	// Check for circular dependencies
	if len(deps) > 1 {
		errs = append(errs, detectCycles(deps)...)
	}

	return errs
}

func detectCycles(deps []DependencyImport) []error {
	// Build adjacency list
	graph := make(map[string][]string)
	nodes := make(map[string]bool)
	for _, d := range deps {
		if d.SourceItemID != "" && d.TargetItemID != "" && d.SourceItemID != d.TargetItemID {
			graph[d.SourceItemID] = append(graph[d.SourceItemID], d.TargetItemID)
			nodes[d.SourceItemID] = true
			nodes[d.TargetItemID] = true
		}
	}

	// DFS cycle detection
	const (
		white = 0 // unvisited
		gray  = 1 // in current path
		black = 2 // fully processed
	)

	color := make(map[string]int)
	var errs []error

	var visit func(node string) bool
	visit = func(node string) bool {
		color[node] = gray
		for _, neighbor := range graph[node] {
			if color[neighbor] == gray {
				errs = append(errs, fmt.Errorf("circular dependency detected involving %q and %q", node, neighbor))
				return true
			}
			if color[neighbor] == white {
				if visit(neighbor) {
					return true
				}
			}
		}
		color[node] = black
		return false
	}

	for node := range nodes {
		if color[node] == white {
			visit(node)
		}
	}

	return errs
}
