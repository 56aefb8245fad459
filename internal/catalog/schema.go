package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/svelazco/cronos/internal/domain"
)

// File is the top-level JSON structure for a quotation catalog export.
type File struct {
	Name         string             `json:"name,omitempty"`
	Items        []ItemImport       `json:"items"`
	Dependencies []DependencyImport `json:"dependencies,omitempty"`
}

// ItemImport defines one catalog line item in the file.
type ItemImport struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Category       string  `json:"category,omitempty"`
	Quantity       float64 `json:"quantity,omitempty"`
	EstimatedHours float64 `json:"estimated_hours"`
}

// DependencyImport defines a precedence link between two catalog items,
// used by advanced generation.
type DependencyImport struct {
	SourceItemID string `json:"source_item_id"`
	TargetItemID string `json:"target_item_id"`
	Type         string `json:"type,omitempty"`
	LagDays      int    `json:"lag_days,omitempty"`
}

// Dependency is the validated form of a catalog precedence link.
type Dependency struct {
	SourceItemID string
	TargetItemID string
	Type         domain.DependencyType
	LagDays      int
}

// Load reads and parses a catalog JSON file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}
	return &f, nil
}

// DomainItems converts the file's items to their domain form.
func (f *File) DomainItems() []domain.CatalogItem {
	items := make([]domain.CatalogItem, 0, len(f.Items))
	for _, it := range f.Items {
		qty := it.Quantity
		if qty == 0 {
			qty = 1
		}
		items = append(items, domain.CatalogItem{
			ID:             it.ID,
			Name:           it.Name,
			Category:       it.Category,
			Quantity:       qty,
			EstimatedHours: it.EstimatedHours,
		})
	}
	return items
}

// DomainDependencies converts the file's dependency list to its validated
// form. An empty type defaults to finish-to-start.
func (f *File) DomainDependencies() []Dependency {
	deps := make([]Dependency, 0, len(f.Dependencies))
	for _, d := range f.Dependencies {
		typ := domain.DependencyType(d.Type)
		if d.Type == "" {
			typ = domain.FinishToStart
		}
		deps = append(deps, Dependency{
			SourceItemID: d.SourceItemID,
			TargetItemID: d.TargetItemID,
			Type:         typ,
			LagDays:      d.LagDays,
		})
	}
	return deps
}
