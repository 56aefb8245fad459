package domain

// CatalogItem is a flat line item supplied by an external catalog source
// (equipment, services, expenses). The engine only reads it.
type CatalogItem struct {
	ID             string
	Name           string
	Category       string
	Quantity       float64
	EstimatedHours float64
}
