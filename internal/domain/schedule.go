package domain

import "time"

type Schedule struct {
	ID         string
	Name       string
	Kind       ScheduleKind
	Baseline   bool
	CalendarID *string

	// Opaque references to external collaborators (CRM / quotation system).
	ProjectRef   string
	QuotationRef string

	CreatedAt time.Time
	UpdatedAt time.Time
}
