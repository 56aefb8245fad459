package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/svelazco/cronos/internal/domain"
	"github.com/svelazco/cronos/internal/repository"
)

// resolveScheduleID maps user input to a schedule id: exact name match
// (case-insensitive) first, then exact uuid, then unambiguous uuid prefix.
func resolveScheduleID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("schedule is required")
	}

	schedules, err := app.Schedules.List(ctx)
	if err != nil {
		return "", err
	}

	for _, s := range schedules {
		if strings.EqualFold(s.Name, input) {
			return s.ID, nil
		}
	}
	for _, s := range schedules {
		if s.ID == input {
			return s.ID, nil
		}
	}

	var matches []string
	for _, s := range schedules {
		if strings.HasPrefix(s.ID, input) {
			matches = append(matches, s.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("schedule not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("schedule prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func parseDate(value string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", value, err)
	}
	return d, nil
}

// UserMessage flattens a command error into the one-line message shown to
// the user; structural engine rejections get a plain-language rendering.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrCycle):
		return "that dependency would create a cycle; remove a link in the chain first"
	case errors.Is(err, domain.ErrDuplicateDependency):
		return "an equivalent dependency between those tasks already exists"
	case errors.Is(err, domain.ErrSelfDependency):
		return "a task cannot depend on itself"
	case errors.Is(err, domain.ErrInvalidNodeReference):
		return "dependencies can only link task rows of the same schedule"
	case errors.Is(err, domain.ErrInvalidHierarchy):
		return "nodes must follow phase → work breakdown → activity → task, one level at a time"
	case errors.Is(err, repository.ErrNotFound):
		return err.Error()
	default:
		return err.Error()
	}
}
