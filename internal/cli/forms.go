package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/svelazco/cronos/internal/cli/formatter"
)

func cronosHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func validateRequired(value string) error {
	if value == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func validateOptionalDate(value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func validateOptionalHours(value string) error {
	if value == "" {
		return nil
	}
	h, err := strconv.ParseFloat(value, 64)
	if err != nil || h < 0 {
		return fmt.Errorf("hours must be a non-negative number")
	}
	return nil
}

// runNodeAddForm collects node fields interactively, overwriting whatever
// the flags carried.
func runNodeAddForm(name, kind, parentID, start *string, hours *float64) error {
	hoursStr := ""
	if *hours > 0 {
		hoursStr = strconv.FormatFloat(*hours, 'g', -1, 64)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(name).
				Validate(validateRequired),
			huh.NewSelect[string]().
				Title("Kind").
				Options(
					huh.NewOption("Phase", "phase"),
					huh.NewOption("Work breakdown", "work_breakdown"),
					huh.NewOption("Activity", "activity"),
					huh.NewOption("Task", "task"),
				).
				Value(kind),
			huh.NewInput().
				Title("Parent node ID (blank for phases)").
				Value(parentID),
			huh.NewInput().
				Title("Start date (YYYY-MM-DD, tasks only)").
				Placeholder("2025-06-02").
				Value(start).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Estimated hours (tasks only)").
				Placeholder("40").
				Value(&hoursStr).
				Validate(validateOptionalHours),
		),
	).WithTheme(cronosHuhTheme()).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return err
	}
	if hoursStr != "" {
		h, err := strconv.ParseFloat(hoursStr, 64)
		if err != nil {
			return fmt.Errorf("invalid hours %q: %w", hoursStr, err)
		}
		*hours = h
	}
	return nil
}
