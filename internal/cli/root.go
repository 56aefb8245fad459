package cli

import (
	"github.com/spf13/cobra"

	"github.com/svelazco/cronos/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Calendars service.CalendarService
	Schedules service.ScheduleService
	Nodes     service.NodeService
	Deps      service.DependencyService
	Generate  service.GenerateService
	Export    service.ExportService
	Gantt     service.ProjectionService

	// IsInteractive reports whether stdin is a terminal; interactive
	// surfaces (forms, the gantt viewer) require it.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "cronos" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "cronos",
		Short: "Commercial schedule engine for construction projects",
	}

	root.AddCommand(
		newCalendarCmd(app),
		newScheduleCmd(app),
		newNodeCmd(app),
		newDepCmd(app),
		newGenerateCmd(app),
		newGanttCmd(app),
		newExportCmd(app),
	)

	return root
}
