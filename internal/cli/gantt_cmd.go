package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/svelazco/cronos/internal/cli/formatter"
	"github.com/svelazco/cronos/internal/engine"
)

// granularityFlag is a pflag.Value restricted to the projection
// granularities the engine accepts.
type granularityFlag struct {
	value engine.Granularity
}

var _ pflag.Value = (*granularityFlag)(nil)

func (g *granularityFlag) String() string { return string(g.value) }

func (g *granularityFlag) Set(s string) error {
	if !engine.ValidGranularities[s] {
		return fmt.Errorf("invalid granularity %q (want day, week or month)", s)
	}
	g.value = engine.Granularity(s)
	return nil
}

func (g *granularityFlag) Type() string { return "granularity" }

func newGanttCmd(app *App) *cobra.Command {
	var scheduleRef, from, to string
	var width int
	var interactive bool
	granularity := granularityFlag{value: engine.GranularityWeek}

	cmd := &cobra.Command{
		Use:   "gantt",
		Short: "Render the schedule as a Gantt chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			scheduleID, err := resolveScheduleID(ctx, app, scheduleRef)
			if err != nil {
				return err
			}
			windowStart, err := parseDate(from)
			if err != nil {
				return err
			}
			windowEnd, err := parseDate(to)
			if err != nil {
				return err
			}

			if interactive {
				if !app.interactive() {
					return fmt.Errorf("--interactive requires a terminal")
				}
				model := newGanttModel(app, scheduleID, windowStart, windowEnd, granularity.value)
				_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
				return err
			}

			view, err := app.Gantt.Gantt(ctx, scheduleID, windowStart, windowEnd, granularity.value)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderGantt(view, width))
			return nil
		},
	}

	cmd.Flags().StringVar(&scheduleRef, "schedule", "", "Schedule name or ID")
	cmd.Flags().StringVar(&from, "from", "", "Window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Window end (YYYY-MM-DD)")
	cmd.Flags().Var(&granularity, "granularity", "Timeline granularity (day, week, month)")
	cmd.Flags().IntVar(&width, "width", 110, "Chart width in columns")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Open the interactive viewer")
	_ = cmd.MarkFlagRequired("schedule")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
