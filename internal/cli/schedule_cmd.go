package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/svelazco/cronos/internal/cli/formatter"
	"github.com/svelazco/cronos/internal/domain"
	"github.com/svelazco/cronos/internal/service"
)

func newScheduleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Manage schedules",
	}

	cmd.AddCommand(
		newScheduleAddCmd(app),
		newScheduleListCmd(app),
		newScheduleInspectCmd(app),
		newScheduleResetCmd(app),
		newScheduleRemoveCmd(app),
	)

	return cmd
}

func newScheduleAddCmd(app *App) *cobra.Command {
	var name, kind, calendarID, projectRef, quotationRef string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &domain.Schedule{
				Name:         name,
				Kind:         domain.ScheduleKind(kind),
				ProjectRef:   projectRef,
				QuotationRef: quotationRef,
			}
			if calendarID != "" {
				s.CalendarID = &calendarID
			}
			if err := app.Schedules.Create(context.Background(), s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created schedule %s (%s)\n", s.Name, s.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Schedule name")
	cmd.Flags().StringVar(&kind, "kind", "commercial", "Schedule kind (commercial, planning, execution)")
	cmd.Flags().StringVar(&calendarID, "calendar", "", "Working calendar ID")
	cmd.Flags().StringVar(&projectRef, "project-ref", "", "External project reference")
	cmd.Flags().StringVar(&quotationRef, "quotation-ref", "", "External quotation reference")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newScheduleListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			schedules, err := app.Schedules.List(context.Background())
			if err != nil {
				return err
			}
			if len(schedules) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No schedules found.")
				return nil
			}

			rows := make([][]string, 0, len(schedules))
			for _, s := range schedules {
				baseline := ""
				if s.Baseline {
					baseline = formatter.StyleYellow.Render("baseline")
				}
				rows = append(rows, []string{
					formatter.ShortID(s.ID),
					s.Name,
					string(s.Kind),
					baseline,
					s.CreatedAt.Format("2006-01-02"),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable(
				[]string{"ID", "NAME", "KIND", "FLAGS", "CREATED"}, rows))
			return nil
		},
	}
}

func newScheduleInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <schedule>",
		Short: "Show a schedule's tree with dates and hours",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveScheduleID(ctx, app, args[0])
			if err != nil {
				return err
			}
			s, err := app.Schedules.GetByID(ctx, id)
			if err != nil {
				return err
			}

			entries, err := app.Nodes.Tree(ctx, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, formatter.RenderBox(s.Name,
					formatter.Dim("kind: ")+string(s.Kind)))
				fmt.Fprintln(out, "Schedule is empty. Use 'cronos generate' or 'cronos node add'.")
				return nil
			}

			summary := formatter.Dim("kind: ") + string(s.Kind) + "\n" +
				formatter.Dim("progress: ") + formatter.RenderProgress(scheduleProgress(entries)/100, 30)
			fmt.Fprintln(out, formatter.RenderBox(s.Name, summary))
			fmt.Fprint(out, renderTreeEntries(entries))
			return nil
		},
	}
}

func newScheduleResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <schedule>",
		Short: "Remove all nodes and dependencies, keeping the schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveScheduleID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Schedules.Reset(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schedule reset.")
			return nil
		},
	}
}

func newScheduleRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <schedule>",
		Short: "Delete a schedule and everything under it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveScheduleID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Schedules.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schedule deleted.")
			return nil
		},
	}
}

// buildScheduleTree renders the schedule's node hierarchy with date and
// hour badges.
func buildScheduleTree(ctx context.Context, app *App, scheduleID string) (string, error) {
	entries, err := app.Nodes.Tree(ctx, scheduleID)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", nil
	}
	return renderTreeEntries(entries), nil
}

// scheduleProgress is the hours-weighted progress over the root nodes,
// in percent.
func scheduleProgress(entries []service.TreeEntry) float64 {
	var hours, weighted float64
	for _, e := range entries {
		if e.Depth != 0 {
			continue
		}
		hours += e.Node.EstimatedHours
		weighted += e.Node.EstimatedHours * e.Node.ProgressPercent
	}
	if hours == 0 {
		return 0
	}
	return weighted / hours
}

func renderTreeEntries(entries []service.TreeEntry) string {
	items := make([]formatter.TreeItem, len(entries))
	for i, e := range entries {
		n := e.Node
		detail := fmt.Sprintf("%s → %s · %s",
			formatter.FormatDate(n.StartDate),
			formatter.FormatDate(n.EndDate),
			formatter.FormatHours(n.EstimatedHours))
		items[i] = formatter.TreeItem{
			Title:  n.Name,
			Kind:   n.Kind,
			Level:  e.Depth,
			IsLast: isLastSibling(entries, i),
			Status: n.Status,
			Detail: detail,
		}
	}
	return formatter.RenderTree(items)
}

// isLastSibling reports whether entry i is the last entry at its depth
// before the depth-first walk returns to a shallower level.
func isLastSibling(entries []service.TreeEntry, i int) bool {
	for j := i + 1; j < len(entries); j++ {
		if entries[j].Depth < entries[i].Depth {
			return true
		}
		if entries[j].Depth == entries[i].Depth {
			return false
		}
	}
	return true
}
